// Package minio provides a chunk store on MinIO and other S3-compatible
// object stores (Ceph, SeaweedFS, Garage) using the MinIO client.
//
// # Basic Usage
//
//	client, err := minio.New("localhost:9000", &minio.Options{
//	    Creds:  credentials.NewStaticV4("minioadmin", "minioadmin", ""),
//	    Secure: false,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	st := miniostore.NewStore(client, "my-bucket", "arrays/temperature")
//
// New builds the client from the environment instead, reading
// MINIO_ACCESS_KEY/MINIO_SECRET_KEY and falling back to the AWS variables.
package minio
