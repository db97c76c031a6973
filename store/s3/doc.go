// Package s3 stores chunks in an Amazon S3 bucket.
//
//	st, err := s3.New(ctx, "my-bucket", "arrays/temperature")
//
// Partial chunk reads use HTTP range requests. Set goes through the
// multipart upload manager, which uses a single PutObject for values
// smaller than the part size.
package s3
