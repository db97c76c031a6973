// Package fs is the filesystem seam of the local chunk store. Tests swap
// in a FaultyFS to fail opens, reads, writes or renames on chosen paths:
//
//	ffs := fs.NewFaultyFS(nil)
//	ffs.AddRule("c/0/1", fs.Fault{FailOnRename: true, FailAfterBytes: -1})
//	s := store.NewLocalStore(root, store.WithFileSystem(ffs))
package fs
