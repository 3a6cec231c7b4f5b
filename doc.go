// Package keepsake implements a personal save vault: owners upload
// binary files or text snippets, payloads land in an object store, and
// one metadata record per item lands in a document store.
//
// # Key Components
//
//   - Service: reconciles save/edit requests across the two stores
//   - ItemRepo: interface for metadata persistence (MongoDB, PostgreSQL, SQLite)
//   - ObjectStore: interface for payload storage (S3-compatible, local filesystem)
//   - DeriveTitle: title derivation for text items
//
// # Write ordering
//
// Object-store writes always precede metadata writes. The two stores
// are not transactional: a failure between the put and the insert
// leaves an unreferenced object, which is harmless (items are only
// discovered via metadata) and is reclaimed by Service.Sweep. The
// reverse ordering would leave dangling locators instead.
//
// # Example Usage
//
//	svc := keepsake.NewService(repo, store)
//
//	receipt, err := svc.SaveText(ctx, keepsake.NewText{
//	    OwnerID: owner,
//	    Text:    "remember this",
//	})
//
// See the http package for the REST surface and the database
// subpackages for the metadata backends.
package keepsake
