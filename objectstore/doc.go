// Package objectstore provides the payload storage backends.
//
// Two backends are supported:
//   - s3: any S3-compatible service (MinIO, AWS S3, object storage CDNs)
//   - fs: a sandboxed local directory, useful for development and self-hosting
//
// Both implement keepsake.ObjectStore. Objects are addressed by owner-scoped
// keys ("owner-id/file name") and resolved to public locator URLs by joining
// the configured public base URL with the key.
package objectstore
