// Package storage wraps the MinIO/S3 client used for sync artifacts.
//
// The sync feature writes one JSON report per pull or push run into the configured bucket, and the
// sandbox remote driver loads its record fixture from it. The Client interface keeps the minio
// surface small enough to mock (see the mocks sub-package).
package storage
