package checks

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"crm-sync/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// StorageReport describes the state of the report bucket.
type StorageReport struct {
	Bucket       string `json:"bucket"`
	BucketExists bool   `json:"bucket_exists"`
	Prefix       string `json:"prefix"`
	PrefixExists bool   `json:"prefix_exists"`
}

// OK reports whether reports can be archived.
func (r *StorageReport) OK() bool {
	return r.BucketExists && r.PrefixExists
}

func folder(prefix string) string {
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return prefix
}

// CheckStorage verifies that the bucket and the report prefix exist.
func CheckStorage(ctx context.Context, client storage.Client, bucket, prefix string) (*StorageReport, error) {
	report := &StorageReport{Bucket: bucket, Prefix: prefix}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	report.BucketExists = exists
	if !exists {
		return report, nil
	}

	opts := minio.ListObjectsOptions{
		Prefix:    folder(prefix),
		Recursive: false,
		MaxKeys:   1,
	}
	for range client.ListObjects(ctx, bucket, opts) {
		report.PrefixExists = true
		break
	}
	return report, nil
}

// FixStorage creates what CheckStorage found missing.
func FixStorage(ctx context.Context, client storage.Client, logger *zap.Logger, report *StorageReport) error {
	if !report.BucketExists {
		if err := storage.EnsureBucket(ctx, client, report.Bucket); err != nil {
			return err
		}
		logger.Info("Created missing bucket", zap.String("bucket", report.Bucket))
		report.BucketExists = true
	}

	if !report.PrefixExists {
		_, err := client.PutObject(ctx, report.Bucket, folder(report.Prefix), bytes.NewReader([]byte{}), 0, minio.PutObjectOptions{})
		if err != nil {
			logger.Error("Failed to create report folder", zap.String("prefix", report.Prefix), zap.Error(err))
			return err
		}
		logger.Info("Created missing report folder", zap.String("prefix", report.Prefix))
		report.PrefixExists = true
	}
	return nil
}
