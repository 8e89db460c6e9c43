package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"time"

	"crm-sync/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

const timestampLayout = "20060102T150405Z"

// RunReport summarizes one pull or push run.
type RunReport struct {
	RunID       string    `json:"runId"`
	Integration string    `json:"integration"`
	Kind        string    `json:"kind"`
	Direction   string    `json:"direction"`
	StartedAt   time.Time `json:"startedAt"`
	FinishedAt  time.Time `json:"finishedAt"`
	Created     int       `json:"created"`
	Updated     int       `json:"updated"`
	Skipped     int       `json:"skipped"`
	Error       string    `json:"error,omitempty"`
}

// Archiver stores run reports in object storage.
type Archiver struct {
	client storage.Client
	bucket string
	prefix string
	logger *zap.Logger
}

// NewArchiver creates an archiver writing under prefix in bucket.
func NewArchiver(client storage.Client, bucket, prefix string, logger *zap.Logger) *Archiver {
	return &Archiver{client: client, bucket: bucket, prefix: prefix, logger: logger}
}

// Key returns the object name of a report.
func (a *Archiver) Key(r *RunReport) string {
	name := fmt.Sprintf("%s-%s.json", r.StartedAt.UTC().Format(timestampLayout), r.RunID)
	return path.Join(a.prefix, r.Integration, r.Kind, r.Direction, name)
}

// Archive uploads a report and returns its object name.
func (a *Archiver) Archive(ctx context.Context, r *RunReport) (string, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("failed to encode run report: %w", err)
	}

	key := a.Key(r)
	_, err = a.client.PutObject(ctx, a.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload run report %s: %w", key, err)
	}

	a.logger.Debug("Run report archived", zap.String("bucket", a.bucket), zap.String("object", key))
	return key, nil
}

// Load reads an archived report back.
func (a *Archiver) Load(ctx context.Context, key string) (*RunReport, error) {
	data, err := storage.ReadObject(ctx, a.client, a.bucket, key)
	if err != nil {
		return nil, err
	}
	var r RunReport
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to decode run report %s: %w", key, err)
	}
	return &r, nil
}
