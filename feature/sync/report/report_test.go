package report_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"crm-sync/core/storage/mocks"
	"crm-sync/feature/sync/report"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func sample() *report.RunReport {
	return &report.RunReport{
		RunID:       "run-1",
		Integration: "NetSuite",
		Kind:        "contact",
		Direction:   "push",
		StartedAt:   time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC),
		FinishedAt:  time.Date(2024, 3, 1, 12, 31, 0, 0, time.UTC),
		Created:     2,
		Skipped:     1,
		Error:       "remote add batch 2 failed",
	}
}

func TestArchiver_Key(t *testing.T) {
	a := report.NewArchiver(new(mocks.Client), "crm-sync", "sync-reports", zap.NewNop())
	assert.Equal(t, "sync-reports/NetSuite/contact/push/20240301T123000Z-run-1.json", a.Key(sample()))
}

func TestArchiver_ArchiveAndLoad(t *testing.T) {
	ctx := context.Background()
	client := new(mocks.Client)
	a := report.NewArchiver(client, "crm-sync", "sync-reports", zap.NewNop())
	key := "sync-reports/NetSuite/contact/push/20240301T123000Z-run-1.json"

	var stored []byte
	client.On("PutObject", mock.Anything, "crm-sync", key, mock.Anything, mock.Anything, mock.MatchedBy(func(o minio.PutObjectOptions) bool {
		return o.ContentType == "application/json"
	})).Run(func(args mock.Arguments) {
		data, err := io.ReadAll(args.Get(3).(io.Reader))
		require.NoError(t, err)
		stored = data
		assert.EqualValues(t, len(data), args.Get(4))
	}).Return(minio.UploadInfo{}, nil)

	got, err := a.Archive(ctx, sample())
	require.NoError(t, err)
	assert.Equal(t, key, got)
	assert.Contains(t, string(stored), `"runId":"run-1"`)

	client.On("GetObject", mock.Anything, "crm-sync", key, mock.Anything).
		Return(io.NopCloser(bytes.NewReader(stored)), nil)

	loaded, err := a.Load(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, sample().Created, loaded.Created)
	assert.Equal(t, sample().Error, loaded.Error)
	assert.True(t, sample().StartedAt.Equal(loaded.StartedAt))
	client.AssertExpectations(t)
}

func TestArchiver_UploadFailure(t *testing.T) {
	client := new(mocks.Client)
	client.On("PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, errors.New("connection refused"))

	a := report.NewArchiver(client, "crm-sync", "sync-reports", zap.NewNop())
	_, err := a.Archive(context.Background(), sample())
	assert.ErrorContains(t, err, "failed to upload run report")
}
