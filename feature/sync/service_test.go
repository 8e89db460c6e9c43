package sync_test

import (
	"context"
	"strings"
	"testing"

	"crm-sync/core/config"
	"crm-sync/core/database"
	"crm-sync/core/remote"
	"crm-sync/core/remote/sandbox"
	"crm-sync/core/storage/mocks"
	crmsync "crm-sync/feature/sync"
	"crm-sync/feature/sync/audit"
	"crm-sync/feature/sync/models"
	"crm-sync/feature/sync/report"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func syncConfig() config.SyncConfig {
	return config.SyncConfig{
		Integration:   "NetSuite",
		Objects:       "contact",
		RemoteOffset:  "-07:00",
		LocalTimezone: "UTC",
		BatchSize:     100,
		ReportPrefix:  "sync-reports",
	}
}

func newService(t *testing.T, cfg config.SyncConfig, storage *mocks.Client) (*crmsync.Service, *sandbox.Sandbox) {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)

	var archiver *report.Archiver
	if storage != nil {
		archiver = report.NewArchiver(storage, "crm-sync", cfg.ReportPrefix, zap.NewNop())
	}

	sb := sandbox.New()
	svc, err := crmsync.NewService(db, sb, archiver, cfg, nil, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, svc.Migrate())
	return svc, sb
}

func seedContact(sb *sandbox.Sandbox, email string) string {
	r := remote.NewRecord(remote.TypeContact)
	r.SetProperty("email", email)
	r.SetProperty("firstName", "Jane")
	r.SetProperty("lastName", "Doe")
	return sb.Seed(r)[0]
}

func TestService_PullArchivesReport(t *testing.T) {
	ctx := context.Background()
	storage := new(mocks.Client)
	storage.On("PutObject", mock.Anything, "crm-sync", mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, "sync-reports/NetSuite/contact/pull/")
	}), mock.Anything, mock.Anything, mock.Anything).Return(minio.UploadInfo{}, nil)

	svc, sb := newService(t, syncConfig(), storage)
	id := seedContact(sb, "jane@example.com")

	rep, err := svc.Pull(ctx, "contact", crmsync.RunRequest{})
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Created)
	assert.NotEmpty(t, rep.RunID)
	assert.Empty(t, rep.Error)
	assert.False(t, rep.FinishedAt.Before(rep.StartedAt))
	storage.AssertNumberOfCalls(t, "PutObject", 1)

	link, err := svc.Link(ctx, "contact", id)
	require.NoError(t, err)
	assert.Equal(t, id, link.RemoteRecordID)

	_, err = svc.Link(ctx, "contact", "999")
	assert.ErrorIs(t, err, crmsync.ErrLinkNotFound)
}

func TestService_Kinds(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t, syncConfig(), nil)

	assert.Equal(t, []models.Kind{models.KindContact}, svc.Kinds())

	_, err := svc.Pull(ctx, "company", crmsync.RunRequest{})
	assert.ErrorIs(t, err, crmsync.ErrObjectDisabled)

	_, err = svc.Fields(ctx, "lead")
	var kindErr *models.UnsupportedKindError
	assert.ErrorAs(t, err, &kindErr)
}

func TestService_Fields(t *testing.T) {
	svc, _ := newService(t, syncConfig(), nil)

	fields, err := svc.Fields(context.Background(), "Contact")
	require.NoError(t, err)
	require.NotEmpty(t, fields)
	for i := 1; i < len(fields); i++ {
		assert.Less(t, fields[i-1].ID, fields[i].ID)
	}
}

func TestService_ConfiguredWindow(t *testing.T) {
	ctx := context.Background()
	cfg := syncConfig()
	cfg.WindowStart = "2999-01-01"
	svc, sb := newService(t, cfg, nil)
	seedContact(sb, "jane@example.com")

	rep, err := svc.Pull(ctx, "contact", crmsync.RunRequest{})
	require.NoError(t, err)
	assert.Equal(t, 0, rep.Created)

	rep, err = svc.Pull(ctx, "contact", crmsync.RunRequest{FetchAll: true})
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Created)
}

func TestService_FailedRunKeepsReport(t *testing.T) {
	storage := new(mocks.Client)
	storage.On("PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, nil)

	svc, sb := newService(t, syncConfig(), storage)
	seedContact(sb, "jane@example.com")
	sb.FailNext("Search", remote.Failure("SSS_REQUEST_LIMIT_EXCEEDED", "slow down"))

	rep, err := svc.Pull(context.Background(), "contact", crmsync.RunRequest{})
	var queryErr *models.RemoteQueryError
	require.ErrorAs(t, err, &queryErr)
	require.NotNil(t, rep)
	assert.Contains(t, rep.Error, "SSS_REQUEST_LIMIT_EXCEEDED")
	storage.AssertNumberOfCalls(t, "PutObject", 1)
}

func TestService_InvalidConfig(t *testing.T) {
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)

	cfg := syncConfig()
	cfg.LocalTimezone = "Mars/Olympus"
	_, err = crmsync.NewService(db, sandbox.New(), nil, cfg, nil, zap.NewNop())
	assert.ErrorContains(t, err, "invalid local timezone")
}

func TestService_AuditAndPrune(t *testing.T) {
	ctx := context.Background()
	svc, sb := newService(t, syncConfig(), nil)
	keep := seedContact(sb, "keep@example.com")
	gone := seedContact(sb, "gone@example.com")

	_, err := svc.Pull(ctx, "contact", crmsync.RunRequest{FetchAll: true})
	require.NoError(t, err)
	require.True(t, sb.Remove(remote.TypeContact, gone))

	opts := audit.Options{DoPrune: true}
	plan, err := svc.Audit(ctx, "contact", opts)
	require.NoError(t, err)
	assert.Equal(t, 2, plan.Summary.TotalLinks)
	assert.Equal(t, 1, plan.Summary.MissingRemote)
	require.Len(t, plan.Actions, 1)
	assert.Equal(t, gone, plan.Actions[0].Key)

	n, err := svc.Prune(ctx, plan, opts)
	require.NoError(t, err)
	assert.Zero(t, n)

	opts.Confirmed = true
	n, err = svc.Prune(ctx, plan, opts)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = svc.Link(ctx, "contact", gone)
	assert.ErrorIs(t, err, crmsync.ErrLinkNotFound)
	_, err = svc.Link(ctx, "contact", keep)
	assert.NoError(t, err)

	_, err = svc.Audit(ctx, "company", opts)
	assert.ErrorIs(t, err, crmsync.ErrObjectDisabled)
}
