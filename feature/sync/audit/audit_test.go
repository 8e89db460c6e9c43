package audit_test

import (
	"context"
	"testing"
	"time"

	"crm-sync/core/database"
	"crm-sync/core/remote"
	"crm-sync/core/remote/sandbox"
	"crm-sync/feature/sync/audit"
	"crm-sync/feature/sync/entities"
	"crm-sync/feature/sync/links"
	"crm-sync/feature/sync/models"
	"crm-sync/feature/sync/pager"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const integration = "NetSuite"

type fixture struct {
	sb       *sandbox.Sandbox
	links    *links.Store
	auditor  *audit.Auditor
	remoteOK string
	remoteUn string
	localOK  uint
	localUn  uint
}

// newFixture seeds one healthy link, one link to a deleted remote record,
// one link to a deleted local entity, plus one unlinked record on each side.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)

	linkStore := links.NewStore(db)
	require.NoError(t, linkStore.Migrate())
	entityStore := entities.NewStore(db, map[models.Kind]string{models.KindContact: "email"})
	require.NoError(t, entityStore.Migrate())

	sb := sandbox.New()
	ids := sb.Seed(remote.NewRecord(remote.TypeContact), remote.NewRecord(remote.TypeContact), remote.NewRecord(remote.TypeContact))

	ok, err := entityStore.Create(ctx, models.KindContact, map[string]any{"email": "ok@example.com"})
	require.NoError(t, err)
	orphan, err := entityStore.Create(ctx, models.KindContact, map[string]any{"email": "orphan@example.com"})
	require.NoError(t, err)
	unlinked, err := entityStore.Create(ctx, models.KindContact, map[string]any{"email": "new@example.com"})
	require.NoError(t, err)

	require.NoError(t, linkStore.Save(ctx,
		&models.LinkRow{Integration: integration, Kind: "contact", LocalEntityID: ok.ID, RemoteRecordID: ids[0]},
		&models.LinkRow{Integration: integration, Kind: "contact", LocalEntityID: orphan.ID, RemoteRecordID: "GONE"},
		&models.LinkRow{Integration: integration, Kind: "contact", LocalEntityID: 999, RemoteRecordID: ids[1]},
	))

	log := zap.NewNop()
	return &fixture{
		sb:       sb,
		links:    linkStore,
		auditor:  audit.New(linkStore, entityStore, pager.New(sb, time.UTC, log), integration, log),
		remoteOK: ids[0],
		remoteUn: ids[1],
		localOK:  ok.ID,
		localUn:  unlinked.ID,
	}
}

func TestPlan_Summary(t *testing.T) {
	f := newFixture(t)

	plan, err := f.auditor.Plan(context.Background(), models.KindContact, audit.Options{})
	require.NoError(t, err)

	assert.Equal(t, audit.Summary{
		TotalLinks:     3,
		MissingLocal:   1,
		MissingRemote:  1,
		UnlinkedLocal:  1,
		UnlinkedRemote: 1,
	}, plan.Summary)
	assert.Empty(t, plan.Actions)

	byRemote := map[string]audit.Result{}
	for _, r := range plan.Results {
		byRemote[r.RemoteID] = r
	}
	assert.False(t, byRemote[f.remoteOK].Stale())
	assert.Equal(t, f.localOK, byRemote[f.remoteOK].LocalID)
	assert.False(t, byRemote["GONE"].RemotePresent)
	assert.True(t, byRemote["GONE"].LocalPresent)
	assert.False(t, byRemote[f.remoteUn].LocalPresent)
	assert.True(t, byRemote[f.remoteUn].RemotePresent)
}

func TestPlan_PruneActions(t *testing.T) {
	f := newFixture(t)

	plan, err := f.auditor.Plan(context.Background(), models.KindContact, audit.Options{DoPrune: true})
	require.NoError(t, err)

	require.Len(t, plan.Actions, 2)
	keys := []string{plan.Actions[0].Key, plan.Actions[1].Key}
	assert.ElementsMatch(t, []string{"GONE", f.remoteUn}, keys)
	for _, a := range plan.Actions {
		assert.Equal(t, audit.ActionPruneLink, a.Type)
		assert.NotEmpty(t, a.Reason)
	}
	assert.Equal(t, 2, plan.Summary.PruneActions)
}

func TestApply(t *testing.T) {
	tests := []struct {
		name    string
		opts    audit.Options
		pruned  int
		remains int
	}{
		{"unconfirmed", audit.Options{DoPrune: true}, 0, 3},
		{"dry run", audit.Options{DoPrune: true, Confirmed: true, DryRun: true}, 0, 3},
		{"confirmed", audit.Options{DoPrune: true, Confirmed: true}, 2, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			f := newFixture(t)

			plan, err := f.auditor.Plan(ctx, models.KindContact, tt.opts)
			require.NoError(t, err)
			n, err := f.auditor.Apply(ctx, plan, tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.pruned, n)

			ids, err := f.links.LinkedLocalIDs(ctx, integration, models.KindContact)
			require.NoError(t, err)
			assert.Len(t, ids, tt.remains)
		})
	}
}

func TestPlan_RemoteFailure(t *testing.T) {
	f := newFixture(t)
	f.sb.FailNext("Search", remote.Failure("UNEXPECTED_ERROR", "down"))

	_, err := f.auditor.Plan(context.Background(), models.KindContact, audit.Options{})
	assert.Error(t, err)
}
