package reconcile_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"crm-sync/core/config"
	"crm-sync/core/database"
	"crm-sync/core/remote"
	"crm-sync/core/remote/sandbox"
	"crm-sync/feature/sync/codec"
	"crm-sync/feature/sync/entities"
	"crm-sync/feature/sync/links"
	"crm-sync/feature/sync/mapper"
	"crm-sync/feature/sync/models"
	"crm-sync/feature/sync/pager"
	"crm-sync/feature/sync/reconcile"
	"crm-sync/feature/sync/reference"
	"crm-sync/feature/sync/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const integration = "NetSuite"

type harness struct {
	sb       *sandbox.Sandbox
	db       *gorm.DB
	entities *entities.Store
	links    *links.Store
	rec      *reconcile.Reconciler
}

// failingWriter rejects the n-th bulk write.
type failingWriter struct {
	reconcile.RecordWriter
	failOn int
	calls  int
}

func (w *failingWriter) AddList(ctx context.Context, records []*remote.Record) (*remote.WriteListResult, error) {
	w.calls++
	if w.calls == w.failOn {
		return &remote.WriteListResult{Status: remote.Failure("USER_ERROR", "rejected")}, nil
	}
	return w.RecordWriter.AddList(ctx, records)
}

// truncatingWriter drops the last response of every bulk add.
type truncatingWriter struct {
	reconcile.RecordWriter
}

func (w *truncatingWriter) AddList(ctx context.Context, records []*remote.Record) (*remote.WriteListResult, error) {
	out, err := w.RecordWriter.AddList(ctx, records)
	if err != nil || len(out.Responses) == 0 {
		return out, err
	}
	out.Responses = out.Responses[:len(out.Responses)-1]
	return out, nil
}

func newHarness(t *testing.T, mapping config.Mapping, wrap func(reconcile.RecordWriter) reconcile.RecordWriter) *harness {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)

	sb := sandbox.New()
	log := zap.NewNop()

	refs := reference.NewStore(db)
	require.NoError(t, refs.Migrate())
	linkStore := links.NewStore(db)
	require.NoError(t, linkStore.Migrate())
	entityStore := entities.NewStore(db, map[models.Kind]string{
		models.KindContact: reconcile.LocalKeyField(mapping, models.KindContact),
		models.KindCompany: reconcile.LocalKeyField(mapping, models.KindCompany),
	})
	require.NoError(t, entityStore.Migrate())

	c := codec.New(reference.NewResolver(sb, refs, log), time.UTC, time.UTC)
	var writer reconcile.RecordWriter = sb
	if wrap != nil {
		writer = wrap(sb)
	}

	rec := reconcile.New(
		schema.NewCache(sb, 0, log),
		pager.New(sb, time.UTC, log),
		mapper.New(sb, c, log),
		writer,
		linkStore,
		entityStore,
		log,
		reconcile.Options{Integration: integration, Mapping: mapping},
	)
	return &harness{sb: sb, db: db, entities: entityStore, links: linkStore, rec: rec}
}

func contact(email, first, last string) *remote.Record {
	r := remote.NewRecord(remote.TypeContact)
	r.SetProperty("email", email)
	r.SetProperty("firstName", first)
	r.SetProperty("lastName", last)
	return r
}

func (h *harness) entityCount(t *testing.T, kind models.Kind) int64 {
	t.Helper()
	var n int64
	require.NoError(t, h.db.Model(&models.Entity{}).Where("kind = ?", string(kind)).Count(&n).Error)
	return n
}

func (h *harness) linkCount(t *testing.T, kind models.Kind) int64 {
	t.Helper()
	var n int64
	require.NoError(t, h.db.Model(&models.LinkRow{}).Where("kind = ?", string(kind)).Count(&n).Error)
	return n
}

func (h *harness) linkedEntity(t *testing.T, kind models.Kind, remoteID string) *models.Entity {
	t.Helper()
	link, err := h.links.FindByRemoteID(context.Background(), integration, kind, remoteID)
	require.NoError(t, err)
	require.NotNil(t, link)
	e, err := h.entities.Get(context.Background(), kind, link.LocalEntityID)
	require.NoError(t, err)
	require.NotNil(t, e)
	return e
}

func TestPull_CreatesThenSkipsUnchanged(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, nil, nil)
	ids := h.sb.Seed(
		contact(" Jane@Example.com ", "Jane", "Doe"),
		contact("bob@example.com", "Bob", "Roe"),
	)

	res, err := h.rec.Pull(ctx, models.KindContact, pager.Query{FetchAll: true})
	require.NoError(t, err)
	assert.Equal(t, reconcile.Result{Created: 2}, res)

	jane := h.linkedEntity(t, models.KindContact, ids[0])
	assert.Equal(t, "jane@example.com", jane.Value("email"))
	assert.Equal(t, "Jane", jane.Value("firstName"))
	assert.Equal(t, "jane@example.com", jane.NaturalKey)

	before, err := h.links.FindByRemoteID(ctx, integration, models.KindContact, ids[0])
	require.NoError(t, err)

	res, err = h.rec.Pull(ctx, models.KindContact, pager.Query{FetchAll: true})
	require.NoError(t, err)
	assert.Equal(t, reconcile.Result{Skipped: 2}, res)
	assert.EqualValues(t, 2, h.entityCount(t, models.KindContact))
	assert.EqualValues(t, 2, h.linkCount(t, models.KindContact))

	after, err := h.links.FindByRemoteID(ctx, integration, models.KindContact, ids[0])
	require.NoError(t, err)
	assert.True(t, before.LastSyncAt.Equal(after.LastSyncAt))
}

func TestPull_ExistingLinkIsReused(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, nil, nil)

	remoteRec := contact("jane@example.com", "Jane", "Doe")
	remoteRec.InternalID = "42"
	remoteRec.SetProperty("phone", "555-0100")
	h.sb.Seed(remoteRec)

	local, err := h.entities.Create(ctx, models.KindContact, map[string]any{"email": "jane@example.com", "firstName": "Jane"})
	require.NoError(t, err)
	require.NoError(t, h.links.Save(ctx, &models.LinkRow{
		Integration:    integration,
		Kind:           string(models.KindContact),
		LocalEntityID:  local.ID,
		RemoteRecordID: "42",
	}))

	res, err := h.rec.Pull(ctx, models.KindContact, pager.Query{})
	require.NoError(t, err)
	assert.Equal(t, reconcile.Result{Updated: 1}, res)
	assert.EqualValues(t, 1, h.entityCount(t, models.KindContact))
	assert.EqualValues(t, 1, h.linkCount(t, models.KindContact))

	got := h.linkedEntity(t, models.KindContact, "42")
	assert.Equal(t, local.ID, got.ID)
	assert.Equal(t, "555-0100", got.Value("phone"))
	assert.Equal(t, "Doe", got.Value("lastName"))
}

func TestPull_MatchesUnlinkedLocalByNaturalKey(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, nil, nil)

	local, err := h.entities.Create(ctx, models.KindContact, map[string]any{"email": "jane@example.com", "firstName": "Jane"})
	require.NoError(t, err)
	id := h.sb.Seed(contact("Jane@Example.com", "Jane", "Doe"))[0]

	res, err := h.rec.Pull(ctx, models.KindContact, pager.Query{})
	require.NoError(t, err)
	assert.Equal(t, reconcile.Result{Updated: 1}, res)
	assert.EqualValues(t, 1, h.entityCount(t, models.KindContact))
	assert.EqualValues(t, 1, h.linkCount(t, models.KindContact))

	got := h.linkedEntity(t, models.KindContact, id)
	assert.Equal(t, local.ID, got.ID)
	assert.Equal(t, "Doe", got.Value("lastName"))

	res, err = h.rec.Push(ctx, models.KindContact, reconcile.PushOptions{})
	require.NoError(t, err)
	assert.Equal(t, reconcile.Result{}, res)
	assert.Equal(t, 0, h.sb.Calls("AddList"))
	assert.Len(t, h.sb.Records(remote.TypeContact), 1)
	assert.EqualValues(t, 1, h.entityCount(t, models.KindContact))
}

func TestPull_NormalizesKind(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, nil, nil)
	id := h.sb.Seed(contact("jane@example.com", "Jane", "Doe"))[0]

	res, err := h.rec.Pull(ctx, models.Kind(" Contact "), pager.Query{})
	require.NoError(t, err)
	assert.Equal(t, reconcile.Result{Created: 1}, res)

	link, err := h.links.FindByRemoteID(ctx, integration, models.KindContact, id)
	require.NoError(t, err)
	require.NotNil(t, link)
	assert.Equal(t, string(models.KindContact), link.Kind)
}

func TestPull_RemoteWins(t *testing.T) {
	ctx := context.Background()
	mapping := config.Mapping{"contact": {RemoteWins: []string{"firstName"}}}
	h := newHarness(t, mapping, nil)

	remoteRec := contact("jane@example.com", "Janet", "Remote")
	remoteRec.SetProperty("phone", "555-0100")
	id := h.sb.Seed(remoteRec)[0]

	local, err := h.entities.Create(ctx, models.KindContact, map[string]any{
		"email":     "jane@example.com",
		"firstName": "Jane",
		"lastName":  "Local",
	})
	require.NoError(t, err)
	require.NoError(t, h.links.Save(ctx, &models.LinkRow{
		Integration:    integration,
		Kind:           string(models.KindContact),
		LocalEntityID:  local.ID,
		RemoteRecordID: id,
	}))

	res, err := h.rec.Pull(ctx, models.KindContact, pager.Query{})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Updated)

	got := h.linkedEntity(t, models.KindContact, id)
	assert.Equal(t, "Janet", got.Value("firstName"))
	assert.Equal(t, "Local", got.Value("lastName"))
	assert.Equal(t, "555-0100", got.Value("phone"))
}

func TestPull_MappedFields(t *testing.T) {
	ctx := context.Background()
	mapping := config.Mapping{"contact": {Fields: map[string]string{
		"mail":    "email",
		"first":   "firstName",
		"missing": "custentity_gone",
	}}}
	h := newHarness(t, mapping, nil)
	id := h.sb.Seed(contact("Jane@Example.com", "Jane", "Doe"))[0]

	res, err := h.rec.Pull(ctx, models.KindContact, pager.Query{})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Created)

	got := h.linkedEntity(t, models.KindContact, id)
	assert.Equal(t, "jane@example.com", got.Value("mail"))
	assert.Equal(t, "Jane", got.Value("first"))
	assert.Nil(t, got.Value("lastName"))
	assert.Nil(t, got.Value("missing"))
	assert.Equal(t, "jane@example.com", got.NaturalKey)
}

func TestPull_AttachesCompany(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, nil, nil)

	company := remote.NewRecord(remote.TypeCustomer)
	company.SetProperty("companyName", "Acme")
	companyID := h.sb.Seed(company)[0]

	rec := contact("jane@example.com", "Jane", "Doe")
	rec.SetProperty("company", remote.RecordRef{InternalID: companyID, Type: remote.TypeCustomer, Name: "Acme"})
	id := h.sb.Seed(rec)[0]

	_, err := h.rec.Pull(ctx, models.KindContact, pager.Query{})
	require.NoError(t, err)

	jane := h.linkedEntity(t, models.KindContact, id)
	require.NotNil(t, jane.CompanyID)

	acme := h.linkedEntity(t, models.KindCompany, companyID)
	assert.Equal(t, *jane.CompanyID, acme.ID)
	assert.Equal(t, "acme", acme.NaturalKey)

	// A second contact of the same company reuses it.
	rec2 := contact("bob@example.com", "Bob", "Roe")
	rec2.SetProperty("company", remote.RecordRef{InternalID: companyID, Type: remote.TypeCustomer, Name: "Acme"})
	h.sb.Seed(rec2)
	_, err = h.rec.Pull(ctx, models.KindContact, pager.Query{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, h.entityCount(t, models.KindCompany))
	assert.EqualValues(t, 1, h.linkCount(t, models.KindCompany))
}

func TestPull_UnsupportedKind(t *testing.T) {
	h := newHarness(t, nil, nil)
	_, err := h.rec.Pull(context.Background(), models.Kind("lead"), pager.Query{})
	var kindErr *models.UnsupportedKindError
	assert.ErrorAs(t, err, &kindErr)
}

func TestPull_RemoteFailure(t *testing.T) {
	h := newHarness(t, nil, nil)
	h.sb.Seed(contact("jane@example.com", "Jane", "Doe"))
	h.sb.FailNext("Search", remote.Failure("SSS_REQUEST_LIMIT_EXCEEDED", "too many requests"))

	res, err := h.rec.Pull(context.Background(), models.KindContact, pager.Query{})
	var queryErr *models.RemoteQueryError
	require.ErrorAs(t, err, &queryErr)
	assert.Equal(t, reconcile.Result{}, res)
}

func seedLocal(t *testing.T, h *harness, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		_, err := h.entities.Create(context.Background(), models.KindContact, map[string]any{
			"email":     fmt.Sprintf("user%03d@example.com", i),
			"firstName": fmt.Sprintf("User%d", i),
			"lastName":  "Test",
		})
		require.NoError(t, err)
	}
}

func TestPush_CreatesInBatches(t *testing.T) {
	h := newHarness(t, nil, nil)
	seedLocal(t, h, 101)

	res, err := h.rec.Push(context.Background(), models.KindContact, reconcile.PushOptions{FetchAll: true})
	require.NoError(t, err)
	assert.Equal(t, reconcile.Result{Created: 101}, res)
	assert.Equal(t, 2, h.sb.Calls("AddList"))
	assert.Equal(t, 0, h.sb.Calls("UpdateList"))
	assert.EqualValues(t, 101, h.linkCount(t, models.KindContact))

	for _, r := range h.sb.Records(remote.TypeContact) {
		e := h.linkedEntity(t, models.KindContact, r.InternalID)
		assert.Equal(t, fmt.Sprint(e.ID), r.ExternalID)
	}

	// Everything is linked now.
	res, err = h.rec.Push(context.Background(), models.KindContact, reconcile.PushOptions{})
	require.NoError(t, err)
	assert.Equal(t, reconcile.Result{}, res)
	assert.Equal(t, 2, h.sb.Calls("AddList"))
}

func TestPush_PartialFailureKeepsEarlierBatches(t *testing.T) {
	h := newHarness(t, nil, func(w reconcile.RecordWriter) reconcile.RecordWriter {
		return &failingWriter{RecordWriter: w, failOn: 2}
	})
	seedLocal(t, h, 150)

	res, err := h.rec.Push(context.Background(), models.KindContact, reconcile.PushOptions{})
	var writeErr *models.RemoteWriteError
	require.ErrorAs(t, err, &writeErr)
	assert.Equal(t, "add", writeErr.Op)
	assert.Equal(t, 2, writeErr.Batch)
	assert.Equal(t, 100, res.Created)
	assert.Len(t, h.sb.Records(remote.TypeContact), 100)
	assert.EqualValues(t, 100, h.linkCount(t, models.KindContact))
}

func TestPush_UpdateSendsChangesAndBackfill(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, nil, nil)
	id := h.sb.Seed(contact("jane@example.com", "Jane", "Doe"))[0]

	local, err := h.entities.Create(ctx, models.KindContact, map[string]any{
		"email":     "jane@example.com",
		"firstName": "Jane",
		"phone":     "555-0100",
	})
	require.NoError(t, err)
	require.NoError(t, h.links.Save(ctx, &models.LinkRow{
		Integration:    integration,
		Kind:           string(models.KindContact),
		LocalEntityID:  local.ID,
		RemoteRecordID: id,
	}))
	require.NoError(t, h.entities.Edit(ctx, local, map[string]any{"firstName": "Janet"}))

	res, err := h.rec.Push(ctx, models.KindContact, reconcile.PushOptions{})
	require.NoError(t, err)
	assert.Equal(t, reconcile.Result{Updated: 1}, res)
	assert.Equal(t, 1, h.sb.Calls("UpdateList"))
	assert.Equal(t, 0, h.sb.Calls("AddList"))

	records := h.sb.Records(remote.TypeContact)
	require.Len(t, records, 1)
	first, _ := records[0].Property("firstName")
	phone, _ := records[0].Property("phone")
	last, _ := records[0].Property("lastName")
	assert.Equal(t, "Janet", first)
	assert.Equal(t, "555-0100", phone)
	assert.Equal(t, "Doe", last)

	got, err := h.entities.Get(ctx, models.KindContact, local.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Pushable)
}

func TestPush_UnchangedDoesNotWrite(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, nil, nil)
	id := h.sb.Seed(contact("jane@example.com", "Jane", "Doe"))[0]

	_, err := h.rec.Pull(ctx, models.KindContact, pager.Query{})
	require.NoError(t, err)
	before, err := h.links.FindByRemoteID(ctx, integration, models.KindContact, id)
	require.NoError(t, err)

	res, err := h.rec.Push(ctx, models.KindContact, reconcile.PushOptions{})
	require.NoError(t, err)
	assert.Equal(t, reconcile.Result{}, res)
	assert.Equal(t, 0, h.sb.Calls("UpdateList"))
	assert.Equal(t, 0, h.sb.Calls("AddList"))

	after, err := h.links.FindByRemoteID(ctx, integration, models.KindContact, id)
	require.NoError(t, err)
	assert.True(t, before.LastSyncAt.Equal(after.LastSyncAt))
}

func TestPush_LinksExistingRemoteRecord(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, nil, nil)
	id := h.sb.Seed(contact("bob@example.com", "Bob", "Roe"))[0]

	local, err := h.entities.Create(ctx, models.KindContact, map[string]any{
		"email":     "Bob@Example.com",
		"firstName": "Bob",
		"phone":     "555-0199",
	})
	require.NoError(t, err)

	res, err := h.rec.Push(ctx, models.KindContact, reconcile.PushOptions{})
	require.NoError(t, err)
	assert.Equal(t, reconcile.Result{Updated: 1}, res)
	assert.Equal(t, 0, h.sb.Calls("AddList"))
	assert.Len(t, h.sb.Records(remote.TypeContact), 1)

	link, err := h.links.FindByLocalID(ctx, integration, models.KindContact, local.ID)
	require.NoError(t, err)
	require.NotNil(t, link)
	assert.Equal(t, id, link.RemoteRecordID)

	phone, _ := h.sb.Records(remote.TypeContact)[0].Property("phone")
	assert.Equal(t, "555-0199", phone)
}

func TestPush_RemoteLinkedToAnotherEntityIsSkipped(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, nil, nil)
	id := h.sb.Seed(contact("bob@example.com", "Bob", "Roe"))[0]

	owner, err := h.entities.Create(ctx, models.KindContact, map[string]any{"email": "bob@example.com", "firstName": "Bob"})
	require.NoError(t, err)
	require.NoError(t, h.links.Save(ctx, &models.LinkRow{
		Integration:    integration,
		Kind:           string(models.KindContact),
		LocalEntityID:  owner.ID,
		RemoteRecordID: id,
	}))
	before, err := h.links.FindByRemoteID(ctx, integration, models.KindContact, id)
	require.NoError(t, err)

	_, err = h.entities.Create(ctx, models.KindContact, map[string]any{"email": "Bob@Example.com", "firstName": "Robert"})
	require.NoError(t, err)

	res, err := h.rec.Push(ctx, models.KindContact, reconcile.PushOptions{})
	require.NoError(t, err)
	assert.Equal(t, reconcile.Result{Skipped: 1}, res)
	assert.Equal(t, 0, h.sb.Calls("AddList"))
	assert.EqualValues(t, 1, h.linkCount(t, models.KindContact))

	after, err := h.links.FindByRemoteID(ctx, integration, models.KindContact, id)
	require.NoError(t, err)
	assert.Equal(t, owner.ID, after.LocalEntityID)
	assert.True(t, before.LastSyncAt.Equal(after.LastSyncAt))
}

func TestPush_CreateWithoutResponseIsSkipped(t *testing.T) {
	h := newHarness(t, nil, func(w reconcile.RecordWriter) reconcile.RecordWriter {
		return &truncatingWriter{RecordWriter: w}
	})
	seedLocal(t, h, 3)

	res, err := h.rec.Push(context.Background(), models.KindContact, reconcile.PushOptions{})
	require.NoError(t, err)
	assert.Equal(t, reconcile.Result{Created: 2, Skipped: 1}, res)
	assert.EqualValues(t, 2, h.linkCount(t, models.KindContact))
}

func TestPush_DedupesNaturalKeys(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, nil, nil)

	for _, first := range []string{"Jane", "Janet"} {
		_, err := h.entities.Create(ctx, models.KindContact, map[string]any{"email": "jane@example.com", "firstName": first})
		require.NoError(t, err)
	}
	_, err := h.entities.Create(ctx, models.KindContact, map[string]any{"firstName": "Nobody"})
	require.NoError(t, err)

	res, err := h.rec.Push(ctx, models.KindContact, reconcile.PushOptions{})
	require.NoError(t, err)
	assert.Equal(t, reconcile.Result{Created: 1, Skipped: 2}, res)

	records := h.sb.Records(remote.TypeContact)
	require.Len(t, records, 1)
	first, _ := records[0].Property("firstName")
	assert.Equal(t, "Janet", first)
}

func TestLocalKeyField(t *testing.T) {
	mapping := config.Mapping{"contact": {Fields: map[string]string{"mail": "email", "first": "firstName"}}}

	tests := []struct {
		name    string
		mapping config.Mapping
		kind    models.Kind
		want    string
	}{
		{"mapped contact", mapping, models.KindContact, "mail"},
		{"unmapped company", mapping, models.KindCompany, "companyName"},
		{"no mapping", nil, models.KindContact, "email"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, reconcile.LocalKeyField(tt.mapping, tt.kind))
		})
	}
}

func TestRemoteWriteError_Unwraps(t *testing.T) {
	err := &models.RemoteWriteError{Op: "update", Batch: 3, Err: remote.Failure("USER_ERROR", "bad").Err()}
	var statusErr *remote.StatusError
	assert.True(t, errors.As(err, &statusErr))
	assert.Equal(t, "USER_ERROR", statusErr.Code)
}
