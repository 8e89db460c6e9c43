package sandbox_test

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"crm-sync/core/remote"
	"crm-sync/core/remote/sandbox"
	"crm-sync/core/storage/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func seedContacts(sb *sandbox.Sandbox, n int, modified time.Time) {
	for i := 0; i < n; i++ {
		r := remote.NewRecord(remote.TypeContact)
		r.SetProperty("email", fmt.Sprintf("c%d@example.com", i))
		r.LastModified = modified
		sb.Seed(r)
	}
}

func TestSearch_Paging(t *testing.T) {
	ctx := context.Background()
	sb := sandbox.New()
	seedContacts(sb, 25, time.Now())

	first, err := sb.Search(ctx, remote.SearchRequest{RecordType: remote.TypeContact, PageSize: 10})
	require.NoError(t, err)
	require.NoError(t, first.Status.Err())
	assert.Equal(t, 25, first.TotalRecords)
	assert.Equal(t, 3, first.TotalPages)
	assert.Len(t, first.Records, 10)

	last, err := sb.SearchMore(ctx, first.SearchID, 3)
	require.NoError(t, err)
	assert.Len(t, last.Records, 5)
	assert.Equal(t, 3, last.PageIndex)

	bad, err := sb.SearchMore(ctx, first.SearchID, 4)
	require.NoError(t, err)
	assert.ErrorContains(t, bad.Status.Err(), "INVALID_PAGE_INDEX")
}

func TestSearch_DateFilter(t *testing.T) {
	ctx := context.Background()
	sb := sandbox.New()
	old := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	recent := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	seedContacts(sb, 2, old)
	seedContacts(sb, 3, recent)

	cutoff := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Format(remote.DateTimeLayout)

	res, err := sb.Search(ctx, remote.SearchRequest{
		RecordType:   remote.TypeContact,
		LastModified: &remote.DateFilter{Operator: remote.OperatorOnOrAfter, SearchValue: cutoff},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, res.TotalRecords)

	res, err = sb.Search(ctx, remote.SearchRequest{
		RecordType:   remote.TypeContact,
		LastModified: &remote.DateFilter{Operator: remote.OperatorOnOrBefore, SearchValue: cutoff},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res.TotalRecords)
}

func TestSearch_FieldFilter(t *testing.T) {
	sb := sandbox.New()
	seedContacts(sb, 3, time.Now())

	res, err := sb.Search(context.Background(), remote.SearchRequest{
		RecordType: remote.TypeContact, Field: "email", Value: "C1@EXAMPLE.com", PageSize: 1,
	})
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	v, _ := res.Records[0].Property("email")
	assert.Equal(t, "c1@example.com", v)
}

func TestWrites(t *testing.T) {
	ctx := context.Background()
	sb := sandbox.New()

	r := remote.NewRecord(remote.TypeCustomer)
	r.ExternalID = "L1"
	r.SetProperty("companyName", "Acme")
	added, err := sb.AddList(ctx, []*remote.Record{r})
	require.NoError(t, err)
	require.Len(t, added.Responses, 1)
	id := added.Responses[0].Ref.InternalID
	assert.Equal(t, "L1", added.Responses[0].Ref.ExternalID)

	upd := remote.NewRecord(remote.TypeCustomer)
	upd.InternalID = id
	upd.SetProperty("phone", "555")
	upd.AppendCustomField(remote.CustomFieldRef{ScriptID: "custentity_tier", Kind: remote.CustomString, Value: "gold"})
	upd.DefaultAddress(true).Set("city", "Paris")
	_, err = sb.UpdateList(ctx, []*remote.Record{upd})
	require.NoError(t, err)

	got, err := sb.Get(ctx, remote.RecordRef{Type: remote.TypeCustomer, InternalID: id})
	require.NoError(t, err)
	require.NoError(t, got.Status.Err())
	name, _ := got.Record.Property("companyName")
	phone, _ := got.Record.Property("phone")
	cf, ok := got.Record.CustomField("custentity_tier")
	city, _ := got.Record.DefaultAddress(false).Get("city")
	assert.Equal(t, "Acme", name)
	assert.Equal(t, "555", phone)
	assert.True(t, ok)
	assert.Equal(t, "gold", cf.Value)
	assert.Equal(t, "Paris", city)

	missing := remote.NewRecord(remote.TypeCustomer)
	missing.InternalID = "nope"
	res, err := sb.UpdateList(ctx, []*remote.Record{missing})
	require.NoError(t, err)
	assert.Error(t, res.Responses[0].Status.Err())

	foundID, found, err := sb.FindRecordID(ctx, remote.TypeCustomer, "Acme")
	assert.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, id, foundID)
}

func TestRemove(t *testing.T) {
	sb := sandbox.New()
	ids := sb.Seed(remote.NewRecord(remote.TypeContact), remote.NewRecord(remote.TypeContact))

	assert.True(t, sb.Remove(remote.TypeContact, ids[0]))
	assert.False(t, sb.Remove(remote.TypeContact, ids[0]))
	assert.False(t, sb.Remove(remote.TypeCustomer, ids[1]))

	left := sb.Records(remote.TypeContact)
	require.Len(t, left, 1)
	assert.Equal(t, ids[1], left[0].InternalID)
}

func TestFailNext(t *testing.T) {
	ctx := context.Background()
	sb := sandbox.New()
	sb.FailNext("AddList", remote.Failure("USER_ERROR", "nope"))

	res, err := sb.AddList(ctx, []*remote.Record{remote.NewRecord(remote.TypeContact)})
	require.NoError(t, err)
	assert.ErrorContains(t, res.Status.Err(), "USER_ERROR - nope")
	assert.Empty(t, sb.Records(remote.TypeContact))

	res, err = sb.AddList(ctx, []*remote.Record{remote.NewRecord(remote.TypeContact)})
	require.NoError(t, err)
	assert.NoError(t, res.Status.Err())
	assert.Equal(t, 2, sb.Calls("AddList"))
}

func TestLoad(t *testing.T) {
	fixture := `{
	  "customFields": [{"internalId": "1", "scriptId": "custentity_tier", "fieldType": "_freeFormText", "appliesToContact": true}],
	  "recordTypes": [{"internalId": "7", "scriptId": "customrecord_region", "name": "Region"}],
	  "lists": {"customerstatus": {"Lead": "13"}},
	  "records": [{
	    "type": "contact",
	    "internalId": "42",
	    "lastModifiedDate": "2024-03-01T10:00:00Z",
	    "fields": {"email": "a@b.c", "company": {"internalId": "9", "name": "Acme"}}
	  }]
	}`
	client := new(mocks.Client)
	client.On("GetObject", mock.Anything, "bucket", "fixture.json", mock.Anything).
		Return(io.NopCloser(bytes.NewReader([]byte(fixture))), nil)

	sb, err := sandbox.Load(context.Background(), client, "bucket", "fixture.json")
	require.NoError(t, err)

	records := sb.Records(remote.TypeContact)
	require.Len(t, records, 1)
	company, _ := records[0].Property("company")
	assert.Equal(t, remote.RecordRef{InternalID: "9", Name: "Acme"}, company)

	ids, err := sb.GetCustomFieldIDs(context.Background())
	require.NoError(t, err)
	require.Len(t, ids.Refs, 1)
	assert.Equal(t, "custentity_tier", ids.Refs[0].ScriptID)

	rt, err := sb.Get(context.Background(), remote.RecordRef{Type: remote.TypeCustomRecordType, InternalID: "7"})
	require.NoError(t, err)
	assert.Equal(t, "customrecord_region", rt.RecordType.ScriptID)

	id, found, _ := sb.FindRecordID(context.Background(), "customerstatus", "Lead")
	assert.True(t, found)
	assert.Equal(t, "13", id)
}
