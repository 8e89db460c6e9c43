package sandbox

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"crm-sync/core/remote"
	"crm-sync/core/utils"

	"github.com/google/uuid"
)

const defaultPageSize = 100

var _ remote.Client = (*Sandbox)(nil)

// nameProperties are checked, in order, when looking a record up by name.
var nameProperties = []string{"name", "companyName", "entityId", "email"}

type searchState struct {
	ids      []string
	typ      string
	pageSize int
}

// Sandbox is an in-memory remote CRM.
type Sandbox struct {
	mu           sync.Mutex
	records      map[string][]*remote.Record
	customFields []remote.CustomFieldDef
	recordTypes  map[string]remote.CustomRecordType
	lists        map[string]map[string]string
	searches     map[string]*searchState
	calls        map[string]int
	failures     map[string]remote.Status
	nextID       int

	// Now stamps last modified dates on writes.
	Now func() time.Time
}

// New returns an empty sandbox.
func New() *Sandbox {
	return &Sandbox{
		records:     map[string][]*remote.Record{},
		recordTypes: map[string]remote.CustomRecordType{},
		lists:       map[string]map[string]string{},
		searches:    map[string]*searchState{},
		calls:       map[string]int{},
		failures:    map[string]remote.Status{},
		nextID:      1000,
		Now:         time.Now,
	}
}

// FromFixture returns a sandbox seeded with the fixture contents.
func FromFixture(f *Fixture) *Sandbox {
	s := New()
	for _, def := range f.CustomFields {
		s.AddCustomField(def)
	}
	for _, rt := range f.RecordTypes {
		s.AddRecordType(rt)
	}
	for typ, names := range f.Lists {
		for name, id := range names {
			s.AddListValue(typ, name, id)
		}
	}
	s.Seed(f.Records...)
	return s
}

// AddCustomField registers a custom field definition.
func (s *Sandbox) AddCustomField(def remote.CustomFieldDef) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if def.InternalID == "" {
		def.InternalID = s.newID()
	}
	s.customFields = append(s.customFields, def)
}

// AddRecordType registers a custom record type.
func (s *Sandbox) AddRecordType(rt remote.CustomRecordType) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recordTypes[rt.InternalID] = rt
}

// AddListValue registers a named value of a reference list.
func (s *Sandbox) AddListValue(recordType, name, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lists[recordType] == nil {
		s.lists[recordType] = map[string]string{}
	}
	s.lists[recordType][name] = id
}

// Seed stores records as they are, assigning ids to records without one.
// It returns the ids in input order.
func (s *Sandbox) Seed(records ...*remote.Record) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(records))
	for _, r := range records {
		cp := r.Clone()
		if cp.InternalID == "" {
			cp.InternalID = s.newID()
		}
		if cp.LastModified.IsZero() {
			cp.LastModified = s.Now()
		}
		s.records[cp.Type] = append(s.records[cp.Type], cp)
		ids = append(ids, cp.InternalID)
	}
	return ids
}

// Records returns copies of the stored records of a type.
func (s *Sandbox) Records(recordType string) []*remote.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*remote.Record, 0, len(s.records[recordType]))
	for _, r := range s.records[recordType] {
		out = append(out, r.Clone())
	}
	return out
}

// Remove deletes a stored record and reports whether it existed.
func (s *Sandbox) Remove(recordType, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	records := s.records[recordType]
	for i, r := range records {
		if r.InternalID == id {
			s.records[recordType] = append(records[:i], records[i+1:]...)
			return true
		}
	}
	return false
}

// Calls returns how many times a method was invoked.
func (s *Sandbox) Calls(method string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[method]
}

// FailNext makes the next call of method return status instead of executing.
func (s *Sandbox) FailNext(method string, status remote.Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method] = status
}

func (s *Sandbox) newID() string {
	s.nextID++
	return strconv.Itoa(s.nextID)
}

// enter counts the call and reports a pending injected failure.
func (s *Sandbox) enter(method string) (remote.Status, bool) {
	s.calls[method]++
	st, ok := s.failures[method]
	if ok {
		delete(s.failures, method)
	}
	return st, ok
}

func (s *Sandbox) find(recordType, id string) *remote.Record {
	for _, r := range s.records[recordType] {
		if r.InternalID == id {
			return r
		}
	}
	return nil
}

func (s *Sandbox) GetCustomFieldIDs(ctx context.Context) (*remote.CustomizationIDResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, failed := s.enter("GetCustomFieldIDs"); failed {
		return &remote.CustomizationIDResult{Status: st}, nil
	}
	res := &remote.CustomizationIDResult{Status: remote.Success()}
	for _, def := range s.customFields {
		res.Refs = append(res.Refs, remote.RecordRef{
			InternalID: def.InternalID,
			ScriptID:   def.ScriptID,
			Type:       remote.TypeEntityCustomField,
		})
	}
	return res, nil
}

func (s *Sandbox) GetList(ctx context.Context, refs []remote.RecordRef) ([]remote.ReadResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, failed := s.enter("GetList"); failed {
		out := make([]remote.ReadResult, len(refs))
		for i := range out {
			out[i].Status = st
		}
		return out, nil
	}
	out := make([]remote.ReadResult, 0, len(refs))
	for _, ref := range refs {
		out = append(out, s.read(ref))
	}
	return out, nil
}

func (s *Sandbox) Get(ctx context.Context, ref remote.RecordRef) (*remote.ReadResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, failed := s.enter("Get"); failed {
		return &remote.ReadResult{Status: st}, nil
	}
	res := s.read(ref)
	return &res, nil
}

func (s *Sandbox) read(ref remote.RecordRef) remote.ReadResult {
	switch ref.Type {
	case remote.TypeCustomRecordType:
		if rt, ok := s.recordTypes[ref.InternalID]; ok {
			return remote.ReadResult{Status: remote.Success(), RecordType: &rt}
		}
	case remote.TypeEntityCustomField:
		for i := range s.customFields {
			def := s.customFields[i]
			if def.InternalID == ref.InternalID || (ref.ScriptID != "" && def.ScriptID == ref.ScriptID) {
				return remote.ReadResult{Status: remote.Success(), CustomField: &def}
			}
		}
	default:
		if r := s.find(ref.Type, ref.InternalID); r != nil {
			return remote.ReadResult{Status: remote.Success(), Record: r.Clone()}
		}
	}
	return remote.ReadResult{Status: remote.Failure("RCRD_DSNT_EXIST", "That record does not exist. "+ref.Type+" "+ref.InternalID)}
}

func (s *Sandbox) Search(ctx context.Context, req remote.SearchRequest) (*remote.SearchResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, failed := s.enter("Search"); failed {
		return &remote.SearchResult{Status: st}, nil
	}

	var lo, hi time.Time
	if f := req.LastModified; f != nil {
		var err error
		switch f.Operator {
		case remote.OperatorWithin:
			if lo, err = time.Parse(remote.DateTimeLayout, f.SearchValue); err == nil {
				hi, err = time.Parse(remote.DateTimeLayout, f.SearchValue2)
			}
		case remote.OperatorOnOrAfter:
			lo, err = time.Parse(remote.DateTimeLayout, f.SearchValue)
		case remote.OperatorOnOrBefore:
			hi, err = time.Parse(remote.DateTimeLayout, f.SearchValue)
		default:
			return &remote.SearchResult{Status: remote.Failure("INVALID_SEARCH_OPRTR", "unknown operator "+f.Operator)}, nil
		}
		if err != nil {
			return &remote.SearchResult{Status: remote.Failure("INVALID_SEARCH_VALUE", err.Error())}, nil
		}
	}

	state := &searchState{typ: req.RecordType, pageSize: req.PageSize}
	if state.pageSize <= 0 {
		state.pageSize = defaultPageSize
	}
	for _, r := range s.records[req.RecordType] {
		if !lo.IsZero() && r.LastModified.Before(lo) {
			continue
		}
		if !hi.IsZero() && r.LastModified.After(hi) {
			continue
		}
		if req.Field != "" && !matches(r, req.Field, req.Value) {
			continue
		}
		state.ids = append(state.ids, r.InternalID)
	}
	sort.SliceStable(state.ids, func(i, j int) bool {
		a, _ := strconv.Atoi(state.ids[i])
		b, _ := strconv.Atoi(state.ids[j])
		return a < b
	})

	id := uuid.NewString()
	s.searches[id] = state
	return s.page(id, state, 1), nil
}

func (s *Sandbox) SearchMore(ctx context.Context, searchID string, pageIndex int) (*remote.SearchResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, failed := s.enter("SearchMore"); failed {
		return &remote.SearchResult{Status: st}, nil
	}
	state, ok := s.searches[searchID]
	if !ok {
		return &remote.SearchResult{Status: remote.Failure("INVALID_SEARCH", "unknown search id "+searchID)}, nil
	}
	if pageIndex < 1 || pageIndex > totalPages(len(state.ids), state.pageSize) {
		return &remote.SearchResult{Status: remote.Failure("INVALID_PAGE_INDEX", "page index out of range")}, nil
	}
	return s.page(searchID, state, pageIndex), nil
}

func (s *Sandbox) page(id string, state *searchState, pageIndex int) *remote.SearchResult {
	res := &remote.SearchResult{
		Status:       remote.Success(),
		SearchID:     id,
		PageIndex:    pageIndex,
		TotalRecords: len(state.ids),
		TotalPages:   totalPages(len(state.ids), state.pageSize),
	}
	start := (pageIndex - 1) * state.pageSize
	end := start + state.pageSize
	if end > len(state.ids) {
		end = len(state.ids)
	}
	for i := start; i < end; i++ {
		if r := s.find(state.typ, state.ids[i]); r != nil {
			res.Records = append(res.Records, r.Clone())
		}
	}
	return res
}

func totalPages(n, size int) int {
	if n == 0 {
		return 0
	}
	return (n + size - 1) / size
}

func matches(r *remote.Record, field, value string) bool {
	v, ok := r.Property(field)
	if !ok {
		return false
	}
	if ref, isRef := v.(remote.RecordRef); isRef {
		v = ref.Name
	}
	return strings.EqualFold(utils.ToString(v), value)
}

func (s *Sandbox) AddList(ctx context.Context, records []*remote.Record) (*remote.WriteListResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, failed := s.enter("AddList"); failed {
		return &remote.WriteListResult{Status: st}, nil
	}
	res := &remote.WriteListResult{Status: remote.Success()}
	for _, r := range records {
		cp := r.Clone()
		cp.InternalID = s.newID()
		cp.LastModified = s.Now()
		s.records[cp.Type] = append(s.records[cp.Type], cp)
		res.Responses = append(res.Responses, remote.WriteResponse{
			Status: remote.Success(),
			Ref:    remote.RecordRef{InternalID: cp.InternalID, ExternalID: cp.ExternalID, Type: cp.Type},
		})
	}
	return res, nil
}

func (s *Sandbox) UpdateList(ctx context.Context, records []*remote.Record) (*remote.WriteListResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, failed := s.enter("UpdateList"); failed {
		return &remote.WriteListResult{Status: st}, nil
	}
	res := &remote.WriteListResult{Status: remote.Success()}
	for _, r := range records {
		stored := s.find(r.Type, r.InternalID)
		if stored == nil {
			res.Responses = append(res.Responses, remote.WriteResponse{
				Status: remote.Failure("RCRD_DSNT_EXIST", "That record does not exist."),
				Ref:    remote.RecordRef{InternalID: r.InternalID, Type: r.Type},
			})
			continue
		}
		merge(stored, r)
		stored.LastModified = s.Now()
		res.Responses = append(res.Responses, remote.WriteResponse{
			Status: remote.Success(),
			Ref:    remote.RecordRef{InternalID: stored.InternalID, ExternalID: stored.ExternalID, Type: stored.Type},
		})
	}
	return res, nil
}

// merge applies the set parts of an update onto the stored record.
func merge(stored, update *remote.Record) {
	for k, v := range update.Fields {
		stored.SetProperty(k, v)
	}
	for _, cf := range update.CustomFields {
		replaced := false
		for i := range stored.CustomFields {
			if stored.CustomFields[i].ScriptID == cf.ScriptID {
				stored.CustomFields[i] = cf
				replaced = true
				break
			}
		}
		if !replaced {
			stored.AppendCustomField(cf)
		}
	}
	if addr := update.DefaultAddress(false); addr != nil {
		target := stored.DefaultAddress(true)
		for k, v := range addr {
			target.Set(k, v)
		}
	}
	if update.ExternalID != "" {
		stored.ExternalID = update.ExternalID
	}
}

func (s *Sandbox) FindRecordID(ctx context.Context, recordType, name string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls["FindRecordID"]++
	if id, ok := s.lists[recordType][name]; ok {
		return id, true, nil
	}
	for _, r := range s.records[recordType] {
		for _, prop := range nameProperties {
			if v, ok := r.Property(prop); ok && utils.ToString(v) == name {
				return r.InternalID, true, nil
			}
		}
	}
	return "", false, nil
}
