package mapper

import (
	"context"
	"errors"
	"sort"
	"sync"

	"crm-sync/core/remote"
	"crm-sync/core/utils"
	"crm-sync/feature/sync/models"

	"go.uber.org/zap"
)

// Synthetic keys emitted by ToLocalValues.
const (
	RemoteIDKey        = "remote_id"
	CompanyKey         = "company"
	CompanyRemoteIDKey = "company_remote_id"
)

// ValueCodec encodes and decodes single field values.
type ValueCodec interface {
	Encode(ctx context.Context, value any, f models.FieldDescriptor) (any, error)
	Decode(ctx context.Context, value any, f models.FieldDescriptor) (any, error)
}

type company struct {
	id   string
	name string
}

// Mapper converts remote records to flat value maps and back.
type Mapper struct {
	client remote.Client
	codec  ValueCodec
	logger *zap.Logger

	mu        sync.Mutex
	companies map[string]company
}

// New creates a mapper. Company lookups are cached for the lifetime of the mapper.
func New(client remote.Client, codec ValueCodec, logger *zap.Logger) *Mapper {
	return &Mapper{
		client:    client,
		codec:     codec,
		logger:    logger,
		companies: make(map[string]company),
	}
}

// ToLocalValues flattens a remote record into field id -> local value.
func (m *Mapper) ToLocalValues(ctx context.Context, rec *remote.Record, kind models.Kind, fields models.FieldSet) (map[string]any, error) {
	out := map[string]any{RemoteIDKey: rec.InternalID}

	for id, f := range fields {
		raw, ok := read(rec, f)
		if !ok {
			continue
		}
		v, err := m.codec.Decode(ctx, raw, f)
		if err != nil {
			return nil, err
		}
		out[id] = v
	}

	if kind == models.KindContact {
		if ref, ok := companyRef(rec); ok {
			c, err := m.company(ctx, ref)
			if err != nil {
				return nil, err
			}
			out[CompanyKey] = c.name
			out[CompanyRemoteIDKey] = c.id
		}
	}

	return out, nil
}

// read returns the raw value of a field and whether the record carries it.
func read(rec *remote.Record, f models.FieldDescriptor) (any, bool) {
	switch f.Source {
	case models.SourceAddress:
		addr := rec.DefaultAddress(false)
		if addr == nil {
			return nil, false
		}
		return addr.Get(f.AddressProperty)
	case models.SourceCustom:
		cf, ok := rec.CustomField(f.ID)
		if !ok {
			return nil, false
		}
		if cf.Value == nil {
			return "", true
		}
		return cf.Value, true
	default:
		v, ok := rec.Property(f.ID)
		if !ok {
			return nil, false
		}
		if ref, isRef := v.(remote.RecordRef); isRef && f.Type != models.FieldReference {
			return ref.InternalID, true
		}
		return v, true
	}
}

func companyRef(rec *remote.Record) (remote.RecordRef, bool) {
	v, ok := rec.Property(CompanyKey)
	if !ok {
		return remote.RecordRef{}, false
	}
	ref, ok := v.(remote.RecordRef)
	if !ok || ref.InternalID == "" {
		return remote.RecordRef{}, false
	}
	return ref, true
}

func (m *Mapper) company(ctx context.Context, ref remote.RecordRef) (company, error) {
	m.mu.Lock()
	c, ok := m.companies[ref.InternalID]
	m.mu.Unlock()
	if ok {
		return c, nil
	}

	res, err := m.client.Get(ctx, remote.RecordRef{Type: remote.TypeCustomer, InternalID: ref.InternalID})
	if err != nil {
		return company{}, &models.RemoteQueryError{Op: "get company " + ref.InternalID, Err: err}
	}
	if err := res.Status.Err(); err != nil {
		return company{}, &models.RemoteQueryError{Op: "get company " + ref.InternalID, Err: err}
	}

	c = company{id: ref.InternalID, name: ref.Name}
	if res.Record != nil {
		if name, ok := res.Record.Property("companyName"); ok && !utils.IsEmpty(name) {
			c.name = utils.ToString(name)
		}
	}

	m.mu.Lock()
	m.companies[ref.InternalID] = c
	m.mu.Unlock()
	return c, nil
}

// ApplyValues writes local values onto rec and returns how many fields were set.
// Keys outside fields are ignored. Reference values unknown remotely are left unset.
// On create (isUpdate false) blank values are not sent.
//
// Custom fields are appended to the custom field list, so applying the same key
// twice on one record produces duplicates.
func (m *Mapper) ApplyValues(ctx context.Context, rec *remote.Record, values map[string]any, kind models.Kind, fields models.FieldSet, isUpdate bool) (int, error) {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	applied := 0
	for _, key := range keys {
		f, ok := fields[key]
		if !ok {
			continue
		}
		value := values[key]
		if !isUpdate && utils.IsEmpty(value) {
			continue
		}

		encoded, err := m.codec.Encode(ctx, value, f)
		if errors.Is(err, models.ErrReferenceNotFound) {
			m.logger.Debug("Reference value not found, field left unset",
				zap.String("kind", string(kind)),
				zap.String("field", key),
				zap.Any("value", value),
			)
			continue
		}
		if err != nil {
			return applied, err
		}

		switch f.Source {
		case models.SourceAddress:
			rec.DefaultAddress(true).Set(f.AddressProperty, encoded)
		case models.SourceCustom:
			rec.AppendCustomField(remote.CustomFieldRef{ScriptID: f.ID, Kind: customKind(f.Type), Value: encoded})
		default:
			rec.SetProperty(f.ID, encoded)
		}
		applied++
	}
	return applied, nil
}

func customKind(t models.FieldType) remote.CustomFieldKind {
	switch t {
	case models.FieldBoolean:
		return remote.CustomBoolean
	case models.FieldDate, models.FieldDateTime:
		return remote.CustomDate
	case models.FieldNumber:
		return remote.CustomLong
	case models.FieldReference:
		return remote.CustomSelect
	default:
		return remote.CustomString
	}
}
