package sandbox

import (
	"context"
	"encoding/json"
	"fmt"

	"crm-sync/core/remote"
	"crm-sync/core/storage"
	"crm-sync/core/utils"
)

// Fixture is the JSON document a sandbox can be seeded from.
type Fixture struct {
	CustomFields []remote.CustomFieldDef   `json:"customFields"`
	RecordTypes  []remote.CustomRecordType `json:"recordTypes"`
	// Lists maps record type -> name -> internal id for reference lookups.
	Lists   map[string]map[string]string `json:"lists"`
	Records []*remote.Record             `json:"records"`
}

// ParseFixture decodes a fixture document. Objects carrying an internalId inside
// record fields or custom field values are turned into remote.RecordRef values.
func ParseFixture(data []byte) (*Fixture, error) {
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to decode sandbox fixture: %w", err)
	}
	for _, r := range f.Records {
		for k, v := range r.Fields {
			r.Fields[k] = toRef(v)
		}
		for i := range r.CustomFields {
			r.CustomFields[i].Value = toRef(r.CustomFields[i].Value)
		}
	}
	return &f, nil
}

// Load reads a fixture object from storage and builds a sandbox from it.
func Load(ctx context.Context, client storage.Client, bucket, object string) (*Sandbox, error) {
	data, err := storage.ReadObject(ctx, client, bucket, object)
	if err != nil {
		return nil, err
	}
	f, err := ParseFixture(data)
	if err != nil {
		return nil, err
	}
	return FromFixture(f), nil
}

func toRef(v any) any {
	m, ok := v.(map[string]any)
	if !ok {
		return v
	}
	id, ok := m["internalId"]
	if !ok {
		return v
	}
	ref := remote.RecordRef{InternalID: utils.ToString(id)}
	if name, ok := m["name"]; ok {
		ref.Name = utils.ToString(name)
	}
	if typ, ok := m["type"]; ok {
		ref.Type = utils.ToString(typ)
	}
	return ref
}
