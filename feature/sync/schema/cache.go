package schema

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"crm-sync/core/remote"
	"crm-sync/feature/sync/models"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// entry is the discovered field set of one kind.
type entry struct {
	fields models.FieldSet
	built  time.Time
}

// Cache discovers and memoizes the remote field set of each kind.
type Cache struct {
	client remote.Client
	ttl    time.Duration
	logger *zap.Logger

	mu      sync.RWMutex
	entries map[models.Kind]*entry
	sf      singleflight.Group

	typesMu     sync.RWMutex
	recordTypes map[string]string

	now func() time.Time
}

// NewCache creates a schema cache. A zero ttl keeps field sets until Invalidate.
func NewCache(client remote.Client, ttl time.Duration, logger *zap.Logger) *Cache {
	return &Cache{
		client:      client,
		ttl:         ttl,
		logger:      logger,
		entries:     make(map[models.Kind]*entry),
		recordTypes: make(map[string]string),
		now:         time.Now,
	}
}

func (c *Cache) expired(e *entry) bool {
	if c.ttl == 0 {
		return false
	}
	return c.now().Sub(e.built) > c.ttl
}

// Fields returns the field set of a kind, discovering it on first use.
// The returned set is shared and must not be modified.
func (c *Cache) Fields(ctx context.Context, kind models.Kind) (models.FieldSet, error) {
	k, err := models.ParseKind(string(kind))
	if err != nil {
		return nil, err
	}
	kind = k

	c.mu.RLock()
	e, ok := c.entries[kind]
	c.mu.RUnlock()
	if ok && !c.expired(e) {
		return e.fields, nil
	}

	result, err, _ := c.sf.Do(string(kind), func() (interface{}, error) {
		c.mu.RLock()
		e, ok := c.entries[kind]
		c.mu.RUnlock()
		if ok && !c.expired(e) {
			return e.fields, nil
		}

		fields, err := c.discover(ctx, kind)
		if err != nil {
			return nil, &models.SchemaError{Kind: kind, Err: err}
		}

		c.mu.Lock()
		c.entries[kind] = &entry{fields: fields, built: c.now()}
		c.mu.Unlock()

		c.logger.Debug("Discovered remote fields",
			zap.String("kind", string(kind)),
			zap.Int("fields", len(fields)),
		)
		return fields, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(models.FieldSet), nil
}

// Invalidate drops the cached field set of a kind.
func (c *Cache) Invalidate(kind models.Kind) {
	c.mu.Lock()
	delete(c.entries, kind)
	c.mu.Unlock()
}

func (c *Cache) discover(ctx context.Context, kind models.Kind) (models.FieldSet, error) {
	ids, err := c.client.GetCustomFieldIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list custom fields: %w", err)
	}
	if err := ids.Status.Err(); err != nil {
		return nil, err
	}

	fields := DefaultFields(kind)
	if len(ids.Refs) == 0 {
		return fields, nil
	}

	results, err := c.client.GetList(ctx, ids.Refs)
	if err != nil {
		return nil, fmt.Errorf("failed to read custom fields: %w", err)
	}

	for _, res := range results {
		if err := res.Status.Err(); err != nil {
			return nil, err
		}
		def := res.CustomField
		if def == nil || def.IsFormula || !kind.AppliesTo(*def) {
			continue
		}
		if _, exists := fields[def.ScriptID]; exists {
			continue
		}

		desc := models.FieldDescriptor{
			ID:       def.ScriptID,
			Label:    def.Label,
			Required: def.Mandatory,
			Type:     CustomFieldType(def.FieldType),
			Source:   models.SourceCustom,
		}
		if def.SelectRecordType != nil {
			target, err := c.RecordTypeName(ctx, def.SelectRecordType.InternalID)
			if err != nil {
				return nil, err
			}
			desc.Type = models.FieldReference
			desc.ReferenceTarget = target
		}
		fields[desc.ID] = desc
	}
	return fields, nil
}

// RecordTypeName resolves a record type id. Negative ids are built-in types,
// other ids are custom record types read from the remote side once.
func (c *Cache) RecordTypeName(ctx context.Context, id string) (string, error) {
	n, err := strconv.Atoi(id)
	if err != nil {
		return "", fmt.Errorf("invalid record type id %q", id)
	}
	if n < 0 {
		name, ok := wellKnownRecordTypes[n]
		if !ok {
			return "", fmt.Errorf("unknown record type id %d", n)
		}
		return name, nil
	}

	c.typesMu.RLock()
	name, ok := c.recordTypes[id]
	c.typesMu.RUnlock()
	if ok {
		return name, nil
	}

	res, err := c.client.Get(ctx, remote.RecordRef{Type: remote.TypeCustomRecordType, InternalID: id})
	if err != nil {
		return "", fmt.Errorf("failed to read custom record type %s: %w", id, err)
	}
	if err := res.Status.Err(); err != nil {
		return "", err
	}
	if res.RecordType == nil {
		return "", fmt.Errorf("custom record type %s not returned", id)
	}

	// Replace the whole map so readers never see a partial write.
	c.typesMu.Lock()
	next := make(map[string]string, len(c.recordTypes)+1)
	for k, v := range c.recordTypes {
		next[k] = v
	}
	next[id] = res.RecordType.ScriptID
	c.recordTypes = next
	c.typesMu.Unlock()

	return res.RecordType.ScriptID, nil
}
