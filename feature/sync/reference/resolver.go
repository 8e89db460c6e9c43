package reference

import (
	"context"
	"strings"
	"sync"

	"crm-sync/core/remote"
	"crm-sync/core/utils"
	"crm-sync/feature/sync/models"

	"go.uber.org/zap"
)

// Resolver translates between remote reference handles and local labels.
type Resolver struct {
	client remote.Client
	store  ValueStore
	logger *zap.Logger

	mu     sync.Mutex
	misses map[string]struct{}
}

// NewResolver creates a resolver backed by store.
func NewResolver(client remote.Client, store ValueStore, logger *zap.Logger) *Resolver {
	return &Resolver{
		client: client,
		store:  store,
		logger: logger,
		misses: make(map[string]struct{}),
	}
}

// ToLocal returns the label of a reference handle. Values that are not handles
// are returned unchanged. A handle without a name is looked up in the store and
// falls back to its id.
func (r *Resolver) ToLocal(ctx context.Context, value any, fieldID string) (any, error) {
	ref, ok := value.(remote.RecordRef)
	if !ok {
		return value, nil
	}
	if ref.Name != "" {
		if err := r.store.Put(ctx, fieldID, ref.InternalID, ref.Name); err != nil {
			r.logger.Warn("Failed to cache reference label",
				zap.String("field", fieldID),
				zap.String("id", ref.InternalID),
				zap.Error(err),
			)
		}
		return ref.Name, nil
	}

	label, found, err := r.store.Label(ctx, fieldID, ref.InternalID)
	if err != nil {
		return nil, err
	}
	if found {
		return label, nil
	}
	return ref.InternalID, nil
}

// ToRemote builds a reference handle for a local label. It returns
// models.ErrReferenceNotFound when the target type has no record of that name;
// the miss is remembered until Invalidate.
func (r *Resolver) ToRemote(ctx context.Context, fieldID string, value any, target string) (remote.RecordRef, error) {
	if ref, ok := value.(remote.RecordRef); ok {
		return ref, nil
	}
	label := utils.ToString(value)
	if utils.IsEmpty(label) {
		return remote.RecordRef{}, models.ErrReferenceNotFound
	}

	id, found, err := r.store.ID(ctx, fieldID, label)
	if err != nil {
		return remote.RecordRef{}, err
	}
	if found {
		return remote.RecordRef{InternalID: id, Type: target, Name: label}, nil
	}

	key := missKey(target, label)
	r.mu.Lock()
	_, missed := r.misses[key]
	r.mu.Unlock()
	if missed {
		return remote.RecordRef{}, models.ErrReferenceNotFound
	}

	id, found, err = r.client.FindRecordID(ctx, target, label)
	if err != nil {
		return remote.RecordRef{}, &models.RemoteQueryError{Op: "lookup " + target, Err: err}
	}
	if !found {
		r.mu.Lock()
		r.misses[key] = struct{}{}
		r.mu.Unlock()
		return remote.RecordRef{}, models.ErrReferenceNotFound
	}

	if err := r.store.Put(ctx, fieldID, id, label); err != nil {
		return remote.RecordRef{}, err
	}
	return remote.RecordRef{InternalID: id, Type: target, Name: label}, nil
}

// Invalidate forgets the remembered misses of a target type, so its labels are
// looked up remotely again.
func (r *Resolver) Invalidate(target string) {
	prefix := missKey(target, "")
	r.mu.Lock()
	for k := range r.misses {
		if strings.HasPrefix(k, prefix) {
			delete(r.misses, k)
		}
	}
	r.mu.Unlock()
}

func missKey(target, label string) string {
	return target + "\x00" + label
}
