package reconcile

import (
	"context"
	"strconv"
	"strings"

	"crm-sync/core/remote"
	"crm-sync/core/utils"
	"crm-sync/feature/sync/entities"
	"crm-sync/feature/sync/models"

	"go.uber.org/zap"
)

// PushOptions selects the local entities of a push.
type PushOptions struct {
	Window entities.Window
	// FetchAll ignores the window.
	FetchAll bool
	// Limit caps the candidates of each of the update and create queries. 0 means no cap.
	Limit int
}

// pending is a record waiting in a write buffer.
type pending struct {
	record *remote.Record
	entity *models.Entity
	link   *models.LinkRow
}

// Push sends local changes of a kind to the remote side. Linked entities are
// updated, unlinked ones created. Writes are flushed in batches; a rejected
// batch stops the push while earlier batches stay committed.
func (r *Reconciler) Push(ctx context.Context, kind models.Kind, opts PushOptions) (Result, error) {
	var res Result

	k, err := models.ParseKind(string(kind))
	if err != nil {
		return r.finish("push", kind, res, err)
	}
	kind = k

	fields, fm, err := r.fieldMap(ctx, kind)
	if err != nil {
		return r.finish("push", kind, res, err)
	}
	if opts.FetchAll {
		opts.Window = entities.Window{}
	}

	if err := r.pushUpdates(ctx, kind, fields, fm, opts, &res); err != nil {
		return r.finish("push", kind, res, err)
	}
	err = r.pushCreates(ctx, kind, fields, fm, opts, &res)
	return r.finish("push", kind, res, err)
}

// pushable returns the local fields whose value may be sent without backfill.
func (fm fieldMap) pushable() []string {
	var out []string
	for _, local := range fm.localFields() {
		if !fm.remoteWinsLocal(local) {
			out = append(out, local)
		}
	}
	return out
}

// dedupe drops candidates without a natural key and keeps the last candidate
// of each key, in first-seen order.
func (r *Reconciler) dedupe(candidates []*models.Entity, res *Result) []*models.Entity {
	index := map[string]int{}
	var out []*models.Entity
	for _, e := range candidates {
		key := r.entities.NaturalKey(e)
		if key == "" {
			res.Skipped++
			continue
		}
		if i, ok := index[key]; ok {
			out[i] = e
			res.Skipped++
			continue
		}
		index[key] = len(out)
		out = append(out, e)
	}
	return out
}

func (r *Reconciler) pushUpdates(ctx context.Context, kind models.Kind, fields models.FieldSet, fm fieldMap, opts PushOptions, res *Result) error {
	candidates, err := r.entities.EntitiesToUpdate(ctx, r.opts.Integration, kind, opts.Window, fm.pushable(), opts.Limit)
	if err != nil {
		return err
	}

	var buf []pending
	batch := 0
	for _, e := range r.dedupe(candidates, res) {
		link, err := r.links.FindByLocalID(ctx, r.opts.Integration, kind, e.ID)
		if err != nil {
			return err
		}
		if link == nil {
			res.Skipped++
			continue
		}

		values, err := r.updateValues(ctx, kind, fields, fm, e, e.Pushable)
		if err != nil {
			return err
		}
		p, ok, err := r.buildRecord(ctx, kind, fields, e, values, link)
		if err != nil {
			return err
		}
		if !ok {
			res.Skipped++
			continue
		}

		buf = append(buf, p)
		if len(buf) >= r.opts.BatchSize {
			batch++
			if err := r.flushUpdates(ctx, batch, buf, res); err != nil {
				return err
			}
			buf = nil
		}
	}
	if len(buf) > 0 {
		batch++
		return r.flushUpdates(ctx, batch, buf, res)
	}
	return nil
}

// updateValues collects the remote-keyed values of an update: the changed
// fields that are not remote-authoritative, plus every mapped field that is
// blank on the existing remote record.
func (r *Reconciler) updateValues(ctx context.Context, kind models.Kind, fields models.FieldSet, fm fieldMap, e *models.Entity, changed []string) (map[string]any, error) {
	values := map[string]any{}
	eligible := map[string]struct{}{}
	for _, local := range fm.pushable() {
		eligible[local] = struct{}{}
	}
	for _, local := range changed {
		if _, ok := eligible[local]; !ok {
			continue
		}
		values[fm.toRemote[local]] = e.Value(local)
	}

	existing, err := r.records.FindOne(ctx, kind, kind.NaturalKey(), r.entities.NaturalKey(e))
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return values, nil
	}
	current, err := r.mapper.ToLocalValues(ctx, existing, kind, fields)
	if err != nil {
		return nil, err
	}
	for _, local := range fm.localFields() {
		remoteID := fm.toRemote[local]
		if _, set := values[remoteID]; set {
			continue
		}
		if v := e.Value(local); !utils.IsEmpty(v) && utils.IsEmpty(current[remoteID]) {
			values[remoteID] = v
		}
	}
	return values, nil
}

// buildRecord maps values onto a new remote record. ok is false when no field applied.
func (r *Reconciler) buildRecord(ctx context.Context, kind models.Kind, fields models.FieldSet, e *models.Entity, values map[string]any, link *models.LinkRow) (pending, bool, error) {
	rec := remote.NewRecord(kind.RecordType())
	isUpdate := link != nil
	if isUpdate {
		rec.InternalID = link.RemoteRecordID
	} else {
		rec.ExternalID = strconv.FormatUint(uint64(e.ID), 10)
	}
	n, err := r.mapper.ApplyValues(ctx, rec, values, kind, fields, isUpdate)
	if err != nil {
		return pending{}, false, err
	}
	return pending{record: rec, entity: e, link: link}, n > 0, nil
}

func records(buf []pending) []*remote.Record {
	out := make([]*remote.Record, len(buf))
	for i, p := range buf {
		out[i] = p.record
	}
	return out
}

func (r *Reconciler) flushUpdates(ctx context.Context, batch int, buf []pending, res *Result) error {
	out, err := r.writer.UpdateList(ctx, records(buf))
	if err != nil {
		return &models.RemoteWriteError{Op: "update", Batch: batch, Err: err}
	}
	if err := out.Status.Err(); err != nil {
		return &models.RemoteWriteError{Op: "update", Batch: batch, Err: err}
	}

	for i, p := range buf {
		if i < len(out.Responses) {
			if err := out.Responses[i].Status.Err(); err != nil {
				r.logger.Warn("Remote rejected update",
					zap.String("remote_id", p.record.InternalID),
					zap.Error(err),
				)
				res.Skipped++
				continue
			}
		}
		if err := r.entities.MarkPushed(ctx, p.entity); err != nil {
			return err
		}
		if err := r.links.Touch(ctx, p.link); err != nil {
			return err
		}
		res.Updated++
	}
	return nil
}

func (r *Reconciler) pushCreates(ctx context.Context, kind models.Kind, fields models.FieldSet, fm fieldMap, opts PushOptions, res *Result) error {
	candidates, err := r.entities.EntitiesToCreate(ctx, r.opts.Integration, kind, opts.Window, opts.Limit)
	if err != nil {
		return err
	}

	var creates, updates []pending
	createBatch, updateBatch := 0, 0
	for _, e := range r.dedupe(candidates, res) {
		values := map[string]any{}
		for _, local := range fm.localFields() {
			if v := e.Value(local); !utils.IsEmpty(v) {
				values[fm.toRemote[local]] = v
			}
		}

		// A remote record with the same natural key is linked instead of duplicated.
		existing, err := r.records.FindOne(ctx, kind, kind.NaturalKey(), r.entities.NaturalKey(e))
		if err != nil {
			return err
		}
		if existing != nil {
			link, err := r.links.FindByRemoteID(ctx, r.opts.Integration, kind, existing.InternalID)
			if err != nil {
				return err
			}
			if link == nil {
				link = &models.LinkRow{
					Integration:    r.opts.Integration,
					Kind:           string(kind),
					LocalEntityID:  e.ID,
					RemoteRecordID: existing.InternalID,
				}
				if err := r.links.Save(ctx, link); err != nil {
					return err
				}
			}
			if link.LocalEntityID != e.ID {
				r.logger.Warn("Remote record is linked to another entity, create skipped",
					zap.String("kind", string(kind)),
					zap.String("remote_id", existing.InternalID),
					zap.Uint("local_id", e.ID),
				)
				res.Skipped++
				continue
			}
			upd, err := r.updateValues(ctx, kind, fields, fm, e, fm.localFields())
			if err != nil {
				return err
			}
			p, ok, err := r.buildRecord(ctx, kind, fields, e, upd, link)
			if err != nil {
				return err
			}
			if !ok {
				res.Skipped++
				continue
			}
			updates = append(updates, p)
			if len(updates) >= r.opts.BatchSize {
				updateBatch++
				if err := r.flushUpdates(ctx, updateBatch, updates, res); err != nil {
					return err
				}
				updates = nil
			}
			continue
		}

		p, ok, err := r.buildRecord(ctx, kind, fields, e, values, nil)
		if err != nil {
			return err
		}
		if !ok {
			res.Skipped++
			continue
		}
		creates = append(creates, p)
		if len(creates) >= r.opts.BatchSize {
			createBatch++
			if err := r.flushCreates(ctx, kind, createBatch, creates, res); err != nil {
				return err
			}
			creates = nil
		}
	}

	if len(updates) > 0 {
		updateBatch++
		if err := r.flushUpdates(ctx, updateBatch, updates, res); err != nil {
			return err
		}
	}
	if len(creates) > 0 {
		createBatch++
		return r.flushCreates(ctx, kind, createBatch, creates, res)
	}
	return nil
}

func (r *Reconciler) flushCreates(ctx context.Context, kind models.Kind, batch int, buf []pending, res *Result) error {
	out, err := r.writer.AddList(ctx, records(buf))
	if err != nil {
		return &models.RemoteWriteError{Op: "add", Batch: batch, Err: err}
	}
	if err := out.Status.Err(); err != nil {
		return &models.RemoteWriteError{Op: "add", Batch: batch, Err: err}
	}

	byLocal := make(map[string]*models.Entity, len(buf))
	for _, p := range buf {
		byLocal[p.record.ExternalID] = p.entity
	}

	for _, resp := range out.Responses {
		externalID := strings.TrimSpace(resp.Ref.ExternalID)
		e, ok := byLocal[externalID]
		delete(byLocal, externalID)
		if err := resp.Status.Err(); err != nil {
			r.logger.Warn("Remote rejected create",
				zap.String("external_id", resp.Ref.ExternalID),
				zap.Error(err),
			)
			res.Skipped++
			continue
		}
		if !ok {
			// The entity it was meant for is counted below as unanswered.
			r.logger.Warn("Create response does not match a pushed entity",
				zap.String("external_id", resp.Ref.ExternalID),
				zap.String("remote_id", resp.Ref.InternalID),
			)
			continue
		}
		if resp.Ref.InternalID == "" {
			r.logger.Warn("Create response has no remote id",
				zap.String("external_id", resp.Ref.ExternalID),
				zap.Uint("local_id", e.ID),
			)
			res.Skipped++
			continue
		}
		if err := r.links.Save(ctx, &models.LinkRow{
			Integration:    r.opts.Integration,
			Kind:           string(kind),
			LocalEntityID:  e.ID,
			RemoteRecordID: resp.Ref.InternalID,
		}); err != nil {
			return err
		}
		if err := r.entities.MarkPushed(ctx, e); err != nil {
			return err
		}
		res.Created++
	}

	// Records the remote side never answered for stay unlinked.
	for externalID, e := range byLocal {
		r.logger.Warn("Create got no response, entity left unlinked",
			zap.String("external_id", externalID),
			zap.Uint("local_id", e.ID),
		)
		res.Skipped++
	}
	return nil
}
