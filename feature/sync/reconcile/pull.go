package reconcile

import (
	"context"
	"strings"

	"crm-sync/core/remote"
	"crm-sync/core/utils"
	"crm-sync/feature/sync/mapper"
	"crm-sync/feature/sync/models"
	"crm-sync/feature/sync/pager"

	"go.uber.org/zap"
)

// Pull copies remote records of a kind into the local store. It returns the
// counts accumulated so far together with the error that stopped it, if any.
func (r *Reconciler) Pull(ctx context.Context, kind models.Kind, q pager.Query) (Result, error) {
	var res Result

	k, err := models.ParseKind(string(kind))
	if err != nil {
		return r.finish("pull", kind, res, err)
	}
	kind = k

	fields, fm, err := r.fieldMap(ctx, kind)
	if err != nil {
		return r.finish("pull", kind, res, err)
	}
	if q.FetchAll {
		q.Start, q.End = nil, nil
	}

	_, err = r.records.Pull(ctx, kind, q, func(records []*remote.Record, _ pager.Cursor) error {
		for _, rec := range records {
			if err := r.pullRecord(ctx, kind, fields, fm, rec, &res); err != nil {
				return err
			}
		}
		return nil
	})
	return r.finish("pull", kind, res, err)
}

func (r *Reconciler) pullRecord(ctx context.Context, kind models.Kind, fields models.FieldSet, fm fieldMap, rec *remote.Record, res *Result) error {
	values, err := r.mapper.ToLocalValues(ctx, rec, kind, fields)
	if err != nil {
		return err
	}
	if email, ok := values["email"]; ok {
		values["email"] = strings.ToLower(strings.TrimSpace(utils.ToString(email)))
	}

	local := make(map[string]any, len(fm.toLocal))
	for remoteID, name := range fm.toLocal {
		if v, ok := values[remoteID]; ok {
			local[name] = v
		}
	}

	link, err := r.links.FindByRemoteID(ctx, r.opts.Integration, kind, rec.InternalID)
	if err != nil {
		return err
	}

	var entity *models.Entity
	if link != nil {
		entity, err = r.entities.Get(ctx, kind, link.LocalEntityID)
		if err != nil {
			return err
		}
		if entity == nil {
			r.logger.Warn("Linked entity is missing, record skipped",
				zap.String("kind", string(kind)),
				zap.String("remote_id", rec.InternalID),
				zap.Uint("local_id", link.LocalEntityID),
			)
			res.Skipped++
			return nil
		}

		changed, err := r.applyPulled(ctx, fm, entity, local)
		if err != nil {
			return err
		}
		if !changed {
			res.Skipped++
		} else {
			if err := r.links.Touch(ctx, link); err != nil {
				return err
			}
			res.Updated++
		}
	} else {
		// An unlinked local entity with the same natural key is matched instead of duplicated.
		key := utils.ToString(local[LocalKeyField(r.opts.Mapping, kind)])
		entity, err = r.entities.FindUnlinked(ctx, r.opts.Integration, kind, key)
		if err != nil {
			return err
		}
		if entity != nil {
			if _, err := r.applyPulled(ctx, fm, entity, local); err != nil {
				return err
			}
			res.Updated++
		} else {
			entity, err = r.entities.Create(ctx, kind, nonEmpty(local))
			if err != nil {
				return err
			}
			res.Created++
		}
		if err := r.links.Save(ctx, &models.LinkRow{
			Integration:    r.opts.Integration,
			Kind:           string(kind),
			LocalEntityID:  entity.ID,
			RemoteRecordID: rec.InternalID,
		}); err != nil {
			return err
		}
	}

	if kind == models.KindContact {
		return r.attachCompany(ctx, entity, values)
	}
	return nil
}

// applyPulled saves the eligible remote values on entity and reports whether any changed.
func (r *Reconciler) applyPulled(ctx context.Context, fm fieldMap, entity *models.Entity, local map[string]any) (bool, error) {
	changes := r.pullChanges(fm, entity, local)
	if len(changes) == 0 {
		return false, nil
	}
	r.entities.SetFieldValues(entity, changes)
	return true, r.entities.Save(ctx, entity)
}

// pullChanges selects the values that may overwrite local data. Remote-wins
// fields and fields empty locally are eligible; everything else is kept.
// Unchanged values and empty remote values are dropped.
func (r *Reconciler) pullChanges(fm fieldMap, entity *models.Entity, local map[string]any) map[string]any {
	changes := map[string]any{}
	for name, v := range local {
		if utils.IsEmpty(v) {
			continue
		}
		current := entity.Value(name)
		if len(fm.remoteWins) > 0 && !fm.remoteWinsLocal(name) && !utils.IsEmpty(current) {
			continue
		}
		if current != nil && utils.ToString(current) == utils.ToString(v) {
			continue
		}
		changes[name] = v
	}
	return changes
}

func (r *Reconciler) attachCompany(ctx context.Context, contact *models.Entity, values map[string]any) error {
	name := utils.ToString(values[mapper.CompanyKey])
	if utils.IsEmpty(values[mapper.CompanyKey]) {
		return nil
	}
	company, err := r.entities.FindOrCreateCompany(ctx, name)
	if err != nil {
		return err
	}
	if err := r.entities.AddToCompany(ctx, contact, company); err != nil {
		return err
	}

	remoteID := utils.ToString(values[mapper.CompanyRemoteIDKey])
	if utils.IsEmpty(values[mapper.CompanyRemoteIDKey]) {
		return nil
	}
	existing, err := r.links.FindByLocalID(ctx, r.opts.Integration, models.KindCompany, company.ID)
	if err != nil || existing != nil {
		return err
	}
	return r.links.Save(ctx, &models.LinkRow{
		Integration:    r.opts.Integration,
		Kind:           string(models.KindCompany),
		LocalEntityID:  company.ID,
		RemoteRecordID: remoteID,
	})
}

func nonEmpty(values map[string]any) map[string]any {
	out := make(map[string]any, len(values))
	for k, v := range values {
		if !utils.IsEmpty(v) {
			out[k] = v
		}
	}
	return out
}
