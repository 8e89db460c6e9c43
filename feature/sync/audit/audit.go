package audit

import (
	"context"
	"fmt"
	"sort"

	"crm-sync/core/remote"
	"crm-sync/feature/sync/models"
	"crm-sync/feature/sync/pager"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// LinkSource lists and deletes link rows.
type LinkSource interface {
	LinkedLocalIDs(ctx context.Context, integration string, kind models.Kind) (map[uint]string, error)
	Delete(ctx context.Context, integration string, kind models.Kind, remoteIDs ...string) (int64, error)
}

// EntitySource lists local entity ids.
type EntitySource interface {
	IDs(ctx context.Context, kind models.Kind) (map[uint]struct{}, error)
}

// RecordSource pages through every remote record of a kind.
type RecordSource interface {
	Pull(ctx context.Context, kind models.Kind, q pager.Query, fn func(records []*remote.Record, cursor pager.Cursor) error) (int, error)
}

// Auditor cross-checks link rows against both sides.
type Auditor struct {
	links       LinkSource
	entities    EntitySource
	records     RecordSource
	integration string
	logger      *zap.Logger
}

// New creates an auditor.
func New(links LinkSource, entities EntitySource, records RecordSource, integration string, logger *zap.Logger) *Auditor {
	return &Auditor{links: links, entities: entities, records: records, integration: integration, logger: logger}
}

type indices struct {
	links  map[uint]string
	local  map[uint]struct{}
	remote map[string]struct{}
}

// load builds the three indices concurrently. The first failure cancels the others.
func (a *Auditor) load(ctx context.Context, kind models.Kind) (*indices, error) {
	var idx indices
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		idx.links, err = a.links.LinkedLocalIDs(gctx, a.integration, kind)
		return err
	})

	g.Go(func() error {
		var err error
		idx.local, err = a.entities.IDs(gctx, kind)
		return err
	})

	g.Go(func() error {
		set := make(map[string]struct{})
		_, err := a.records.Pull(gctx, kind, pager.Query{FetchAll: true, PageSize: pager.MaxPageSize}, func(records []*remote.Record, _ pager.Cursor) error {
			for _, r := range records {
				set[r.InternalID] = struct{}{}
			}
			return nil
		})
		idx.remote = set
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &idx, nil
}

// Plan audits the links of a kind. It does NOT execute actions; use Apply for that.
func (a *Auditor) Plan(ctx context.Context, kind models.Kind, opts Options) (*Plan, error) {
	idx, err := a.load(ctx, kind)
	if err != nil {
		return nil, err
	}

	plan := &Plan{Kind: string(kind), Results: make([]Result, 0, len(idx.links)), Actions: []Action{}}
	linkedRemote := make(map[string]struct{}, len(idx.links))

	for localID, remoteID := range idx.links {
		linkedRemote[remoteID] = struct{}{}
		_, localOK := idx.local[localID]
		_, remoteOK := idx.remote[remoteID]
		res := Result{RemoteID: remoteID, LocalID: localID, LocalPresent: localOK, RemotePresent: remoteOK}
		plan.Results = append(plan.Results, res)

		if !localOK {
			plan.Summary.MissingLocal++
		}
		if !remoteOK {
			plan.Summary.MissingRemote++
		}
		if opts.DoPrune && res.Stale() {
			plan.Actions = append(plan.Actions, Action{Type: ActionPruneLink, Key: remoteID, Reason: reason(res)})
		}
	}

	for id := range idx.local {
		if _, ok := idx.links[id]; !ok {
			plan.Summary.UnlinkedLocal++
		}
	}
	for id := range idx.remote {
		if _, ok := linkedRemote[id]; !ok {
			plan.Summary.UnlinkedRemote++
		}
	}

	sort.Slice(plan.Results, func(i, j int) bool { return plan.Results[i].RemoteID < plan.Results[j].RemoteID })
	sort.Slice(plan.Actions, func(i, j int) bool { return plan.Actions[i].Key < plan.Actions[j].Key })
	plan.Summary.TotalLinks = len(plan.Results)
	plan.Summary.PruneActions = len(plan.Actions)

	a.logger.Info("Link audit planned",
		zap.String("kind", string(kind)),
		zap.Int("links", plan.Summary.TotalLinks),
		zap.Int("missing_local", plan.Summary.MissingLocal),
		zap.Int("missing_remote", plan.Summary.MissingRemote),
		zap.Int("prune_actions", plan.Summary.PruneActions),
	)
	return plan, nil
}

func reason(r Result) string {
	switch {
	case !r.LocalPresent && !r.RemotePresent:
		return "local entity and remote record are gone"
	case !r.LocalPresent:
		return fmt.Sprintf("local entity %d is gone", r.LocalID)
	default:
		return fmt.Sprintf("remote record %s is gone", r.RemoteID)
	}
}

// Apply executes the actions of a plan. Requires opts.Confirmed=true and
// opts.DryRun=false to actually execute.
func (a *Auditor) Apply(ctx context.Context, plan *Plan, opts Options) (int, error) {
	if !opts.Confirmed || opts.DryRun {
		return 0, nil
	}

	var keys []string
	for _, action := range plan.Actions {
		if action.Type == ActionPruneLink {
			keys = append(keys, action.Key)
		}
	}
	if len(keys) == 0 {
		return 0, nil
	}

	n, err := a.links.Delete(ctx, a.integration, models.Kind(plan.Kind), keys...)
	if err != nil {
		return int(n), fmt.Errorf("failed to prune links: %w", err)
	}
	a.logger.Info("Stale links pruned", zap.String("kind", plan.Kind), zap.Int64("count", n))
	return int(n), nil
}
