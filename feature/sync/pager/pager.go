package pager

import (
	"context"
	"time"

	"crm-sync/core/remote"
	"crm-sync/feature/sync/models"

	"go.uber.org/zap"
)

// Page size bounds.
const (
	MinPageSize     = 5
	MaxPageSize     = 1000
	DefaultPageSize = 100
)

// PageSize derives the remote page size from a caller's overall limit.
func PageSize(limit int) int {
	switch {
	case limit <= 0:
		return DefaultPageSize
	case limit < MinPageSize:
		return MinPageSize
	case limit > MaxPageSize:
		return MaxPageSize
	default:
		return limit
	}
}

// Query selects the remote records of a pull.
type Query struct {
	// Start and End bound the last modified date. Either may be nil.
	Start *time.Time
	End   *time.Time
	// FetchAll ignores the date window.
	FetchAll bool
	// Limit caps the number of records. 0 means no cap.
	Limit int
	// PageSize overrides the page size derived from Limit.
	PageSize int
}

// Cursor tracks an open remote search.
type Cursor struct {
	SearchID     string
	PageIndex    int
	TotalPages   int
	TotalRecords int
}

// HasMore reports whether another page can be requested.
func (c Cursor) HasMore() bool {
	return c.PageIndex < c.TotalPages
}

// Page is one page of results.
type Page struct {
	Records []*remote.Record
	Cursor  Cursor
}

// Pager drives the remote paged search protocol.
type Pager struct {
	client     remote.Client
	remoteZone *time.Location
	logger     *zap.Logger
}

// New creates a pager. Date filters are sent in remoteZone.
func New(client remote.Client, remoteZone *time.Location, logger *zap.Logger) *Pager {
	if remoteZone == nil {
		remoteZone = time.UTC
	}
	return &Pager{client: client, remoteZone: remoteZone, logger: logger}
}

// Search returns the first page when cursor is nil and the page following
// cursor otherwise.
func (p *Pager) Search(ctx context.Context, kind models.Kind, q Query, cursor *Cursor) (*Page, error) {
	k, err := models.ParseKind(string(kind))
	if err != nil {
		return nil, err
	}
	kind = k

	var (
		res *remote.SearchResult
		op  string
	)
	if cursor == nil {
		op = "search"
		res, err = p.client.Search(ctx, p.request(kind, q))
	} else {
		op = "search more"
		res, err = p.client.SearchMore(ctx, cursor.SearchID, cursor.PageIndex+1)
	}
	if err != nil {
		return nil, &models.RemoteQueryError{Op: op, Err: err}
	}
	if err := res.Status.Err(); err != nil {
		return nil, &models.RemoteQueryError{Op: op, Err: err}
	}

	return &Page{
		Records: res.Records,
		Cursor: Cursor{
			SearchID:     res.SearchID,
			PageIndex:    res.PageIndex,
			TotalPages:   res.TotalPages,
			TotalRecords: res.TotalRecords,
		},
	}, nil
}

func (p *Pager) request(kind models.Kind, q Query) remote.SearchRequest {
	size := q.PageSize
	if size <= 0 {
		size = PageSize(q.Limit)
	}
	req := remote.SearchRequest{RecordType: kind.RecordType(), PageSize: size}
	if !q.FetchAll {
		req.LastModified = p.dateFilter(q.Start, q.End)
	}
	return req
}

func (p *Pager) dateFilter(start, end *time.Time) *remote.DateFilter {
	switch {
	case start != nil && end != nil:
		return &remote.DateFilter{Operator: remote.OperatorWithin, SearchValue: p.format(*start), SearchValue2: p.format(*end)}
	case start != nil:
		return &remote.DateFilter{Operator: remote.OperatorOnOrAfter, SearchValue: p.format(*start)}
	case end != nil:
		return &remote.DateFilter{Operator: remote.OperatorOnOrBefore, SearchValue: p.format(*end)}
	default:
		return nil
	}
}

func (p *Pager) format(t time.Time) string {
	return t.In(p.remoteZone).Format(remote.DateTimeLayout)
}

// Pull pages through a search until it is exhausted or q.Limit records were
// handed to fn. The last page is truncated to the remaining quota. It returns
// the number of records handed to fn.
func (p *Pager) Pull(ctx context.Context, kind models.Kind, q Query, fn func(records []*remote.Record, cursor Cursor) error) (int, error) {
	total := 0
	var cursor *Cursor

	for {
		page, err := p.Search(ctx, kind, q, cursor)
		if err != nil {
			return total, err
		}

		records := page.Records
		if q.Limit > 0 && total+len(records) > q.Limit {
			records = records[:q.Limit-total]
		}
		if len(records) > 0 {
			if err := fn(records, page.Cursor); err != nil {
				return total, err
			}
			total += len(records)
		}

		p.logger.Debug("Fetched remote page",
			zap.String("kind", string(kind)),
			zap.Int("page", page.Cursor.PageIndex),
			zap.Int("pages", page.Cursor.TotalPages),
			zap.Int("total", total),
		)

		if !page.Cursor.HasMore() || (q.Limit > 0 && total >= q.Limit) {
			return total, nil
		}
		cursor = &page.Cursor
	}
}

// FindOne returns the first record of kind whose field equals value, or nil.
func (p *Pager) FindOne(ctx context.Context, kind models.Kind, field, value string) (*remote.Record, error) {
	kind, err := models.ParseKind(string(kind))
	if err != nil {
		return nil, err
	}
	res, err := p.client.Search(ctx, remote.SearchRequest{
		RecordType: kind.RecordType(),
		PageSize:   1,
		Field:      field,
		Value:      value,
	})
	if err != nil {
		return nil, &models.RemoteQueryError{Op: "find " + field, Err: err}
	}
	if err := res.Status.Err(); err != nil {
		return nil, &models.RemoteQueryError{Op: "find " + field, Err: err}
	}
	if len(res.Records) == 0 {
		return nil, nil
	}
	return res.Records[0], nil
}
