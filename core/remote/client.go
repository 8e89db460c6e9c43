package remote

import "context"

// Client is the remote CRM RPC contract. Transport failures are returned as
// errors; remote rejections are reported through the Status of each result.
type Client interface {
	// GetCustomFieldIDs lists the entity custom fields of the account.
	GetCustomFieldIDs(ctx context.Context) (*CustomizationIDResult, error)
	// GetList reads several records or definitions at once.
	GetList(ctx context.Context, refs []RecordRef) ([]ReadResult, error)
	// Get reads a single record or definition.
	Get(ctx context.Context, ref RecordRef) (*ReadResult, error)
	// Search starts a paged search.
	Search(ctx context.Context, req SearchRequest) (*SearchResult, error)
	// SearchMore fetches another page of an existing search.
	SearchMore(ctx context.Context, searchID string, pageIndex int) (*SearchResult, error)
	// AddList creates records in bulk.
	AddList(ctx context.Context, records []*Record) (*WriteListResult, error)
	// UpdateList updates records in bulk.
	UpdateList(ctx context.Context, records []*Record) (*WriteListResult, error)
	// FindRecordID looks up a record of recordType by name.
	FindRecordID(ctx context.Context, recordType, name string) (string, bool, error)
}
