package mocks

import (
	"context"

	"crm-sync/core/remote"

	"github.com/stretchr/testify/mock"
)

// Client is a mock implementation of remote.Client
type Client struct {
	mock.Mock
}

func (m *Client) GetCustomFieldIDs(ctx context.Context) (*remote.CustomizationIDResult, error) {
	args := m.Called(ctx)
	if res, ok := args.Get(0).(*remote.CustomizationIDResult); ok {
		return res, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) GetList(ctx context.Context, refs []remote.RecordRef) ([]remote.ReadResult, error) {
	args := m.Called(ctx, refs)
	if res, ok := args.Get(0).([]remote.ReadResult); ok {
		return res, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) Get(ctx context.Context, ref remote.RecordRef) (*remote.ReadResult, error) {
	args := m.Called(ctx, ref)
	if res, ok := args.Get(0).(*remote.ReadResult); ok {
		return res, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) Search(ctx context.Context, req remote.SearchRequest) (*remote.SearchResult, error) {
	args := m.Called(ctx, req)
	if res, ok := args.Get(0).(*remote.SearchResult); ok {
		return res, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) SearchMore(ctx context.Context, searchID string, pageIndex int) (*remote.SearchResult, error) {
	args := m.Called(ctx, searchID, pageIndex)
	if res, ok := args.Get(0).(*remote.SearchResult); ok {
		return res, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) AddList(ctx context.Context, records []*remote.Record) (*remote.WriteListResult, error) {
	args := m.Called(ctx, records)
	if res, ok := args.Get(0).(*remote.WriteListResult); ok {
		return res, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) UpdateList(ctx context.Context, records []*remote.Record) (*remote.WriteListResult, error) {
	args := m.Called(ctx, records)
	if res, ok := args.Get(0).(*remote.WriteListResult); ok {
		return res, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) FindRecordID(ctx context.Context, recordType, name string) (string, bool, error) {
	args := m.Called(ctx, recordType, name)
	return args.String(0), args.Bool(1), args.Error(2)
}
