package checks

import (
	"context"

	"crm-sync/core/remote"
)

// RemoteReport describes whether the remote CRM answers.
type RemoteReport struct {
	Reachable    bool   `json:"reachable"`
	CustomFields int    `json:"custom_fields"`
	Error        string `json:"error,omitempty"`
}

// CheckRemote issues the cheapest remote call, the custom field id listing.
func CheckRemote(ctx context.Context, client remote.Client) *RemoteReport {
	res, err := client.GetCustomFieldIDs(ctx)
	if err == nil {
		err = res.Status.Err()
	}
	if err != nil {
		return &RemoteReport{Error: err.Error()}
	}
	return &RemoteReport{Reachable: true, CustomFields: len(res.Refs)}
}
