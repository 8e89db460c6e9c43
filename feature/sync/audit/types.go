package audit

// Result is the audit outcome for one link row.
type Result struct {
	RemoteID      string `json:"remoteId"`
	LocalID       uint   `json:"localId"`
	LocalPresent  bool   `json:"localPresent"`
	RemotePresent bool   `json:"remotePresent"`
}

// Stale reports whether either side of the link is gone.
func (r Result) Stale() bool {
	return !r.LocalPresent || !r.RemotePresent
}

// ActionType represents the type of mutation action.
type ActionType string

const (
	// ActionPruneLink deletes a link row whose local entity or remote record is gone.
	ActionPruneLink ActionType = "prune_link"
)

// Action represents a planned mutation operation.
type Action struct {
	Type   ActionType `json:"type"`
	Key    string     `json:"key"`
	Reason string     `json:"reason"`
}

// Summary provides aggregate counts for a plan.
type Summary struct {
	TotalLinks     int `json:"totalLinks"`
	MissingLocal   int `json:"missingLocal"`
	MissingRemote  int `json:"missingRemote"`
	UnlinkedLocal  int `json:"unlinkedLocal"`
	UnlinkedRemote int `json:"unlinkedRemote"`
	PruneActions   int `json:"pruneActions"`
}

// Plan contains the audit results and planned actions.
type Plan struct {
	Kind    string   `json:"kind"`
	Results []Result `json:"results"`
	Actions []Action `json:"actions"`
	Summary Summary  `json:"summary"`
}

// Options controls whether the plan prunes anything.
type Options struct {
	// DoPrune plans deletion of stale links.
	DoPrune bool
	// DryRun prevents execution of any mutations if true.
	DryRun bool
	// Confirmed indicates the user confirmed the destructive actions.
	// If false, mutations will not execute regardless of DryRun.
	Confirmed bool
}
