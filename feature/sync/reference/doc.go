// Package reference resolves reference field values.
//
// Remote reference fields hold a handle (internal id plus optional name) into another record
// type, while local entities store the human readable label. Every id/label pair seen is kept
// per field in the sync_reference_values table, so a label resolved once is never looked up
// remotely again. Labels the remote side does not know are remembered in memory as misses.
package reference
