// Package links stores the pairing of local entities and remote records.
//
// A link is unique per (integration, kind, remote id) and per (integration, kind, local id).
// Writes are upserts on the remote key, so two overlapping runs writing the same link end up
// with a single row. Links are never deleted here.
package links
