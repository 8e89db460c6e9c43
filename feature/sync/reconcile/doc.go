// Package reconcile synchronizes local entities with remote CRM records.
//
// # Pull
//
// Remote records are paged in, flattened by the mapper and matched to local entities through
// the link table. Records without a link create a new entity and a link. Linked records only
// write the fields that changed and are eligible: remote-wins fields, and any field still empty
// locally. A record with no eligible change leaves both the entity and its link untouched.
// Contacts are attached to a local company matched by name.
//
// # Push
//
// Linked entities with local edits become remote updates; unlinked entities become creates,
// unless a remote record with the same natural key exists, in which case it is linked and
// updated instead. Updates also backfill every mapped field that is blank remotely. Records are
// written in batches of at most 100; the ids returned by a bulk create are linked back to the
// local entities through the external id.
//
// Both directions return the counts reached so far along with the error that stopped them.
package reconcile
