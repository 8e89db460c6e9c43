// Package sync exposes the CRM reconciliation engine.
//
// The Service wires schema discovery, reference resolution, value conversion,
// record mapping and paging into a reconcile.Reconciler, runs pulls and pushes
// with a per-run logger and archives a report of every run. Audit and Prune
// check the link table against both sides. The Handler serves it over HTTP:
//
//	GET  /sync/:kind/fields
//	POST /sync/:kind/pull
//	POST /sync/:kind/push
//	GET  /sync/:kind/links/:remoteId
//	GET  /sync/:kind/audit
package sync
