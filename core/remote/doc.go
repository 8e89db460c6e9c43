// Package remote defines the contract of the remote CRM API.
//
// The sync engine treats the CRM as an opaque RPC service: records are bags of direct
// properties plus a custom field list plus an optional address book. Every response
// carries a Status, and Status.Err converts a rejection into a *StatusError with the
// code and message of the first error detail.
//
// The SOAP transport itself lives outside this module. The sandbox sub-package provides
// an in-memory implementation used in tests and local runs, and mocks provides a testify
// mock of Client.
package remote
