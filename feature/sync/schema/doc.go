// Package schema discovers the remote field set of each object kind.
//
// A field set is the built-in field table of the kind (address fields included) merged with
// the custom fields that apply to it. Built-in fields win over custom fields of the same id.
// Formula fields are skipped. Custom fields pointing into another record type are typed as
// references; the target type name comes from a static table of built-in types or, for custom
// record types, from a one-off remote read that is cached.
//
// Field sets are cached per kind. Concurrent first calls share a single discovery through
// singleflight.
package schema
