// Package entities is the local contact and company store used by the reconciler.
//
// Field values are kept as a JSON map keyed by local field name. Each entity also records a
// normalized natural key (email or company name) for company matching, and the list of fields
// edited locally since the last push.
package entities
