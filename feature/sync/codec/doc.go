// Package codec transcodes field values between the local and the remote representation.
//
// Dates travel as "2006-01-02T15:04:05.000-07:00" in a fixed remote offset and are rendered
// locally as "2006-01-02 15:04:05" in the local zone. Countries and states go through static
// code/name tables; values missing from the tables pass through unchanged. Reference fields
// are delegated to a References implementation.
package codec
