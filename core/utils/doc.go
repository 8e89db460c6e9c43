// Package utils provides type conversion helpers shared by the sync packages.
// Values coming from the remote CRM and the local entity store are loosely typed,
// so comparisons and encodings go through these helpers.
package utils
