// Package report archives sync run reports as JSON objects in the storage bucket.
package report
