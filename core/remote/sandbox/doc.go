// Package sandbox implements remote.Client in memory.
//
// Searches are snapshotted at the first call and paged through SearchMore with the returned
// search id, like the real API. Bulk writes assign increasing internal ids. FailNext injects a
// failed status into the next call of a method, and Calls counts invocations.
package sandbox
