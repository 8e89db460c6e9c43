// Package pager drives the remote paged search.
//
// The first page comes from a fresh search narrowed by a last modified window; later pages
// reuse the search id through SearchMore. Pages are fetched strictly one after another since
// a search id is a single server-side cursor.
package pager
