// Package middleware groups the Fiber middleware of the admin API.
//
// The rayid subpackage tags every request with an id that handlers add to
// their log lines. The auth subpackage rejects requests without the
// configured API key.
package middleware
