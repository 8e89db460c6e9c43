// Package server holds the HTTP server configuration.
//
// The start command validates it before the admin API is brought up: a port and an API key are
// both required, since every route except the swagger docs sits behind the auth middleware.
package server
