// Package api is the typed REST client for the Reverie backend: auth,
// dream CRUD, profile, stats and trend endpoints. Every response body is
// decoded into an explicit schema struct at this boundary.
package api
