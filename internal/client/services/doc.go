// Package services holds the two state containers at the heart of the
// client: the session store owning the signed-in identity and its cached
// profile, and the journal store owning the optimistic dream collection with
// its pending-mutation ledgers and remote reconciliation.
package services
