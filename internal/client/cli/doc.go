// Package cli implements the interactive Reverie shell: sign-in and
// onboarding, dream journal commands, and the background worker that keeps
// the local collection reconciled with the backend.
package cli
