// Package management implements the middle tier: coordinators that fan work
// out to registered specialists and aggregate partial results. Managers do no
// provider work themselves; their value is ordering, degradation, and the
// budget checks applied before a campaign plan proceeds.
package management
