// Package executive implements the strategic tier: budget-holding nodes that
// set strategy, approve spend against the active ledger, launch campaigns
// through the management tier, and run crisis response off the severity
// table. Escalations are recorded for review, never auto-forwarded.
package executive
