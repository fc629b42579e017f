/*
Package escalation implements the threshold rules that decide whether a node
acts on a request or defers upward: per-role authority caps, remaining-budget
checks against the active strategy ledger, and a severity table for crisis
response.

ESCALATED, CONDITIONAL, and REJECTED are valid successful outcomes, not
errors. An escalation is recorded in the log; it is never auto-forwarded to
the higher tier.
*/
package escalation
