/*
Package agent implements the node contract shared by every tier of the
delegation tree.

# Architecture

	┌────────────────────────────────────────────────────────┐
	│                     Node interface                     │
	│  (Role, Validate, Execute, Stop, Available, registry)  │
	├────────────────────────────────────────────────────────┤
	│                       BaseNode                         │
	│  dispatch router · failure boundary · subordinate      │
	│  registry · sequential fan-out with graceful skips     │
	└────────────────────────────────────────────────────────┘

Execute never raises: validation misses, handler errors, and handler panics
are all converted into FAILED ExecutionResults carrying agent/task context.
Delegation folds subordinate outcomes into collected and skipped sets; a
parent completes as long as its own handler completes, no matter how many
subordinates were skipped.
*/
package agent
