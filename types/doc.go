/*
Package types provides the shared type contracts for the marketflow framework.

types is the lowest-level package with no internal dependencies, so the task
protocol, role enumeration, and error codes shared by every node tier live
here to avoid circular imports.

Core types:

  - Task            — an immutable unit of work with a kind, priority, and parameters
  - ExecutionResult — the immutable, terminal outcome of processing a Task
  - Role            — closed enumeration of organizational roles across three tiers
  - Error/ErrorCode — structured error taxonomy with provider and retry markers
*/
package types
