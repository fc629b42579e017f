package escalation

import (
	"time"

	"github.com/BaSui01/marketflow/types"
)

// Severity grades an incident for crisis response.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Valid reports whether s is a known severity grade.
func (s Severity) Valid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

// SeverityRule maps one grade to its response requirements.
type SeverityRule struct {
	// ResponseWindow is the maximum time to first action.
	ResponseWindow time.Duration
	// Approver is the role whose sign-off the response plan needs.
	Approver types.Role
	// Escalate marks grades that must be raised to the executive tier.
	Escalate bool
	// Immediate marks grades where escalation happens before any
	// drafting work starts.
	Immediate bool
}

// severityTable is the fixed crisis response matrix.
var severityTable = map[Severity]SeverityRule{
	SeverityLow:      {ResponseWindow: 24 * time.Hour, Approver: types.RoleDirectorCommunications},
	SeverityMedium:   {ResponseWindow: 4 * time.Hour, Approver: types.RoleDirectorCommunications},
	SeverityHigh:     {ResponseWindow: time.Hour, Approver: types.RoleCMO, Escalate: true},
	SeverityCritical: {ResponseWindow: 15 * time.Minute, Approver: types.RoleCMO, Escalate: true, Immediate: true},
}

// RuleFor returns the response rule for severity. Unknown grades map to the
// critical rule: an unclassifiable incident gets the tightest handling.
func RuleFor(severity Severity) SeverityRule {
	if rule, ok := severityTable[severity]; ok {
		return rule
	}
	return severityTable[SeverityCritical]
}
