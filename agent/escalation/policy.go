package escalation

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Status is the outcome of an approval decision.
type Status string

const (
	StatusApproved    Status = "APPROVED"
	StatusRejected    Status = "REJECTED"
	StatusConditional Status = "CONDITIONAL"
	StatusEscalated   Status = "ESCALATED"
)

// ApprovalRequest asks a node to authorize spend.
type ApprovalRequest struct {
	ID        string   `json:"id"`
	Amount    float64  `json:"amount"`
	Objective string   `json:"objective"`           // required descriptive field
	Channels  []string `json:"channels,omitempty"`  // minor detail
	Resources []string `json:"resources,omitempty"` // minor detail
}

// Decision is the policy outcome for one request.
type Decision struct {
	Status     Status    `json:"status"`
	Reason     string    `json:"reason,omitempty"`
	Conditions []string  `json:"conditions,omitempty"` // follow-ups for CONDITIONAL
	Entry      *LogEntry `json:"entry,omitempty"`      // recorded when ESCALATED
}

// LogEntry records one escalation.
type LogEntry struct {
	ID        string    `json:"id"`
	Amount    float64   `json:"amount"`
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
}

// Log collects escalation entries for a node. No automatic forwarding occurs;
// the log is the record a higher tier (or a human) reviews.
type Log struct {
	mu      sync.Mutex
	entries []LogEntry
}

// Append adds an entry.
func (l *Log) Append(entry LogEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, entry)
}

// Entries returns a copy of the recorded entries.
func (l *Log) Entries() []LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]LogEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Ledger tracks allocations against the total budget of the single active
// strategy record.
type Ledger struct {
	mu          sync.Mutex
	totalBudget float64
	allocated   float64
}

// NewLedger creates a ledger for the given total budget.
func NewLedger(totalBudget float64) *Ledger {
	return &Ledger{totalBudget: totalBudget}
}

// Remaining returns total budget minus allocations so far.
func (l *Ledger) Remaining() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.totalBudget - l.allocated
}

// Allocate reserves amount. It fails when the remaining budget is short.
func (l *Ledger) Allocate(amount float64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if amount > l.totalBudget-l.allocated {
		return fmt.Errorf("allocation %.2f exceeds remaining budget %.2f", amount, l.totalBudget-l.allocated)
	}
	l.allocated += amount
	return nil
}

// Total returns the ledger's total budget.
func (l *Ledger) Total() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.totalBudget
}

// Policy is the per-role approval rule set. Ledger is optional: management
// nodes check only their cap, strategic nodes also check remaining budget.
type Policy struct {
	AuthorityCap float64
	Ledger       *Ledger
	Log          *Log

	logger *zap.Logger
	now    func() time.Time
}

// NewPolicy creates a policy with the given authority cap. ledger may be nil.
func NewPolicy(cap float64, ledger *Ledger, logger *zap.Logger) *Policy {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Policy{
		AuthorityCap: cap,
		Ledger:       ledger,
		Log:          &Log{},
		logger:       logger.With(zap.String("component", "escalation")),
		now:          time.Now,
	}
}

// Decide applies the decision table:
//
//	amount > cap                          → ESCALATED (entry recorded)
//	amount ≤ cap, objective missing       → REJECTED
//	amount ≤ cap, amount > remaining      → REJECTED (shortfall named)
//	amount ≤ cap, minor details missing   → CONDITIONAL (follow-ups listed)
//	otherwise                             → APPROVED
//
// Decide never mutates the ledger; callers allocate on APPROVED.
func (p *Policy) Decide(req ApprovalRequest) Decision {
	if req.Amount > p.AuthorityCap {
		entry := LogEntry{
			ID:        req.ID,
			Amount:    req.Amount,
			Reason:    fmt.Sprintf("requested %.2f exceeds authority cap %.2f", req.Amount, p.AuthorityCap),
			Timestamp: p.now(),
		}
		p.Log.Append(entry)
		p.logger.Info("request escalated",
			zap.String("request_id", req.ID),
			zap.Float64("amount", req.Amount),
			zap.Float64("cap", p.AuthorityCap),
		)
		return Decision{Status: StatusEscalated, Reason: entry.Reason, Entry: &entry}
	}

	if req.Objective == "" {
		return Decision{Status: StatusRejected, Reason: "missing required field: objective"}
	}

	if p.Ledger != nil {
		if remaining := p.Ledger.Remaining(); req.Amount > remaining {
			return Decision{
				Status: StatusRejected,
				Reason: fmt.Sprintf("requested %.2f exceeds remaining budget %.2f", req.Amount, remaining),
			}
		}
	}

	var conditions []string
	if len(req.Channels) == 0 {
		conditions = append(conditions, "define target channels")
	}
	if len(req.Resources) == 0 {
		conditions = append(conditions, "confirm resource assignments")
	}
	if len(conditions) > 0 {
		return Decision{Status: StatusConditional, Reason: "minor details missing", Conditions: conditions}
	}

	return Decision{Status: StatusApproved}
}
