package request

import (
	"fmt"
	"strings"

	"github.com/adoptly/service-adoption/internal/domain"
)

// Status is the lifecycle state of an adoption request. Besides the known
// values, callers may store any non-empty string; unknown values are opaque.
type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

var knownStatuses = map[Status]struct{}{
	StatusPending:  {},
	StatusAccepted: {},
	StatusRejected: {},
}

// IsKnown returns true for pending, accepted and rejected.
func (s Status) IsKnown() bool {
	_, ok := knownStatuses[s]
	return ok
}

// IsTerminal returns true for accepted and rejected. Terminal statuses are
// not locked: any status may still be replaced by any other.
func (s Status) IsTerminal() bool {
	return s == StatusAccepted || s == StatusRejected
}

// TriggersReconciliation returns true only for the literal accepted value.
func (s Status) TriggersReconciliation() bool {
	return s == StatusAccepted
}

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// ParseStatus accepts any non-empty status string.
func ParseStatus(s string) (Status, error) {
	if strings.TrimSpace(s) == "" {
		return "", domain.NewValidationError("status must not be empty")
	}
	return Status(s), nil
}

// ReacceptPolicy decides whether an update from accepted to accepted runs
// inventory reconciliation again.
type ReacceptPolicy string

const (
	// ReacceptSkip leaves inventory untouched when an accepted request is accepted again.
	ReacceptSkip ReacceptPolicy = "skip"
	// ReacceptAllow reconciles on every update that targets accepted.
	ReacceptAllow ReacceptPolicy = "allow"
)

// ParseReacceptPolicy converts a config value into a ReacceptPolicy.
func ParseReacceptPolicy(s string) (ReacceptPolicy, error) {
	switch p := ReacceptPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case ReacceptSkip, ReacceptAllow:
		return p, nil
	case "":
		return ReacceptSkip, nil
	default:
		return "", fmt.Errorf("invalid reaccept policy: %s", s)
	}
}

// NeedsReconciliation reports whether moving from current to target must
// run the inventory reconciler.
func (p ReacceptPolicy) NeedsReconciliation(current, target Status) bool {
	if !target.TriggersReconciliation() {
		return false
	}
	if current == StatusAccepted && p != ReacceptAllow {
		return false
	}
	return true
}
