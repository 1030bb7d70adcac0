package entity

// Outcome classifies how a message was handled. Failures such as an unknown
// email are outcomes, not errors.
type Outcome int8

const (
	OutcomeIgnored Outcome = iota
	OutcomeGreeted
	OutcomePrompted
	OutcomeCancelled
	OutcomeInvalidEmail
	OutcomeNotRegistered
	OutcomeExpiring
	OutcomeIssued
	OutcomeIssueFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeGreeted:
		return "greeted"
	case OutcomePrompted:
		return "prompted"
	case OutcomeCancelled:
		return "cancelled"
	case OutcomeInvalidEmail:
		return "invalid_email"
	case OutcomeNotRegistered:
		return "not_registered"
	case OutcomeExpiring:
		return "expiring"
	case OutcomeIssued:
		return "issued"
	case OutcomeIssueFailed:
		return "issue_failed"
	default:
		return "ignored"
	}
}

// IsEmailSubmission reports whether the outcome came from handling an email.
func (o Outcome) IsEmailSubmission() bool {
	switch o {
	case OutcomeInvalidEmail, OutcomeNotRegistered, OutcomeExpiring, OutcomeIssued, OutcomeIssueFailed:
		return true
	default:
		return false
	}
}
