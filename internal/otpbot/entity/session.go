package entity

// SessionState is where a user is in the OTP conversation.
type SessionState int8

const (
	// StateIdle means no conversation is open. It is also the state of users
	// the store has never seen.
	StateIdle SessionState = iota
	// StateAwaitingEmail means /getotp was received and the next plain text
	// is treated as an email address.
	StateAwaitingEmail
)

func (s SessionState) String() string {
	switch s {
	case StateAwaitingEmail:
		return "awaiting_email"
	default:
		return "idle"
	}
}
