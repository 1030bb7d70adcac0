package event

const OTPRequestedDestination string = "otpbot.otp_requested"

// OTPRequestedMessage records one email submission. It never carries the
// issued code or the secret.
type OTPRequestedMessage struct {
	EventID          string `json:"event_id"`
	UserID           int64  `json:"user_id"`
	Email            string `json:"email"`
	Outcome          string `json:"outcome"`
	SecondsRemaining uint   `json:"seconds_remaining,omitempty"`
	OccurredAt       int64  `json:"occurred_at"`
}
