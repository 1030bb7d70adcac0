package entity

// OTPResult is a freshly generated code and the seconds left in its window.
type OTPResult struct {
	Code             string
	SecondsRemaining uint
}
