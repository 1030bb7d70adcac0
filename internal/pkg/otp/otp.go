package otp

import (
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

// OTP defines the contract for TOTP operations.
type OTP interface {
	// GenerateCode creates a TOTP code for the given secret and time.
	GenerateCode(secret string, at time.Time) (string, error)
	// Remaining returns the seconds left in the time step containing at.
	Remaining(at time.Time) uint
}

// TOTP implements OTP using the Time-based One-Time Password algorithm with
// HMAC-SHA1.
type TOTP struct {
	period uint
	digits otp.Digits
}

// NewTOTP constructs a TOTP instance.
//
// If digits is not 6 or 8, it falls back to 6 digits. If period is 0, it uses
// the common 30-second period.
func NewTOTP(period uint, digits otp.Digits) *TOTP {
	if digits != otp.DigitsSix && digits != otp.DigitsEight {
		digits = otp.DigitsSix
	}

	if period == 0 {
		period = 30
	}

	return &TOTP{period: period, digits: digits}
}

func (o *TOTP) opts() totp.ValidateOpts {
	return totp.ValidateOpts{
		Period:    o.period,
		Digits:    o.digits,
		Algorithm: otp.AlgorithmSHA1,
	}
}

// GenerateCode creates a TOTP code for the given secret and time.
//
// The secret is base32; an undecodable secret returns an error.
func (o *TOTP) GenerateCode(secret string, at time.Time) (string, error) {
	return totp.GenerateCodeCustom(secret, at, o.opts())
}

// Remaining returns period - (unix mod period), which is always in [1, period].
// The modulo is floored, so times before the epoch count down the same way.
func (o *TOTP) Remaining(at time.Time) uint {
	p := int64(o.period)
	return o.period - uint((at.Unix()%p+p)%p)
}
