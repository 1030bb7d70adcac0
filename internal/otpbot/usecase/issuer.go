package usecase

import (
	"github.com/shandysiswandi/otpbot/internal/otpbot/entity"
	"github.com/shandysiswandi/otpbot/internal/pkg/clock"
	"github.com/shandysiswandi/otpbot/internal/pkg/otp"
)

// Issuer generates the current TOTP code for a secret.
type Issuer struct {
	totp  otp.OTP
	clock clock.Clocker
}

// NewIssuer returns an Issuer reading time from clk.
func NewIssuer(totp otp.OTP, clk clock.Clocker) *Issuer {
	return &Issuer{totp: totp, clock: clk}
}

// Issue returns the code and seconds remaining at the current instant. ok is
// false when the secret cannot be decoded.
func (i *Issuer) Issue(secret string) (entity.OTPResult, bool) {
	now := i.clock.Now()

	code, err := i.totp.GenerateCode(secret, now)
	if err != nil {
		return entity.OTPResult{}, false
	}

	return entity.OTPResult{Code: code, SecondsRemaining: i.totp.Remaining(now)}, true
}
