// Package clock provides a tiny time abstraction.
//
// OTP issuance depends on wall-clock time. Code should depend on the Clocker
// interface instead of calling time.Now() so the validity window can be
// pinned to an exact second in tests.
package clock
