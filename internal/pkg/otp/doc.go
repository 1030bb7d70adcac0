// Package otp generates time-based one-time passwords (RFC 6238) and reports
// how long the current code stays valid.
package otp
