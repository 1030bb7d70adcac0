package usecase

import (
	"regexp"
	"strings"

	"github.com/samber/lo"
)

// EmailValidator accepts addresses whose domain is on an allow-list.
type EmailValidator struct {
	domains []string
	re      *regexp.Regexp
}

// NewEmailValidator builds a validator for the given domains. Domains are
// trimmed, lower-cased and de-duplicated; an empty list accepts nothing.
func NewEmailValidator(domains []string) *EmailValidator {
	domains = lo.Uniq(lo.Compact(lo.Map(domains, func(d string, _ int) string {
		return strings.ToLower(strings.TrimSpace(d))
	})))

	ev := &EmailValidator{domains: domains}
	if len(domains) == 0 {
		return ev
	}

	quoted := lo.Map(domains, func(d string, _ int) string { return regexp.QuoteMeta(d) })
	ev.re = regexp.MustCompile(`^[a-z0-9._%+-]+@(` + strings.Join(quoted, "|") + `)$`)

	return ev
}

// Valid reports whether text, trimmed and lower-cased, is an address on an
// allowed domain.
func (v *EmailValidator) Valid(text string) bool {
	if v.re == nil {
		return false
	}
	return v.re.MatchString(strings.ToLower(strings.TrimSpace(text)))
}

// Domains returns the allowed domains.
func (v *EmailValidator) Domains() []string {
	return v.domains
}
