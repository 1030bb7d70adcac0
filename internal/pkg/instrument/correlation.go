package instrument

import "context"

type correlationKey struct{}

// SetCorrelationID returns a copy of ctx carrying the correlation id.
func SetCorrelationID(ctx context.Context, cID string) context.Context {
	return context.WithValue(ctx, correlationKey{}, cID)
}

// GetCorrelationID returns the correlation id stored in ctx, or "".
func GetCorrelationID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	cID, _ := ctx.Value(correlationKey{}).(string)
	return cID
}
