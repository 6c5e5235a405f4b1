package instrument

import "context"

type correlationIDKey struct{}

// SetCorrelationID stores a correlation ID in the context so downstream
// logs and outgoing messages can carry it.
func SetCorrelationID(ctx context.Context, cID string) context.Context {
	return context.WithValue(ctx, correlationIDKey{}, cID)
}

// GetCorrelationID returns the correlation ID stored in the context, or
// an empty string when none is set.
func GetCorrelationID(ctx context.Context) string {
	cID, ok := ctx.Value(correlationIDKey{}).(string)
	if !ok {
		return ""
	}

	return cID
}
