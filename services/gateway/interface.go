package gateway

import "context"

// MessageGateway delivers one rendered message to a canonicalized phone
// number and reports the provider's delivery id. Implementations must
// bound each call with a timeout; a failed send is always retryable by a
// later dispatch.
type MessageGateway interface {
	Send(ctx context.Context, to, body string) (string, error)
}
