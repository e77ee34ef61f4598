package sms

import "context"

// Message is a single outbound text message.
type Message struct {
	To   string
	From string
	Body string
}

// Client defines an interface for sending SMS through a messaging provider.
// This keeps the dispatch logic independent of the provider SDK.
type Client interface {
	// Send hands the message to the provider and returns the provider's message id.
	Send(ctx context.Context, msg Message) (string, error)
}
