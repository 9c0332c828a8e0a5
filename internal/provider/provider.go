package provider

import "context"

// MaxBatchSize is the provider's upper bound on messages per call.
const MaxBatchSize = 100

// Sender is the from-identity applied to every message in a call.
type Sender struct {
	Email string
	Name  string
}

// Message is one fully rendered email ready for delivery.
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// SendOutcome is the provider's answer for one input position: a delivery
// identifier on success, an error description otherwise.
type SendOutcome struct {
	ProviderMessageID string
	Err               string
}

// OK reports whether the provider accepted the message.
func (o SendOutcome) OK() bool {
	return o.Err == "" && o.ProviderMessageID != ""
}

// Client is the outbound delivery port. Implementations must return exactly
// one outcome per input position when the call-level error is nil; if the
// underlying response cannot be mapped back to positions, they must return a
// call-level error instead so the caller can fail the whole chunk.
type Client interface {
	SendBatch(ctx context.Context, from Sender, messages []Message) ([]SendOutcome, error)
}
