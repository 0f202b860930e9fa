package notification

import "context"

// Sender delivers a rendered message to its single recipient.
// Implementations open and close their own transport session per call.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}
