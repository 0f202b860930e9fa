// internal/domain/notification/shared_types.go
package notification

// Kind identifies which template a message was rendered from.
type Kind string

const (
	KindApproved      Kind = "APPROVED"
	KindRejected      Kind = "REJECTED"
	KindPendingReview Kind = "PENDING_REVIEW"
)

// Message is a rendered email ready for delivery. It is built per send and
// never stored.
type Message struct {
	Kind    Kind
	To      string
	Subject string
	Text    string
	HTML    string
}
