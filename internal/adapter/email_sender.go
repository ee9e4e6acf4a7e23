package adapter

// EmailSender is the Notification Sender: a thin adapter over the external
// mail transport. The raw token travels in the message body; transport
// failures propagate to the caller.
type EmailSender interface {
	SendVerificationEmail(to, rawToken string) error
	SendPasswordResetEmail(to, rawToken string) error
}
