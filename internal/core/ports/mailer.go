package ports

import "context"

// VerificationMail is the message sent to confirm an e-mail address.
type VerificationMail struct {
	Email string
	Token string
}

// Mailer delivers verification mail.
type Mailer interface {
	SendVerification(ctx context.Context, mail VerificationMail) error
}

// MailQueue accepts verification mail for asynchronous delivery.
type MailQueue interface {
	Enqueue(mail VerificationMail)
}
