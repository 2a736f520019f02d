package mailer

import "context"

// Message is an outbound email.
type Message struct {
	ToName    string
	ToAddress string
	Subject   string
	TextBody  string
	HTMLBody  string
}

// Mailer delivers messages through a configured provider.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}
