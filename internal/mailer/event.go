package mailer

import "fmt"

// TopicEmailRequested carries queued transactional emails. Sending runs
// as its own background task, decoupled from the request that caused it.
const TopicEmailRequested = "email.requested"

// EmailRequestedEvent is a queued transactional email.
type EmailRequestedEvent struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

// WelcomeEmail builds the registration welcome email.
func WelcomeEmail(to, name string) EmailRequestedEvent {
	return EmailRequestedEvent{
		To:      to,
		Subject: "Welcome to nuturl!",
		HTML: fmt.Sprintf(
			"<h1>Hello, %s!</h1><p>Your account was created successfully.</p><p>Start shortening links right away.</p>",
			name,
		),
	}
}

// PaymentApprovedEmail builds the premium upgrade confirmation email.
func PaymentApprovedEmail(to string) EmailRequestedEvent {
	return EmailRequestedEvent{
		To:      to,
		Subject: "Payment approved!",
		HTML:    "<h1>You are now Premium!</h1><p>Thank you for supporting nuturl.</p><p>Open your dashboard to see your new features.</p>",
	}
}
