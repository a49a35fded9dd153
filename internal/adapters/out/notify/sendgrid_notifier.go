// Package notify delivers outbox messages to recipients through SendGrid.
package notify

import (
	"context"
	"fmt"
	"net/http"

	"fulfillment/internal/core/domain/model/outbox"
	"fulfillment/internal/pkg/errs"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

const defaultHost = "https://api.sendgrid.com"

// SendGridNotifier implements Notifier on top of the SendGrid v3 mail API.
// It is stateless and safe for concurrent use.
type SendGridNotifier struct {
	apiKey    string
	host      string
	fromEmail string
	fromName  string
}

// Option customizes a SendGridNotifier.
type Option func(*SendGridNotifier)

// WithHost points the notifier at a different API host. Used by tests.
func WithHost(host string) Option {
	return func(n *SendGridNotifier) {
		n.host = host
	}
}

// NewSendGridNotifier creates a notifier that sends from the given address.
func NewSendGridNotifier(apiKey, fromEmail, fromName string, opts ...Option) (*SendGridNotifier, error) {
	if apiKey == "" {
		return nil, errs.NewValueIsRequiredError("apiKey")
	}
	if fromEmail == "" {
		return nil, errs.NewValueIsRequiredError("fromEmail")
	}

	notifier := &SendGridNotifier{
		apiKey:    apiKey,
		host:      defaultHost,
		fromEmail: fromEmail,
		fromName:  fromName,
	}
	for _, opt := range opts {
		opt(notifier)
	}

	return notifier, nil
}

// Send delivers one outbox message as a plain-text email. A non-2xx answer
// from SendGrid is an error so the dispatcher keeps the message pending.
func (n *SendGridNotifier) Send(ctx context.Context, message *outbox.Message) error {
	if err := message.Validate(); err != nil {
		return err
	}

	from := mail.NewEmail(n.fromName, n.fromEmail)
	to := mail.NewEmail("", message.Recipient())
	email := mail.NewSingleEmailPlainText(from, message.Subject(), to, message.Body())

	request := sendgrid.GetRequest(n.apiKey, "/v3/mail/send", n.host)
	request.Method = http.MethodPost
	request.Body = mail.GetRequestBody(email)

	response, err := sendgrid.MakeRequestWithContext(ctx, request)
	if err != nil {
		return fmt.Errorf("send %s to %s: %w", message.Kind(), message.Recipient(), err)
	}
	if response.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("send %s to %s: sendgrid status %d: %s",
			message.Kind(), message.Recipient(), response.StatusCode, response.Body)
	}

	return nil
}
