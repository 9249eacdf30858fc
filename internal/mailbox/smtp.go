// internal/mailbox/smtp.go
package mailbox

import (
	"context"
	"strings"

	"gopkg.in/gomail.v2"

	apperrors "prospector/internal/common/errors"
)

// SMTPSender delivers through a plain SMTP relay.
type SMTPSender struct {
	host string
	port int
	user string
	pass string
	from string
}

func NewSMTPSender(host string, port int, user, pass, from string) *SMTPSender {
	return &SMTPSender{host: host, port: port, user: user, pass: pass, from: from}
}

func (s *SMTPSender) CreateDraft(_ context.Context, msg Message) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", strings.ReplaceAll(msg.Body, "\n", "<br>"))

	d := gomail.NewDialer(s.host, s.port, s.user, s.pass)
	if err := d.DialAndSend(m); err != nil {
		return apperrors.NewMailboxDraftFailedError(err)
	}
	return nil
}
