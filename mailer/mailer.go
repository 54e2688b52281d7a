// Package mailer is the best-effort email side-channel. Sends run in their
// own goroutine; failures are logged and never reach the caller.
package mailer

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"

	"assetdesk/config"
)

type Mailer struct {
	host     string
	port     string
	user     string
	password string
	from     string
	itInbox  string
}

func NewFromConfig() *Mailer {
	return &Mailer{
		host:     config.SMTPHost,
		port:     config.SMTPPort,
		user:     config.SMTPUser,
		password: config.SMTPPassword,
		from:     config.SMTPFrom,
		itInbox:  config.ITInboxEmail,
	}
}

// Enabled reports whether SMTP is configured at all.
func (m *Mailer) Enabled() bool {
	return m != nil && m.host != "" && m.from != ""
}

// Send fires an email without blocking the caller. recipientOverride falls
// back to the IT inbox; alternate selects the plain notification template
// instead of the workflow one.
func (m *Mailer) Send(subject, body, link, recipientOverride string, alternate bool) {
	if !m.Enabled() {
		return
	}
	recipient := recipientOverride
	if recipient == "" {
		recipient = m.itInbox
	}
	if recipient == "" {
		return
	}

	go func() {
		msg := m.compose(subject, body, link, recipient, alternate)
		addr := m.host + ":" + m.port
		var auth smtp.Auth
		if m.user != "" {
			auth = smtp.PlainAuth("", m.user, m.password, m.host)
		}
		if err := smtp.SendMail(addr, auth, m.from, []string{recipient}, msg); err != nil {
			log.Printf("mailer: send %q to %s failed: %v", subject, recipient, err)
		}
	}()
}

func (m *Mailer) compose(subject, body, link, recipient string, alternate bool) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", m.from)
	fmt.Fprintf(&b, "To: %s\r\n", recipient)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n")
	if alternate {
		b.WriteString(body)
	} else {
		b.WriteString(body)
		if link != "" {
			fmt.Fprintf(&b, "\r\n\r\nOpen: %s", link)
		}
		b.WriteString("\r\n\r\n-- AssetDesk")
	}
	b.WriteString("\r\n")
	return []byte(b.String())
}
