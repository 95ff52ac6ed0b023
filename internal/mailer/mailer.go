// Package mailer delivers finished reports over SMTP.
package mailer

import (
	"context"
	"fmt"
	"strings"

	"github.com/wneessen/go-mail"
)

const subject = "RESPONSE: Analysis Report of GitRepo via TechStack Governance"

const body = `Hello,

Report generated. Attaching the code analysis report.
`

const signature = `
Regards
@TechStackGovernance
`

// Mailer sends a report as an attachment. A zero sender or empty
// recipient list disables delivery.
type Mailer struct {
	Sender     string
	Recipients []string
	CC         string

	Host     string
	Port     int
	Password string
}

func New(sender string, recipients []string, cc, host string, port int, password string) *Mailer {
	return &Mailer{
		Sender:     sender,
		Recipients: recipients,
		CC:         cc,
		Host:       host,
		Port:       port,
		Password:   password,
	}
}

// Enabled reports whether the mailer has enough configuration to send.
func (m *Mailer) Enabled() bool {
	return strings.TrimSpace(m.Sender) != "" && len(m.Recipients) > 0
}

// SendReport mails the report at path, with note appended to the body.
func (m *Mailer) SendReport(ctx context.Context, path, note string) error {
	if !m.Enabled() {
		return fmt.Errorf("mailer: sender or recipients not configured")
	}
	msg, err := m.draft(path, note)
	if err != nil {
		return err
	}

	opts := []mail.Option{
		mail.WithPort(m.Port),
		mail.WithSSL(),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.Sender),
		mail.WithPassword(m.Password),
	}
	client, err := mail.NewClient(m.Host, opts...)
	if err != nil {
		return fmt.Errorf("mailer: client setup: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("mailer: send: %w", err)
	}
	return nil
}

func (m *Mailer) draft(path, note string) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(m.Sender); err != nil {
		return nil, fmt.Errorf("mailer: sender address: %w", err)
	}
	if err := msg.To(m.Recipients...); err != nil {
		return nil, fmt.Errorf("mailer: recipient address: %w", err)
	}
	if m.CC != "" {
		if err := msg.Cc(m.CC); err != nil {
			return nil, fmt.Errorf("mailer: cc address: %w", err)
		}
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body+note+signature)
	if path != "" {
		msg.AttachFile(path)
	}
	return msg, nil
}
