package mail

import (
	"context"
	"errors"
	"strings"

	gomail "gopkg.in/gomail.v2"

	"github.com/siraq-studio/api/internal/platform/config"
)

var (
	// ErrNotConfigured indicates the sender was constructed without SMTP settings.
	ErrNotConfigured = errors.New("mail: smtp transport not configured")
	errEmptyMessage  = errors.New("mail: message has no recipient or subject")
)

// Message is a rendered email ready for delivery.
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// Dialer abstracts the SMTP transport so tests can substitute a fake.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// Sender delivers notification email over SMTP.
type Sender struct {
	dialer Dialer
	from   string
	to     string
}

// SenderOption customises Sender construction.
type SenderOption func(*Sender)

// WithDialer replaces the SMTP dialer (primarily for tests).
func WithDialer(d Dialer) SenderOption {
	return func(s *Sender) {
		if d != nil {
			s.dialer = d
		}
	}
}

// NewSender builds a Sender from the mail configuration.
func NewSender(cfg config.MailConfig, opts ...SenderOption) (*Sender, error) {
	sender := &Sender{
		from: strings.TrimSpace(cfg.From),
		to:   strings.TrimSpace(cfg.To),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(sender)
		}
	}

	if sender.dialer == nil {
		host := strings.TrimSpace(cfg.Host)
		if host == "" || cfg.Port <= 0 {
			return nil, ErrNotConfigured
		}
		sender.dialer = gomail.NewDialer(host, cfg.Port, cfg.Username, cfg.Password)
	}
	if sender.from == "" {
		sender.from = strings.TrimSpace(cfg.Username)
	}
	return sender, nil
}

// Send delivers the message, honouring context cancellation. SMTP delivery is
// not interruptible mid-flight, so cancellation abandons the attempt rather
// than aborting the connection.
func (s *Sender) Send(ctx context.Context, msg Message) error {
	if s == nil || s.dialer == nil {
		return ErrNotConfigured
	}

	to := strings.TrimSpace(msg.To)
	if to == "" {
		to = s.to
	}
	if to == "" || strings.TrimSpace(msg.Subject) == "" {
		return errEmptyMessage
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", msg.Subject)
	if msg.Text != "" {
		m.SetBody("text/plain", msg.Text)
		if msg.HTML != "" {
			m.AddAlternative("text/html", msg.HTML)
		}
	} else {
		m.SetBody("text/html", msg.HTML)
	}

	done := make(chan error, 1)
	go func() {
		done <- s.dialer.DialAndSend(m)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		return err
	}
}
