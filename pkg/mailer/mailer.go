package mailer

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

type Message struct {
	Subject string
	Body    string
	From    string
	To      []string
}

// Mailer delivers plain-text mail.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

type SMTPOptions struct {
	Host     string
	Port     int
	Username string
	Password string
}

type smtpMailer struct {
	client *mail.Client
}

func NewSMTPMailer(opts SMTPOptions) (Mailer, error) {
	clientOpts := []mail.Option{
		mail.WithPort(opts.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if opts.Username != "" {
		clientOpts = append(clientOpts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(opts.Username),
			mail.WithPassword(opts.Password),
		)
	}

	client, err := mail.NewClient(opts.Host, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create smtp client: %w", err)
	}

	return &smtpMailer{client: client}, nil
}

func (m *smtpMailer) Send(ctx context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return fmt.Errorf("mail %q has no recipients", msg.Subject)
	}

	out := mail.NewMsg()
	if err := out.From(msg.From); err != nil {
		return fmt.Errorf("invalid sender %q: %w", msg.From, err)
	}
	if err := out.To(msg.To...); err != nil {
		return fmt.Errorf("invalid recipients: %w", err)
	}
	out.Subject(msg.Subject)
	out.SetBodyString(mail.TypeTextPlain, msg.Body)

	if err := m.client.DialAndSendWithContext(ctx, out); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}
	return nil
}

type logMailer struct {
	log *zap.Logger
}

// NewLogMailer writes every message to the log instead of sending it.
func NewLogMailer(log *zap.Logger) Mailer {
	return &logMailer{log: log}
}

func (m *logMailer) Send(_ context.Context, msg Message) error {
	m.log.Info("mail",
		zap.String("subject", msg.Subject),
		zap.String("from", msg.From),
		zap.Strings("to", msg.To),
		zap.String("body", msg.Body),
	)
	return nil
}
