package mailer

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/hiringtools/cv-screener/internal/screening"
	"github.com/hiringtools/cv-screener/internal/secrets"
)

// Config holds the outbound mail settings.
type Config struct {
	Enabled      bool   `mapstructure:"enabled"`
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	Username     string `mapstructure:"username"`
	Password     string `mapstructure:"password"`
	PasswordFile string `mapstructure:"password-file"`
	From         string `mapstructure:"from"`
}

// Validate checks the settings needed before any batch starts. A disabled
// dispatcher is always valid.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if strings.TrimSpace(c.Host) == "" {
		return fmt.Errorf("mail host is required when mail is enabled")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("mail port must be between 1 and 65535")
	}
	if strings.TrimSpace(c.From) == "" {
		return fmt.Errorf("mail sender address is required when mail is enabled")
	}
	if _, err := c.password(); err != nil {
		return err
	}
	return nil
}

func (c *Config) password() (string, error) {
	return secrets.Load(secrets.Source{
		Name:  "smtp password",
		Value: c.Password,
		File:  c.PasswordFile,
	})
}

// Message is one composed outbound mail.
type Message struct {
	From    string
	To      string
	Subject string
	Body    string
}

// Credentials are resolved per send rather than cached, so rotated
// passwords take effect mid-batch.
type Credentials struct {
	Host     string
	Port     int
	Username string
	Password string
}

// Transport submits a composed message to the mail relay.
type Transport interface {
	Send(ctx context.Context, creds Credentials, msg Message) error
}

// Dispatcher composes and sends the decision mail for a screening record.
// It implements screening.Notifier.
type Dispatcher struct {
	config    *Config
	transport Transport
	logger    *zap.Logger
}

func NewDispatcher(config *Config, transport Transport, logger *zap.Logger) *Dispatcher {
	if transport == nil {
		transport = &SMTPTransport{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Dispatcher{
		config:    config,
		transport: transport,
		logger:    logger,
	}
}

// Notify branches strictly on the record's shortlisted status and delivers
// the matching message. It never panics or propagates transport errors:
// every path reports an outcome and the batch moves on.
func (d *Dispatcher) Notify(ctx context.Context, rec screening.Record) screening.NotifyOutcome {
	if d.config == nil || !d.config.Enabled {
		return skipped("disabled")
	}

	var msg Message
	switch rec.ShortlistedStatus {
	case screening.StatusAccept:
		msg = composeAcceptance(rec)
	case screening.StatusReject:
		msg = composeRejection(rec)
	default:
		d.logger.Info("invalid shortlisted status, not sending",
			zap.String("status", rec.ShortlistedStatus),
			zap.String("candidate", rec.CandidateName),
		)
		return skipped("invalid_status")
	}

	if !isValidAddress(rec.CandidateEmailID) {
		return failed(fmt.Errorf("invalid recipient address: %q", rec.CandidateEmailID))
	}

	password, err := d.config.password()
	if err != nil {
		return failed(fmt.Errorf("resolving smtp password: %w", err))
	}

	msg.From = d.config.From
	msg.To = rec.CandidateEmailID

	creds := Credentials{
		Host:     d.config.Host,
		Port:     d.config.Port,
		Username: d.config.Username,
		Password: password,
	}

	if err := d.transport.Send(ctx, creds, msg); err != nil {
		return failed(fmt.Errorf("sending mail to %s: %w", msg.To, err))
	}

	return screening.NotifyOutcome{Status: screening.NotifySent}
}

func composeAcceptance(rec screening.Record) Message {
	return Message{
		Subject: fmt.Sprintf("Congratulations %s - You've been shortlisted!", rec.CandidateName),
		Body: fmt.Sprintf(`Dear %s,

We are pleased to inform you that you have been shortlisted for the position of %s.

Contact Information:
- Email: %s
- Phone: %s

Your score is: %s

Reason for Shortlisting:
%s

Congratulations once again, and we look forward to moving forward with the next steps in the hiring process.

Best Regards,
Hiring Team
`,
			rec.CandidateName,
			rec.JobTitle,
			rec.CandidateEmailID,
			rec.CandidateContactNo,
			strconv.FormatFloat(rec.Score, 'f', -1, 64),
			rec.ReasonForShortlistedStatus,
		),
	}
}

// composeRejection deliberately carries neither the score nor the reason.
func composeRejection(rec screening.Record) Message {
	return Message{
		Subject: fmt.Sprintf("Sorry %s - Your application status", rec.CandidateName),
		Body: fmt.Sprintf(`Dear %s,

Thank you for applying for the position of %s. Unfortunately, we regret to inform you that you have not been selected for the position.

We appreciate your time and interest in the role and encourage you to apply for future opportunities.

Best regards,
Hiring Team
`,
			rec.CandidateName,
			rec.JobTitle,
		),
	}
}

func isValidAddress(addr string) bool {
	addr = strings.TrimSpace(addr)
	parts := strings.Split(addr, "@")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return false
	}
	return strings.Contains(parts[1], ".")
}

func skipped(reason string) screening.NotifyOutcome {
	return screening.NotifyOutcome{Status: screening.NotifySkipped, Reason: reason}
}

func failed(err error) screening.NotifyOutcome {
	return screening.NotifyOutcome{Status: screening.NotifyFailed, Err: err}
}
