package mailer

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strings"
)

// SMTPTransport delivers messages over an authenticated STARTTLS session
// to the configured relay.
type SMTPTransport struct{}

func (t *SMTPTransport) Send(ctx context.Context, creds Credentials, msg Message) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context cancelled before sending mail: %w", err)
	}

	addr := fmt.Sprintf("%s:%d", creds.Host, creds.Port)

	client, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("connecting to smtp server: %w", err)
	}
	defer client.Close()

	if err := client.StartTLS(&tls.Config{ServerName: creds.Host}); err != nil {
		return fmt.Errorf("starting tls: %w", err)
	}

	if creds.Username != "" {
		auth := smtp.PlainAuth("", creds.Username, creds.Password, creds.Host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("smtp authentication: %w", err)
		}
	}

	if err := client.Mail(msg.From); err != nil {
		return fmt.Errorf("setting sender: %w", err)
	}

	if err := client.Rcpt(msg.To); err != nil {
		return fmt.Errorf("setting recipient %s: %w", msg.To, err)
	}

	writer, err := client.Data()
	if err != nil {
		return fmt.Errorf("opening data writer: %w", err)
	}

	if _, err := writer.Write([]byte(buildMIME(msg))); err != nil {
		return fmt.Errorf("writing message: %w", err)
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("closing data writer: %w", err)
	}

	return client.Quit()
}

func buildMIME(msg Message) string {
	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("From: %s\r\n", msg.From))
	builder.WriteString(fmt.Sprintf("To: %s\r\n", msg.To))
	builder.WriteString(fmt.Sprintf("Subject: %s\r\n", msg.Subject))
	builder.WriteString("MIME-Version: 1.0\r\n")
	builder.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	builder.WriteString("\r\n")
	builder.WriteString(msg.Body)

	return builder.String()
}
