// Copyright (c) 2026 Pet Clinic Backend contributors. All rights reserved.

/*
Package notify implements the outbound email sink for the clinic backend.

It provides a plain-SMTP mailer for production and a log-only mailer for
development setups without mail credentials.

# Architecture

Callers depend on their own narrow Send contract; this package only supplies
implementations. Delivery is best-effort: the clinic never retries or queues,
and callers are expected to treat failures as non-fatal.
*/
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"
)

// SMTPMailer delivers plain-text mail through a single SMTP relay.
type SMTPMailer struct {
	host     string
	port     int
	username string
	password string
	from     string
}

// NewSMTPMailer constructs an [SMTPMailer] for the given relay.
//
// # Parameters
//   - host, port: The SMTP relay endpoint.
//   - username, password: PLAIN auth credentials; empty username disables auth.
//   - from: The clinic's sender address.
func NewSMTPMailer(host string, port int, username, password, from string) *SMTPMailer {
	return &SMTPMailer{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}
}

/*
Send delivers a single plain-text message.

Description: Builds an RFC 822 message and submits it in one SMTP
transaction. The context deadline is honored up-front; smtp.SendMail itself
is not cancellable mid-flight.

Parameters:
  - context: context.Context
  - to: string
  - subject: string
  - body: string

Returns:
  - error: Relay connectivity or submission failures
*/
func (mailer *SMTPMailer) Send(context context.Context, to, subject, body string) error {
	if err := context.Err(); err != nil {
		return fmt.Errorf("notify_send_cancelled: %w", err)
	}

	message := buildMessage(mailer.from, to, subject, body)
	address := fmt.Sprintf("%s:%d", mailer.host, mailer.port)

	var authentication smtp.Auth
	if mailer.username != "" {
		authentication = smtp.PlainAuth("", mailer.username, mailer.password, mailer.host)
	}

	if err := smtp.SendMail(address, authentication, mailer.from, []string{to}, message); err != nil {
		return fmt.Errorf("notify_smtp_send_failed: %w", err)
	}

	return nil
}

// buildMessage assembles an RFC 822 plain-text message.
func buildMessage(from, to, subject, body string) []byte {
	var builder strings.Builder
	builder.WriteString("From: " + from + "\r\n")
	builder.WriteString("To: " + to + "\r\n")
	builder.WriteString("Subject: " + subject + "\r\n")
	builder.WriteString("MIME-Version: 1.0\r\n")
	builder.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	builder.WriteString("\r\n")
	builder.WriteString(body)
	return []byte(builder.String())
}

// LogMailer writes would-be messages to the structured log instead of a
// relay. Used when no SMTP host is configured.
type LogMailer struct {
	logger *slog.Logger
}

// NewLogMailer constructs a [LogMailer].
func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

// Send logs the message instead of delivering it.
func (mailer *LogMailer) Send(_ context.Context, to, subject, _ string) error {
	mailer.logger.Info("notify_mail_logged",
		slog.String("to", to),
		slog.String("subject", subject),
	)
	return nil
}
