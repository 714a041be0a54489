package notification

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-booking/internal/config"
)

// Gateway delivers one html email.
type Gateway interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// NewGateway picks SMTP when configured, otherwise a gateway that only logs.
func NewGateway(cfg config.SMTPConfig, log *zap.Logger) Gateway {
	if !cfg.Enabled() {
		log.Info("smtp not configured, emails will be logged only")
		return NewLogGateway(log)
	}
	return NewSMTPGateway(cfg)
}

// ===============================
// SMTP
// ===============================

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type SMTPGateway struct {
	addr string
	from string
	auth smtp.Auth
	send sendFunc
}

func NewSMTPGateway(cfg config.SMTPConfig) *SMTPGateway {
	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	return &SMTPGateway{
		addr: cfg.Host + ":" + cfg.Port,
		from: cfg.From,
		auth: auth,
		send: smtp.SendMail,
	}
}

// Send gives up when ctx ends; the dial may still finish in the background.
func (g *SMTPGateway) Send(ctx context.Context, to, subject, htmlBody string) error {
	to = stripCRLF(to)
	if to == "" {
		return fmt.Errorf("empty recipient")
	}
	msg := buildMessage(g.from, to, stripCRLF(subject), htmlBody)

	done := make(chan error, 1)
	go func() {
		done <- g.send(g.addr, g.auth, g.from, []string{to}, msg)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("smtp send to %s: %w", to, err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func buildMessage(from, to, subject, body string) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}

func stripCRLF(s string) string {
	return strings.TrimSpace(strings.NewReplacer("\r", "", "\n", "").Replace(s))
}

// ===============================
// Log only
// ===============================

type LogGateway struct {
	log *zap.Logger
}

func NewLogGateway(log *zap.Logger) *LogGateway {
	return &LogGateway{log: log}
}

func (g *LogGateway) Send(_ context.Context, to, subject, _ string) error {
	g.log.Info("email not sent (smtp disabled)",
		zap.String("to", to),
		zap.String("subject", subject),
	)
	return nil
}

// ===============================
// In memory
// ===============================

type Message struct {
	To      string
	Subject string
	Body    string
}

// MemoryGateway records every attempt. Err, when set, is returned for each send.
type MemoryGateway struct {
	mu   sync.Mutex
	sent []Message
	Err  error
}

func (g *MemoryGateway) Send(_ context.Context, to, subject, htmlBody string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sent = append(g.sent, Message{To: to, Subject: subject, Body: htmlBody})
	return g.Err
}

func (g *MemoryGateway) Sent() []Message {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]Message, len(g.sent))
	copy(out, g.sent)
	return out
}
