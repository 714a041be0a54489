package validators

import (
	"context"
	"net"
	"strings"
	"time"
)

// resolver is the part of *net.Resolver the domain check uses.
type resolver interface {
	LookupMX(ctx context.Context, name string) ([]*net.MX, error)
	LookupHost(ctx context.Context, host string) ([]string, error)
}

// EmailDomains checks that the domain of an address can receive mail: an MX
// record, or an address record as the implicit MX.
type EmailDomains struct {
	resolver resolver
	timeout  time.Duration
}

func NewEmailDomains(timeout time.Duration) *EmailDomains {
	return &EmailDomains{resolver: net.DefaultResolver, timeout: timeout}
}

func emailDomain(email string) string {
	at := strings.LastIndexByte(email, '@')
	if at <= 0 {
		return ""
	}
	d := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(email[at+1:])), ".")
	if !strings.Contains(d, ".") {
		return ""
	}
	return d
}

// Accepts has the func(string) bool shape account registration takes.
// Lookups that time out count as a rejection.
func (e *EmailDomains) Accepts(email string) bool {
	d := emailDomain(email)
	if d == "" {
		return false
	}

	ctx, cancel := context.WithTimeout(context.Background(), e.timeout)
	defer cancel()

	if mx, err := e.resolver.LookupMX(ctx, d); err == nil && len(mx) > 0 {
		return true
	}
	hosts, err := e.resolver.LookupHost(ctx, d)
	return err == nil && len(hosts) > 0
}
