package auth

import "time"

// Strategy issues and verifies staff API tokens.
type Strategy interface {
	IssueToken(staffID string) (string, error)
	ParseToken(token string) (string, error)
	Name() string
}

// Options tune token issuance.
type Options struct {
	TTL time.Duration
}
