package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Identity is the case-normalized key under which a person is enrolled and may
// vote. It is unique across the template store and the vote ledger, so all
// entry points must go through ParseIdentity rather than passing raw strings.
type Identity string

const maxIdentityLength = 128

var ErrInvalidIdentity = errors.New("invalid identity")

// ParseIdentity normalizes a raw voter name or ID: trims surrounding
// whitespace and lowercases, matching how enrollments are keyed on disk.
func ParseIdentity(raw string) (Identity, error) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	if normalized == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidIdentity)
	}
	if len(normalized) > maxIdentityLength {
		return "", fmt.Errorf("%w: longer than %d characters", ErrInvalidIdentity, maxIdentityLength)
	}
	// Identities key template files on disk, so the charset stays narrow.
	for _, r := range normalized {
		if !validIdentityRune(r) {
			return "", fmt.Errorf("%w: character %q not allowed", ErrInvalidIdentity, r)
		}
	}
	return Identity(normalized), nil
}

func validIdentityRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
		return true
	case r == ' ', r == '.', r == '_', r == '-':
		return true
	default:
		return false
	}
}

func (i Identity) String() string { return string(i) }
