// Package id generates Stripe-style public identifiers such as sub_4fK9mP2vL3nQ.
package id

import (
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
)

const (
	alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

	// DefaultLength gives about 71 bits of entropy.
	DefaultLength = 12

	// Bytes >= maxUnbiased are rejected so every symbol is equally likely.
	maxUnbiased = 256 - 256%len(alphabet)
)

const (
	PrefixSubscription = "sub"
)

var ErrInvalidID = errors.New("invalid prefixed ID")

// Generate returns a random Base62 string of length characters.
func Generate(length int) (string, error) {
	if length <= 0 {
		length = DefaultLength
	}

	result := make([]byte, 0, length)
	buf := make([]byte, length+length/2)
	for len(result) < length {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("failed to read random bytes: %w", err)
		}
		for _, b := range buf {
			if int(b) >= maxUnbiased {
				continue
			}
			result = append(result, alphabet[int(b)%len(alphabet)])
			if len(result) == length {
				break
			}
		}
	}

	return string(result), nil
}

// GenerateWithPrefix returns "prefix_random".
func GenerateWithPrefix(prefix string, length int) (string, error) {
	body, err := Generate(length)
	if err != nil {
		return "", err
	}
	return prefix + "_" + body, nil
}

// Parse splits a prefixed ID and checks that the body is Base62.
func Parse(prefixedID string) (prefix, body string, err error) {
	prefix, body, ok := strings.Cut(prefixedID, "_")
	if !ok || prefix == "" || body == "" {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidID, prefixedID)
	}
	if strings.Trim(body, alphabet) != "" {
		return "", "", fmt.Errorf("%w: %q has non Base62 characters", ErrInvalidID, prefixedID)
	}
	return prefix, body, nil
}

// ValidatePrefix checks that prefixedID is well formed and carries expectedPrefix.
func ValidatePrefix(prefixedID, expectedPrefix string) error {
	prefix, _, err := Parse(prefixedID)
	if err != nil {
		return err
	}
	if prefix != expectedPrefix {
		return fmt.Errorf("%w: expected prefix %s, got %s", ErrInvalidID, expectedPrefix, prefix)
	}
	return nil
}

// NewSubscriptionSID generates a new subscription SID (sub_xxx).
func NewSubscriptionSID() (string, error) {
	return GenerateWithPrefix(PrefixSubscription, DefaultLength)
}
