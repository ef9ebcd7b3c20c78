/*
Package randx provides functions for generating cryptographically secure random strings and unique identifiers.

It is used to tag every outgoing API request with a correlation ID and to mint
signing secrets for short-lived test backends.
*/
package randx

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"github.com/google/uuid"
)

const (
	// Base62Chars defines the character set used for Base62 encoding (0-9, A-Z, a-z).
	Base62Chars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

	// Base62Len is the total number of characters in the Base62 character set (62).
	Base62Len = int64(len(Base62Chars))
)

// Base62 returns a random Base62 string of the given length drawn from crypto/rand.
func Base62(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("length must be positive, got %d", length)
	}

	result := make([]byte, length)

	for i := range length {
		num, err := rand.Int(rand.Reader, big.NewInt(Base62Len))
		if err != nil {
			return "", fmt.Errorf("failed to generate random number: %v", err)
		}

		result[i] = Base62Chars[num.Int64()]
	}

	return string(result), nil
}

// IsBase62 reports whether s is non-empty and consists only of Base62 characters.
func IsBase62(s string) bool {
	if s == "" {
		return false
	}
	for _, char := range s {
		if !strings.ContainsRune(Base62Chars, char) {
			return false
		}
	}
	return true
}

// RequestID generates a standard UUID v4 string used as the X-Request-ID of an outgoing request.
func RequestID() string {
	return uuid.New().String()
}
