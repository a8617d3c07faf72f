/*
Package randx provides functions for generating cryptographically secure random identifiers.

It is used for chat message IDs, document IDs, opaque server-side session IDs, and the
visitor IDs that key the landing-page navigation state.
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

	// SessionIDLength is the fixed length of server-side session identifiers.
	SessionIDLength = 24

	// VisitorIDLength is the fixed length of anonymous visitor identifiers.
	VisitorIDLength = 16
)

// base62String generates a Base62 string of the given length using crypto/rand.
func base62String(length int) (string, error) {
	result := make([]byte, length)

	for i := 0; i < length; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(Base62Len))
		if err != nil {
			return "", fmt.Errorf("failed to generate random number: %v", err)
		}

		result[i] = Base62Chars[num.Int64()]
	}

	return string(result), nil
}

// SessionID generates an opaque Base62 identifier for a server-side session.
func SessionID() (string, error) {
	return base62String(SessionIDLength)
}

// VisitorID generates an opaque Base62 identifier for an anonymous landing-page visitor.
func VisitorID() (string, error) {
	return base62String(VisitorIDLength)
}

// MessageID generates a standard UUID v4 string to serve as a unique identifier for a chat message.
func MessageID() string {
	return uuid.New().String()
}

// DocumentID generates a standard UUID v4 string to serve as a unique identifier for a generated document.
func DocumentID() string {
	return uuid.New().String()
}

// IsValidBase62ID checks that the given string has the expected length and draws
// only from the Base62 character set.
func IsValidBase62ID(id string, length int) bool {
	if len(id) != length {
		return false
	}

	for _, char := range id {
		if !strings.ContainsRune(Base62Chars, char) {
			return false
		}
	}

	return true
}
