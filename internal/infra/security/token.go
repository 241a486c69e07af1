package security

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// RandomTokenGenerator issues opaque bearer tokens from crypto/rand bytes,
// URL-safe base64 encoded. Size is the number of random bytes, not the
// encoded length.
type RandomTokenGenerator struct {
	Size int
}

func (g RandomTokenGenerator) NewToken() (string, error) {
	size := g.Size
	if size <= 0 {
		size = 32
	}
	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("security: reading token entropy: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
