// Package identity mints the two random tokens that identify a published page:
// a short public slug used in read URLs and a long edit secret that acts as the
// only mutation credential.
package identity

import (
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rotisserie/eris"
)

const (
	// Alphabet is the URL-safe character set tokens are drawn from.
	Alphabet = "_-0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

	// PublicSlugLength is the size of a public slug.
	PublicSlugLength = 12
	// EditSecretLength is the size of an edit secret.
	EditSecretLength = 32
)

// Generator produces public slugs and edit secrets.
type Generator interface {
	NewPublicSlug() (string, error)
	NewEditSecret() (string, error)
}

// NanoID draws tokens from crypto/rand through nanoid.
type NanoID struct{}

var _ Generator = NanoID{}

// NewPublicSlug returns a fresh 12 character slug.
func (NanoID) NewPublicSlug() (string, error) {
	slug, err := gonanoid.Generate(Alphabet, PublicSlugLength)
	if err != nil {
		return "", eris.Wrap(err, "generating public slug")
	}
	return slug, nil
}

// NewEditSecret returns a fresh 32 character edit secret.
func (NanoID) NewEditSecret() (string, error) {
	secret, err := gonanoid.Generate(Alphabet, EditSecretLength)
	if err != nil {
		return "", eris.Wrap(err, "generating edit secret")
	}
	return secret, nil
}

// IsWellFormed reports whether token has the given length and only uses Alphabet.
// Lookups use it to reject obviously bogus path values before touching the store.
func IsWellFormed(token string, length int) bool {
	if len(token) != length {
		return false
	}
	for _, r := range token {
		if !strings.ContainsRune(Alphabet, r) {
			return false
		}
	}
	return true
}
