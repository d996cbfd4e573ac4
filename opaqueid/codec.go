// Package opaqueid encodes 128-bit identifiers into URL-safe tokens so raw
// UUIDs never appear in request paths or responses.
//
// The encoding is base32hex without padding over the 16 raw UUID bytes,
// which yields a fixed 26 character token drawn from a case-insensitive
// alphabet. It is a reversible encoding, NOT encryption: it only removes the
// obvious sequential look of ids, it does not make them confidential.
package opaqueid

import (
	"encoding/base32"
	"strings"

	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// EncodedLength is the length of every token produced by Encode:
// ceil(16 bytes * 8 / 5 bits) with padding stripped.
const EncodedLength = 26

var encoding = base32.HexEncoding.WithPadding(base32.NoPadding)

// ErrInvalidLength is returned when a token cannot correspond to 128 bits.
var ErrInvalidLength = errors.New("opaque id has invalid length", errors.CategoryBadInput).
	WithTextCode("OPAQUE_ID_INVALID_LENGTH")

// ErrInvalidAlphabet is returned when a token carries characters outside the
// base32hex alphabet.
var ErrInvalidAlphabet = errors.New("opaque id has invalid characters", errors.CategoryBadInput).
	WithTextCode("OPAQUE_ID_INVALID_ALPHABET")

// Encode returns the opaque token for the given identifier. It is pure and
// total: every UUID maps to exactly one 26 character token.
func Encode(id uuid.UUID) string {
	return encoding.EncodeToString(id[:])
}

// Decode recovers the identifier from an opaque token. The alphabet is case
// insensitive so tokens survive clients that lowercase URLs.
func Decode(token string) (uuid.UUID, error) {
	if len(token) != EncodedLength {
		return uuid.Nil, ErrInvalidLength
	}

	raw, err := encoding.DecodeString(strings.ToUpper(token))
	if err != nil {
		return uuid.Nil, ErrInvalidAlphabet
	}

	id, err := uuid.FromBytes(raw)
	if err != nil {
		return uuid.Nil, ErrInvalidLength
	}

	return id, nil
}
