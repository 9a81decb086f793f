// Package knol turns card content into a stable identity: a normalized
// text form, its SHA-256 hash, and an int64 derived from that hash for use
// as an fsrs.Card.CardID.
package knol

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/conorfennell/knolcards/internal/domain"
)

// Normalize concatenates the card's content after cleaning each part.
// It trims whitespace, lowercases, and normalizes line endings for each field
// before joining them.
func Normalize(content domain.CardContent) string {
	normalizePart := func(part string) string {
		p := strings.ToLower(part)
		p = strings.TrimSpace(p)
		p = strings.ReplaceAll(p, "\r\n", "\n")
		return p
	}

	q := normalizePart(content.Question)
	a := normalizePart(content.Answer)
	c := normalizePart(content.Context)

	// Joined with newlines so adjacent fields never run together, e.g.
	// "question" and "answer" becoming "questionanswer".
	return strings.Join([]string{q, a, c}, "\n")
}

// Hash takes card content, normalizes it, and returns its SHA-256 hash as a
// hex string. Content is re-hashed on every parse; a card's identity is this
// hash, not an assigned sequence number, so editing question/answer/context
// text produces a new card rather than silently rewriting an old one.
func Hash(content domain.CardContent) string {
	normalized := Normalize(content)
	hashBytes := sha256.Sum256([]byte(normalized))
	return fmt.Sprintf("%x", hashBytes)
}

// CardID derives an fsrs.Card.CardID from content's hash: the first 8 bytes
// of the SHA-256 digest, interpreted big-endian and masked to a non-negative
// int64. Two cards with the same content therefore always resolve to the
// same schedule row, without a second lookup table from hash to a
// separately assigned numeric ID.
func CardID(content domain.CardContent) int64 {
	normalized := Normalize(content)
	digest := sha256.Sum256([]byte(normalized))
	id := int64(binary.BigEndian.Uint64(digest[:8]) &^ (1 << 63))
	return id
}
