package internal

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"math/big"
	"strings"
)

// ChallengeTokenID is the raw form of an opaque challenge token: 128 bits of
// entropy, enough to make collisions and guessing practically impossible.
type ChallengeTokenID [16]byte

const secretAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func NewChallengeTokenID() (ChallengeTokenID, error) {
	var id ChallengeTokenID
	_, err := rand.Read(id[:])
	return id, err
}

func (t ChallengeTokenID) Bytes() []byte {
	return t[:]
}

func (t ChallengeTokenID) String() string {
	// base64url, no padding, compact
	return base64.RawURLEncoding.EncodeToString(t[:])
}

func ParseChallengeTokenID(token string) (ChallengeTokenID, error) {
	var id ChallengeTokenID

	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return id, err
	}
	if len(raw) != len(id) {
		return id, errors.New("invalid challenge token size")
	}

	copy(id[:], raw)
	return id, nil
}

// NewChallengeSecret generates an uppercase-alphanumeric challenge secret of
// the given length using uniform crypto/rand draws.
func NewChallengeSecret(length int) (string, error) {
	if length < 4 || length > 32 {
		return "", errors.New("invalid challenge secret length")
	}

	var b strings.Builder
	b.Grow(length)

	max := big.NewInt(int64(len(secretAlphabet)))
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b.WriteByte(secretAlphabet[n.Int64()])
	}

	return b.String(), nil
}

// HashToken digests a token string for use as an audit-safe reference. Raw
// tokens never appear in audit metadata.
func HashToken(token string) [32]byte {
	return sha256.Sum256([]byte(token))
}
