package tc

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/segmentio/ksuid"
	"golang.org/x/crypto/sha3"
)

// How many times issueAPIKey will regenerate on a stored-key collision
// before giving up. Collisions on a 256-bit digest are not expected;
// the loop exists so a hit degrades to an error instead of a duplicate.
const maxKeyAttempts = 3

var errKeyCollision = errors.New("api key collision after retries")

// keyChecker is the slice of the credential store the issuer needs.
type keyChecker interface {
	APIKeyExists(ctx context.Context, apiKey string) (bool, error)
}

// issueAPIKey mints an opaque bearer token: a high-entropy random seed
// combined with a process-unique ksuid nonce, digested to a fixed-length
// hex string. The store is re-checked so a key is never issued twice.
func issueAPIKey(ctx context.Context, store keyChecker) (string, error) {
	for attempt := 0; attempt < maxKeyAttempts; attempt++ {
		seed := make([]byte, 32)
		if _, err := rand.Read(seed); err != nil {
			return "", fmt.Errorf("read key seed: %w", err)
		}
		sum := sha3.Sum256(append(seed, ksuid.New().Bytes()...))
		key := hex.EncodeToString(sum[:])

		exists, err := store.APIKeyExists(ctx, key)
		if err != nil {
			return "", fmt.Errorf("check key uniqueness: %w", err)
		}
		if !exists {
			return key, nil
		}
	}
	return "", errKeyCollision
}
