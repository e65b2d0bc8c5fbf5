package users

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/andrasnagy-data/legacyusers/internal/shared/password"
)

func mustHash(t *testing.T, plain string) string {
	t.Helper()
	hash, err := password.Hash(plain, bcrypt.MinCost)
	require.NoError(t, err)
	return hash
}

func mustRecord(t *testing.T, raw string) Record {
	t.Helper()
	var rec Record
	require.NoError(t, json.Unmarshal([]byte(raw), &rec))
	return rec
}

// aliceDirectory holds alice/secret123 with a couple of profile fields and
// carol whose stored hash is corrupt.
func aliceDirectory(t *testing.T) *Directory {
	t.Helper()
	alice := Record{
		Username:     "alice",
		PasswordHash: mustHash(t, "secret123"),
		Profile: map[string]json.RawMessage{
			"email":     json.RawMessage(`"alice@example.com"`),
			"firstName": json.RawMessage(`"Alice"`),
			"roles":     json.RawMessage(`["admin"]`),
		},
	}
	carol := Record{Username: "carol", PasswordHash: "not-a-bcrypt-hash"}

	dir, err := NewDirectory([]Record{alice, carol})
	require.NoError(t, err)
	return dir
}
