package users

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord_UnmarshalJSON(t *testing.T) {
	rec := mustRecord(t, `{
		"username": "alice",
		"passwordHash": "$2a$10$abc",
		"email": "alice@example.com",
		"enabled": true,
		"attributes": {"dept": ["eng"]}
	}`)

	assert.Equal(t, "alice", rec.Username)
	assert.Equal(t, "$2a$10$abc", rec.PasswordHash)
	assert.Len(t, rec.Profile, 3)
	assert.JSONEq(t, `"alice@example.com"`, string(rec.Profile["email"]))
	assert.JSONEq(t, `{"dept": ["eng"]}`, string(rec.Profile["attributes"]))
	assert.NotContains(t, rec.Profile, "passwordHash")
	assert.NotContains(t, rec.Profile, "username")
}

func TestRecord_UnmarshalJSON_Invalid(t *testing.T) {
	cases := map[string]string{
		"not an object":       `["alice"]`,
		"null":                `null`,
		"username not string": `{"username": 42}`,
		"hash not string":     `{"username": "alice", "passwordHash": {}}`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			var rec Record
			assert.Error(t, json.Unmarshal([]byte(raw), &rec))
		})
	}
}

func TestDetails_OmitsPasswordHash(t *testing.T) {
	sources := []string{
		`{"username": "alice", "passwordHash": "h"}`,
		`{"username": "alice", "passwordHash": "h", "email": "a@example.com", "lastName": "Liddell"}`,
		`{"username": "alice", "passwordHash": "h", "nested": {"passwordHash": "kept-as-opaque"}}`,
	}
	for _, src := range sources {
		rec := mustRecord(t, src)

		out, err := json.Marshal(rec.Details())
		require.NoError(t, err)

		var fields map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(out, &fields))
		assert.NotContains(t, fields, "passwordHash", "source %s", src)
		assert.JSONEq(t, `"alice"`, string(fields["username"]))
		assert.Len(t, fields, len(rec.Profile)+1)
	}
}

func TestDetails_PassesProfileThrough(t *testing.T) {
	rec := mustRecord(t, `{"username": "alice", "passwordHash": "h", "email": "a@example.com", "enabled": false, "roles": ["a", "b"]}`)

	out, err := json.Marshal(rec.Details())
	require.NoError(t, err)
	assert.JSONEq(t, `{"username": "alice", "email": "a@example.com", "enabled": false, "roles": ["a", "b"]}`, string(out))
}

func TestDetails_IsACopy(t *testing.T) {
	rec := mustRecord(t, `{"username": "alice", "email": "a@example.com"}`)

	details := rec.Details()
	details.Profile["email"] = json.RawMessage(`"changed@example.com"`)

	assert.JSONEq(t, `"a@example.com"`, string(rec.Profile["email"]))
}
