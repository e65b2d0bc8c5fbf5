package users

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
)

const (
	fieldUsername     = "username"
	fieldPasswordHash = "passwordHash"
)

var ErrMissingUsername = errors.New("user record has no username")

type (
	// Record is a directory entry. Profile holds every source field other than
	// username and passwordHash, untouched.
	Record struct {
		Username     string
		PasswordHash string
		Profile      map[string]json.RawMessage
	}

	// Details is the public view of a Record. It has no hash field to leak.
	Details struct {
		Username string
		Profile  map[string]json.RawMessage
	}

	LoginRequest struct {
		Password *string `json:"password"`
	}
)

// UnmarshalJSON splits a source object into the known fields and the opaque profile.
func (r *Record) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	if fields == nil {
		return fmt.Errorf("user record must be a JSON object")
	}

	var rec Record
	if raw, ok := fields[fieldUsername]; ok {
		if err := json.Unmarshal(raw, &rec.Username); err != nil {
			return fmt.Errorf("%s: %w", fieldUsername, err)
		}
		delete(fields, fieldUsername)
	}
	if raw, ok := fields[fieldPasswordHash]; ok {
		if err := json.Unmarshal(raw, &rec.PasswordHash); err != nil {
			return fmt.Errorf("%s: %w", fieldPasswordHash, err)
		}
		delete(fields, fieldPasswordHash)
	}
	rec.Profile = fields

	*r = rec
	return nil
}

// Details projects the record without its password hash.
func (r *Record) Details() *Details {
	return &Details{
		Username: r.Username,
		Profile:  maps.Clone(r.Profile),
	}
}

// MarshalJSON writes the profile fields back at the top level next to username.
func (d *Details) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(d.Profile)+1)
	for k, v := range d.Profile {
		if k == fieldPasswordHash {
			continue
		}
		out[k] = v
	}
	username, err := json.Marshal(d.Username)
	if err != nil {
		return nil, err
	}
	out[fieldUsername] = username
	return json.Marshal(out)
}
