package users

import "fmt"

// Directory is a username-keyed index built once and never mutated afterwards,
// so it is safe for concurrent reads without locking.
type Directory struct {
	byUsername map[string]Record
}

// NewDirectory indexes records by username. When the source repeats a username
// the later record wins.
func NewDirectory(records []Record) (*Directory, error) {
	index := make(map[string]Record, len(records))
	for i, rec := range records {
		if rec.Username == "" {
			return nil, fmt.Errorf("record %d: %w", i, ErrMissingUsername)
		}
		index[rec.Username] = rec
	}
	return &Directory{byUsername: index}, nil
}

// Lookup returns a copy of the record stored under username.
func (d *Directory) Lookup(username string) (Record, bool) {
	rec, ok := d.byUsername[username]
	return rec, ok
}

func (d *Directory) Len() int {
	return len(d.byUsername)
}
