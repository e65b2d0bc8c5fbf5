package users

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/andrasnagy-data/legacyusers/internal/shared/password"
)

// LoginResult is the outcome of a credential check.
type LoginResult int

const (
	LoginValid LoginResult = iota
	LoginInvalid
	LoginComparisonFailed
	LoginUnknownUser
)

var ErrPasswordRequired = errors.New("password is required")

func (r LoginResult) String() string {
	switch r {
	case LoginValid:
		return "valid"
	case LoginInvalid:
		return "invalid"
	case LoginComparisonFailed:
		return "comparison_failed"
	case LoginUnknownUser:
		return "unknown_user"
	default:
		return "unknown"
	}
}

type (
	servicer interface {
		CheckExists(ctx context.Context, username string) bool
		GetDetails(ctx context.Context, username string) (*Details, bool)
		ValidateLogin(ctx context.Context, username string, password *string) (LoginResult, error)
	}

	service struct {
		directory *Directory
		logger    zerolog.Logger
	}
)

func NewService(directory *Directory, logger zerolog.Logger) servicer {
	return &service{
		directory: directory,
		logger:    logger.With().Str("component", "users").Logger(),
	}
}

// CheckExists reports whether username is in the directory
func (s *service) CheckExists(_ context.Context, username string) bool {
	_, ok := s.directory.Lookup(username)
	return ok
}

// GetDetails returns the record without its password hash
func (s *service) GetDetails(_ context.Context, username string) (*Details, bool) {
	rec, ok := s.directory.Lookup(username)
	if !ok {
		return nil, false
	}
	return rec.Details(), true
}

// ValidateLogin compares password against the stored hash. The returned error is
// set only for LoginComparisonFailed.
func (s *service) ValidateLogin(_ context.Context, username string, plain *string) (LoginResult, error) {
	rec, ok := s.directory.Lookup(username)
	if !ok {
		return LoginUnknownUser, nil
	}
	if plain == nil {
		return LoginComparisonFailed, ErrPasswordRequired
	}

	valid, err := password.Verify(rec.PasswordHash, *plain)
	if err != nil {
		s.logger.Error().Err(err).Str("username", username).Msg("Password hash comparison failed")
		return LoginComparisonFailed, err
	}
	if !valid {
		return LoginInvalid, nil
	}
	return LoginValid, nil
}
