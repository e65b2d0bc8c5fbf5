package federation

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
)

var ErrUserMismatch = errors.New("local and remote users differ")

type (
	directory interface {
		ValidateUserExists(ctx context.Context, username string) (int, error)
		GetUserDetails(ctx context.Context, username string) (*User, error)
		ValidateLogin(ctx context.Context, username, password string) (int, error)
	}

	// Provider resolves identity-provider lookups and password checks against the directory
	Provider struct {
		directory directory
		logger    zerolog.Logger
	}
)

func NewProvider(client *Client, logger zerolog.Logger) *Provider {
	return &Provider{
		directory: client,
		logger:    logger.With().Str("component", "federation").Logger(),
	}
}

// NormalizeUsername lowercases and trims, matching how usernames are stored on import
func NormalizeUsername(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// GetUserByUsername returns (nil, nil) when the directory has no such user.
// Usernames are emails in the directory, so the returned email must equal the normalized username.
func (p *Provider) GetUserByUsername(ctx context.Context, raw string) (*User, error) {
	username := NormalizeUsername(raw)
	p.logger.Info().Str("username", username).Msg("Get by username")

	user, err := p.directory.GetUserDetails(ctx, username)
	if errors.Is(err, ErrUserNotFound) {
		p.logger.Error().Str("username", username).Msg("Federated user not found")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if user.Email != username {
		return nil, fmt.Errorf("%w: [%s != %s]", ErrUserMismatch, username, user.Username)
	}
	return user, nil
}

// GetUserByEmail looks the user up by email; directory usernames are emails.
func (p *Provider) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	return p.GetUserByUsername(ctx, email)
}

// GetUserByID accepts either a bare username or a federated storage id
// ("f:<providerId>:<username>") and looks the user up by its external part.
func (p *Provider) GetUserByID(ctx context.Context, id string) (*User, error) {
	return p.GetUserByUsername(ctx, ExternalID(id))
}

// ExternalID strips the "f:<providerId>:" prefix of a federated storage id.
func ExternalID(id string) string {
	rest, ok := strings.CutPrefix(id, "f:")
	if !ok {
		return id
	}
	if _, external, found := strings.Cut(rest, ":"); found {
		return external
	}
	return id
}

// IsValid requires the user to exist and the password to be accepted
func (p *Provider) IsValid(ctx context.Context, username, password string) (bool, error) {
	status, err := p.directory.ValidateUserExists(ctx, username)
	if err != nil {
		return false, err
	}
	if status != http.StatusOK {
		p.logger.Info().Str("username", username).Int("status", status).Msg("isValid: user does not exist")
		return false, nil
	}

	status, err = p.directory.ValidateLogin(ctx, username, password)
	if err != nil {
		return false, err
	}
	valid := status == http.StatusOK
	p.logger.Info().Str("username", username).Bool("valid", valid).Int("status", status).Msg("isValid: credentials checked")
	return valid, nil
}
