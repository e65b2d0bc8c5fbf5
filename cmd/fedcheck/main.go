package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/andrasnagy-data/legacyusers/internal/federation"
)

func main() {
	baseURL := flag.String("url", "http://localhost:9081/migration", "directory base URL including the path prefix")
	username := flag.String("user", "", "username to look up")
	password := flag.String("password", "", "password to validate (skipped when empty)")
	timeout := flag.Duration("timeout", 10*time.Second, "overall timeout")
	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().
		Timestamp().
		Logger()

	if *username == "" {
		logger.Error().Msg("Usage: fedcheck -user <username> [-password <password>] [-url <base url>]")
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	provider := federation.NewProvider(federation.NewClient(*baseURL, nil), logger)

	user, err := provider.GetUserByUsername(ctx, *username)
	if err != nil {
		logger.Error().Err(err).Str("username", *username).Msg("Lookup failed")
		os.Exit(1)
	}
	if user == nil {
		logger.Warn().Str("username", *username).Msg("User not found")
		os.Exit(1)
	}
	logger.Info().
		Str("username", user.Username).
		Str("email", user.Email).
		Bool("enabled", user.Enabled).
		Strs("roles", user.Roles).
		Msg("User found")

	if *password == "" {
		return
	}

	valid, err := provider.IsValid(ctx, federation.NormalizeUsername(*username), *password)
	if err != nil {
		logger.Error().Err(err).Msg("Credential check failed")
		os.Exit(1)
	}
	if !valid {
		logger.Warn().Msg("Credentials rejected")
		os.Exit(1)
	}
	logger.Info().Msg("Credentials valid")
}
