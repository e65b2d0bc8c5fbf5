package users

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/andrasnagy-data/legacyusers/internal/shared/config"
)

type (
	// sourcer yields the startup records in source order.
	sourcer interface {
		Load(ctx context.Context) ([]Record, error)
		Name() string
	}

	fileSource struct {
		path string
	}

	pgSource struct {
		pool  *pgxpool.Pool
		table string
	}
)

// NewSource picks Postgres when a pool is configured and the JSON file otherwise.
func NewSource(cfg *config.Config, pool *pgxpool.Pool) sourcer {
	if pool != nil {
		return &pgSource{pool: pool, table: cfg.UsersTable}
	}
	return &fileSource{path: cfg.UsersFile}
}

func (s *fileSource) Name() string { return "file:" + s.path }

// Load reads a JSON array of user objects.
func (s *fileSource) Load(_ context.Context) ([]Record, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read users file: %w", err)
	}
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode users file %s: %w", s.path, err)
	}
	return records, nil
}

func (s *pgSource) Name() string { return "postgres:" + s.table }

// Load reads every row of the users table. profile is a jsonb object whose keys
// become the record's pass-through fields. Row order is unspecified, so the table
// should keep username unique.
func (s *pgSource) Load(ctx context.Context) ([]Record, error) {
	stmt := fmt.Sprintf(`
	SELECT username, password_hash, COALESCE(profile, '{}'::jsonb)
	FROM %s`, pgx.Identifier{s.table}.Sanitize())

	rows, err := s.pool.Query(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			rec     Record
			profile []byte
		)
		if err := rows.Scan(&rec.Username, &rec.PasswordHash, &profile); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		if err := json.Unmarshal(profile, &rec.Profile); err != nil {
			return nil, fmt.Errorf("decode profile for %q: %w", rec.Username, err)
		}
		delete(rec.Profile, fieldUsername)
		delete(rec.Profile, fieldPasswordHash)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read users: %w", err)
	}
	return records, nil
}

// LoadDirectory builds the directory from the configured source. It runs once during startup.
func LoadDirectory(src sourcer, logger zerolog.Logger) (*Directory, error) {
	records, err := src.Load(context.Background())
	if err != nil {
		logger.Error().Err(err).Str("source", src.Name()).Msg("Failed to load users")
		return nil, err
	}

	dir, err := NewDirectory(records)
	if err != nil {
		logger.Error().Err(err).Str("source", src.Name()).Msg("Failed to index users")
		return nil, err
	}

	if dup := len(records) - dir.Len(); dup > 0 {
		logger.Warn().Int("duplicates", dup).Msg("Duplicate usernames in source, last record wins")
	}
	logger.Info().Str("source", src.Name()).Int("users", dir.Len()).Msg("User directory loaded")
	return dir, nil
}
