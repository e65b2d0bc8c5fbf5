package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/hlog"

	"github.com/andrasnagy-data/legacyusers/internal/components/users"
)

type (
	// HealthSrvc handles business logic for health check functionality
	HealthSrvc struct {
		pool      *pgxpool.Pool
		directory *users.Directory
	}

	// HealthResponse represents the response structure for health check endpoint
	HealthResponse struct {
		Status    string    `json:"status"`
		Timestamp time.Time `json:"timestamp"`
		Users     int       `json:"users"`
		Database  bool      `json:"database"`
	}
)

func NewHealthHandler(srvc *HealthSrvc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		logger := hlog.FromRequest(r)

		response, ok := srvc.check(ctx)

		w.Header().Set("Content-Type", "application/json")

		if ok {
			logger.Debug().Msg("Healthcheck ok")
			w.WriteHeader(http.StatusOK)
		} else {
			logger.Error().Msg("Database healthcheck failed")
			w.WriteHeader(http.StatusServiceUnavailable)
		}

		if err := json.NewEncoder(w).Encode(response); err != nil {
			logger.Error().Err(err).Msg("Failed to encode health check response")
			return
		}
	}
}

// NewHealthSrvc accepts a nil pool when the directory comes from a file.
func NewHealthSrvc(pool *pgxpool.Pool, directory *users.Directory) *HealthSrvc {
	return &HealthSrvc{pool: pool, directory: directory}
}

func (s *HealthSrvc) check(ctx context.Context) (HealthResponse, bool) {
	now := time.Now().UTC()
	response := HealthResponse{
		Status:    "serving",
		Timestamp: now,
		Users:     s.directory.Len(),
	}

	if s.pool == nil {
		return response, true
	}

	var res int
	err := s.pool.QueryRow(ctx, "SELECT 1").Scan(&res)
	response.Database = err == nil && res == 1
	if !response.Database {
		response.Status = "not serving"
	}
	return response, response.Database
}
