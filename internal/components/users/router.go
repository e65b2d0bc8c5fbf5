package users

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"
)

// maxLoginBody caps the POST body; a login payload is a single short field.
const maxLoginBody = 1 << 16

type (
	Router struct {
		service servicer
	}
)

func NewRouter(service servicer) chi.Router {
	router := &Router{service: service}
	return router.Routes()
}

// Routes registers every handler with and without the trailing slash.
func (r *Router) Routes() chi.Router {
	router := chi.NewRouter()
	for _, pattern := range []string{"/{username}", "/{username}/"} {
		router.Head(pattern, r.CheckExists)
		router.Get(pattern, r.GetDetails)
		router.Post(pattern, r.ValidateLogin)
	}
	return router
}

// CheckExists answers 200 when the user exists and 404 otherwise, with no body
func (r *Router) CheckExists(w http.ResponseWriter, req *http.Request) {
	username := usernameParam(req)

	if r.service.CheckExists(req.Context(), username) {
		w.WriteHeader(http.StatusOK)
		return
	}
	w.WriteHeader(http.StatusNotFound)
}

// GetDetails returns the user without the password hash, or 204 when absent
func (r *Router) GetDetails(w http.ResponseWriter, req *http.Request) {
	logger := hlog.FromRequest(req)
	username := usernameParam(req)

	details, ok := r.service.GetDetails(req.Context(), username)
	if !ok {
		logger.Debug().Str("username", username).Msg("User not found")
		w.WriteHeader(http.StatusNoContent)
		return
	}

	body, err := json.Marshal(details)
	if err != nil {
		logger.Error().Err(err).Str("username", username).Msg("Failed to encode user details")
		writeStatus(w, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

// ValidateLogin checks {"password": "..."} against the stored hash.
// 200 valid, 403 mismatch or unknown user, 401 when the hash cannot be compared.
func (r *Router) ValidateLogin(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	logger := hlog.FromRequest(req)
	username := usernameParam(req)

	var body LoginRequest
	err := json.NewDecoder(io.LimitReader(req.Body, maxLoginBody)).Decode(&body)
	if err != nil && !errors.Is(err, io.EOF) {
		logger.Warn().Err(err).Str("username", username).Msg("Malformed login request")
		writeStatus(w, http.StatusBadRequest)
		return
	}

	result, err := r.service.ValidateLogin(ctx, username, body.Password)
	switch result {
	case LoginValid:
		logger.Debug().Str("username", username).Msg("Login successful")
		writeStatus(w, http.StatusOK)
	case LoginInvalid:
		logger.Debug().Str("username", username).Msg("Login failed: invalid credentials")
		writeStatus(w, http.StatusForbidden)
	case LoginUnknownUser:
		logger.Warn().Str("username", username).Msg("Login failed: unknown user")
		writeStatus(w, http.StatusForbidden)
	default:
		logger.Warn().Err(err).Str("username", username).Msg("Login failed: comparison error")
		writeStatus(w, http.StatusUnauthorized)
	}
}

// usernameParam returns the decoded username. chi matches on URL.RawPath when it is
// set, so only then is the param still escaped; URL.Path is already decoded.
func usernameParam(req *http.Request) string {
	raw := chi.URLParam(req, "username")
	if req.URL.RawPath == "" {
		return raw
	}
	if username, err := url.PathUnescape(raw); err == nil {
		return username
	}
	return raw
}

// writeStatus sends the standard status phrase as a plain-text body
func writeStatus(w http.ResponseWriter, status int) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	w.Write([]byte(http.StatusText(status)))
}
