// Package federation is the identity-provider side of the lazy migration: it
// calls the legacy user directory to look users up and check their passwords.
package federation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var (
	ErrUserNotFound = errors.New("federated user not found")
	ErrUnexpected   = errors.New("unexpected response from user directory")
)

type (
	// User is the profile returned by the directory's details route
	User struct {
		Username      string              `json:"username"`
		Email         string              `json:"email"`
		FirstName     string              `json:"firstName"`
		LastName      string              `json:"lastName"`
		Enabled       bool                `json:"enabled"`
		EmailVerified bool                `json:"emailVerified"`
		Attributes    map[string][]string `json:"attributes,omitempty"`
		Roles         []string            `json:"roles,omitempty"`
	}

	credentials struct {
		Password string `json:"password"`
	}

	// Client talks to {baseURL}/api/users/{username}/
	Client struct {
		baseURL    string
		httpClient *http.Client
	}
)

// NewClient returns a client for a directory mounted at baseURL, e.g. http://localhost:9081/migration.
// A nil httpClient gets a default with a 10s timeout.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// ValidateUserExists issues HEAD and returns the status code
func (c *Client) ValidateUserExists(ctx context.Context, username string) (int, error) {
	resp, err := c.do(ctx, http.MethodHead, username, nil)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	return resp.StatusCode, nil
}

// GetUserDetails fetches the user profile. 204 and 404 map to ErrUserNotFound.
func (c *Client) GetUserDetails(ctx context.Context, username string) (*User, error) {
	resp, err := c.do(ctx, http.MethodGet, username, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNoContent, http.StatusNotFound:
		return nil, ErrUserNotFound
	default:
		return nil, fmt.Errorf("%w: get %s: status %d", ErrUnexpected, username, resp.StatusCode)
	}

	var user User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("decode user %s: %w", username, err)
	}
	return &user, nil
}

// ValidateLogin posts the password and returns the status code
func (c *Client) ValidateLogin(ctx context.Context, username, password string) (int, error) {
	body, err := json.Marshal(credentials{Password: password})
	if err != nil {
		return 0, err
	}

	resp, err := c.do(ctx, http.MethodPost, username, body)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, nil
}

func (c *Client) do(ctx context.Context, method, username string, body []byte) (*http.Response, error) {
	endpoint := c.baseURL + "/api/users/" + url.PathEscape(username) + "/"

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, endpoint, err)
	}
	return resp, nil
}
