package catalyst

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

const authPath = "/api/system/v1/auth/token"

// Auth manages the Catalyst Center session token. Login must succeed
// before any authenticated request is issued.
type Auth struct {
	baseURL   string
	username  string
	password  string
	verifySSL bool

	token      string
	httpClient *http.Client
}

// baseURL normalizes a configured endpoint into an https URL with no
// trailing slash.
func baseURL(endpoint string) string {
	u := strings.TrimSuffix(endpoint, "/")
	if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
		u = "https://" + u
	}
	return u
}

func newHTTPClient(verifySSL bool) *http.Client {
	c := &http.Client{
		Timeout: 60 * time.Second,
	}

	// Lab controllers ship self-signed certificates
	if !verifySSL {
		c.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}

	return c
}

func NewAuth(cfg Config) *Auth {
	return &Auth{
		baseURL:    baseURL(cfg.Endpoint),
		username:   cfg.Username,
		password:   cfg.Password,
		verifySSL:  cfg.VerifySSL,
		httpClient: newHTTPClient(cfg.VerifySSL),
	}
}

// Login obtains a session token via basic auth. A 200 response without
// a token in the payload is treated as a failure.
func (a *Auth) Login(ctx context.Context) error {
	log.Printf("catalyst: authenticating to %s", a.baseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+authPath, nil)
	if err != nil {
		return fmt.Errorf("build auth request: %w", err)
	}
	req.SetBasicAuth(a.username, a.password)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("auth request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("auth request returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read auth response: %w", err)
	}

	var payload struct {
		Token string `json:"Token"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return fmt.Errorf("parse auth response: %w", err)
	}

	if payload.Token == "" {
		return fmt.Errorf("no token received in auth response")
	}

	a.token = payload.Token
	log.Printf("catalyst: authentication successful")

	return nil
}

// Headers returns the headers for authenticated requests. It errors
// when called before a successful Login.
func (a *Auth) Headers() (map[string]string, error) {
	if a.token == "" {
		return nil, fmt.Errorf("not authenticated, call Login first")
	}

	return map[string]string{
		"X-Auth-Token": a.token,
		"Content-Type": "application/json",
	}, nil
}
