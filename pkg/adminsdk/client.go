package adminsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/statlerhq/admincore/pkg/idx"
)

// loginPath is the authentication endpoint's fixed route.
const loginPath = "/api/auth/admin/login"

// Client talks to the admin authentication endpoint.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a client for the authentication endpoint at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Login submits credentials and returns the session the endpoint issued.
// The username is transmitted as the `email` attribute — the deployed
// endpoint's observed contract, preserved as-is.
//
// Every failure mode (transport error, non-2xx status, success=false,
// malformed body) is reported as an error wrapping ErrAuthenticationFailed.
func (c *Client) Login(ctx context.Context, creds Credentials) (*Session, error) {
	body, err := json.Marshal(loginRequest{
		Email:    creds.Username,
		Password: creds.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: encode request: %v", ErrAuthenticationFailed, err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.BaseURL+loginPath,
		bytes.NewReader(body),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %v", ErrAuthenticationFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", idx.New().String())

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: send request: %v", ErrAuthenticationFailed, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrAuthenticationFailed, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d", ErrAuthenticationFailed, resp.StatusCode)
	}

	var parsed loginResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrAuthenticationFailed, err)
	}
	if !parsed.Success {
		return nil, fmt.Errorf("%w: endpoint reported failure", ErrAuthenticationFailed)
	}
	if parsed.Data.Token == "" || len(parsed.Data.Admin) == 0 {
		return nil, fmt.Errorf("%w: incomplete response payload", ErrAuthenticationFailed)
	}

	var profile AdminProfile
	if err := json.Unmarshal(parsed.Data.Admin, &profile); err != nil {
		return nil, fmt.Errorf("%w: decode admin profile: %v", ErrAuthenticationFailed, err)
	}

	return &Session{
		Token:      parsed.Data.Token,
		Profile:    profile,
		RawProfile: parsed.Data.Admin,
	}, nil
}
