package secretstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// HTTPClient is a minimal HashiCorp Vault client covering only the two
// calls the broker needs: JWT auth-method login and a versioned KV
// read. It exists so the broker is runnable end to end; a production
// deployment may swap in a fuller Vault SDK client behind the same
// Client interface.
type HTTPClient struct {
	baseURL string
	hc      *http.Client
}

// NewHTTPClient builds a Client against a Vault listener at baseURL
// (e.g. "https://vault.example.internal:8200").
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		hc:      &http.Client{Timeout: 10 * time.Second},
	}
}

type vaultLoginRequest struct {
	JWT  string `json:"jwt"`
	Role string `json:"role"`
}

type vaultLoginResponse struct {
	Auth *struct {
		ClientToken string `json:"client_token"`
	} `json:"auth"`
	Errors []string `json:"errors"`
}

// Authenticate logs in against authMount's JWT auth method.
func (c *HTTPClient) Authenticate(ctx context.Context, authMount, jwt, role, namespace string) (Session, error) {
	body, err := json.Marshal(vaultLoginRequest{JWT: jwt, Role: role})
	if err != nil {
		return Session{}, NewError(fmt.Sprintf("marshal login request: %v", err))
	}

	loginURL := fmt.Sprintf("%s/v1/auth/%s/login", c.baseURL, authMount)
	var login vaultLoginResponse
	if err := c.doJSON(ctx, http.MethodPost, loginURL, namespace, body, &login); err != nil {
		return Session{}, err
	}
	if len(login.Errors) > 0 {
		return Session{}, NewError(fmt.Sprintf("login rejected: %v", login.Errors))
	}
	if login.Auth == nil || login.Auth.ClientToken == "" {
		return Session{}, NewError("login response carried no client token")
	}
	return Session{Token: login.Auth.ClientToken}, nil
}

type vaultSecretResponse struct {
	Data struct {
		Data     map[string]string `json:"data"`
		Metadata struct {
			Version uint64 `json:"version"`
		} `json:"metadata"`
	} `json:"data"`
	Errors []string `json:"errors"`
}

// Read fetches a KV v2 secret at mount/data/path, optionally pinned to
// version.
func (c *HTTPClient) Read(ctx context.Context, session Session, mount, path string, version *uint64) (Secret, error) {
	readURL := fmt.Sprintf("%s/v1/%s/data/%s", c.baseURL, mount, path)
	if version != nil {
		q := url.Values{}
		q.Set("version", strconv.FormatUint(*version, 10))
		readURL = readURL + "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, readURL, nil)
	if err != nil {
		return Secret{}, NewError(fmt.Sprintf("build read request: %v", err))
	}
	req.Header.Set("X-Vault-Token", session.Token)

	resp, err := c.hc.Do(req)
	if err != nil {
		return Secret{}, NewError(fmt.Sprintf("read request failed: %v", err))
	}
	defer resp.Body.Close()

	var decoded vaultSecretResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return Secret{}, NewError(fmt.Sprintf("decode read response: %v", err))
	}
	if resp.StatusCode == http.StatusNotFound {
		return Secret{}, NewError(fmt.Sprintf("secret not found at %s/%s", mount, path))
	}
	if resp.StatusCode != http.StatusOK {
		return Secret{}, NewError(fmt.Sprintf("read failed with status %d: %v", resp.StatusCode, decoded.Errors))
	}

	return Secret{
		Data:     decoded.Data.Data,
		Metadata: Metadata{Version: decoded.Data.Metadata.Version},
	}, nil
}

func (c *HTTPClient) doJSON(ctx context.Context, method, targetURL, namespace string, body []byte, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, targetURL, bytes.NewReader(body))
	if err != nil {
		return NewError(fmt.Sprintf("build request: %v", err))
	}
	req.Header.Set("Content-Type", "application/json")
	if namespace != "" {
		req.Header.Set("X-Vault-Namespace", namespace)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return NewError(fmt.Sprintf("request failed: %v", err))
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return NewError(fmt.Sprintf("decode response: %v", err))
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return NewError(fmt.Sprintf("request to %s failed with status %d", targetURL, resp.StatusCode))
	}
	return nil
}
