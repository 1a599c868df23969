// Package clerk talks to the identity provider: role metadata writes and
// webhook signature checks.
package clerk

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"classroom-service/internal/domain"
)

// SignatureHeader carries hex(HMAC-SHA256(secret, body)) on webhook calls.
const SignatureHeader = "clerk-signature"

type Config struct {
	APIURL    string
	SecretKey string
	Timeout   time.Duration
}

type Client struct {
	http    *http.Client
	baseURL string
	secret  string
}

func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		http:    &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(cfg.APIURL, "/"),
		secret:  cfg.SecretKey,
	}
}

// SetRole writes the role into the user's public metadata.
func (c *Client) SetRole(ctx context.Context, userID string, role domain.Role) error {
	body, err := json.Marshal(map[string]any{
		"public_metadata": map[string]string{"role": string(role)},
	})
	if err != nil {
		return err
	}
	endpoint := c.baseURL + "/users/" + url.PathEscape(userID) + "/metadata"
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.secret)
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("set role: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode/100 != 2 {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return fmt.Errorf("set role: %s: %s", res.Status, strings.TrimSpace(string(msg)))
	}
	return nil
}

// VerifySignature checks a webhook body against its hex HMAC-SHA256 signature.
func VerifySignature(secret string, body []byte, signature string) error {
	if secret == "" || signature == "" {
		return domain.ErrInvalidSignature
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := mac.Sum(nil)
	got, err := hex.DecodeString(signature)
	if err != nil || !hmac.Equal(expected, got) {
		return domain.ErrInvalidSignature
	}
	return nil
}

// Sign is the counterpart of VerifySignature.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// UserCreatedEvent is the subset of the user.created webhook payload we read.
type UserCreatedEvent struct {
	Type string `json:"type"`
	Data struct {
		ID             string `json:"id"`
		FirstName      string `json:"first_name"`
		LastName       string `json:"last_name"`
		EmailAddresses []struct {
			EmailAddress string `json:"email_address"`
		} `json:"email_addresses"`
	} `json:"data"`
}

// PrimaryEmail returns the first email address, or "".
func (e UserCreatedEvent) PrimaryEmail() string {
	if len(e.Data.EmailAddresses) == 0 {
		return ""
	}
	return e.Data.EmailAddresses[0].EmailAddress
}
