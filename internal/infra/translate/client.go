// Package translate wraps the Google Translate v2 REST endpoint.
package translate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var ErrNoTranslation = errors.New("translate: no translation returned")

type Config struct {
	URL     string
	APIKey  string
	Timeout time.Duration
}

type Client struct {
	http *http.Client
	cfg  Config
}

func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{http: &http.Client{Timeout: timeout}, cfg: cfg}
}

type translateResponse struct {
	Data struct {
		Translations []struct {
			TranslatedText string `json:"translatedText"`
		} `json:"translations"`
	} `json:"data"`
}

// Translate returns text rendered in the target language code.
func (c *Client) Translate(ctx context.Context, text, target string) (string, error) {
	q := url.Values{}
	q.Set("key", c.cfg.APIKey)
	q.Set("q", text)
	q.Set("target", target)

	endpoint := c.cfg.URL
	if strings.Contains(endpoint, "?") {
		endpoint += "&" + q.Encode()
	} else {
		endpoint += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return "", err
	}

	res, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("translate request: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode/100 != 2 {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return "", fmt.Errorf("translate: %s: %s", res.Status, strings.TrimSpace(string(msg)))
	}

	var out translateResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("translate decode: %w", err)
	}
	if len(out.Data.Translations) == 0 {
		return "", ErrNoTranslation
	}
	// v2 returns HTML-escaped text by default.
	return html.UnescapeString(out.Data.Translations[0].TranslatedText), nil
}
