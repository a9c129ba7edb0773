// Package d1 is a minimal client for the Cloudflare D1 HTTP query API.
package d1

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/hashicorp/go-retryablehttp"
)

const apiBase = "https://api.cloudflare.com/client/v4"

type Client struct {
	http    *retryablehttp.Client
	baseURL string
	token   string
}

// New builds a client for one database under one account, authenticated with
// a bearer API token.
func New(accountID, databaseID, token string) *Client {
	return NewWithBase(fmt.Sprintf("%s/accounts/%s/d1/database/%s", apiBase, accountID, databaseID), token)
}

// NewWithBase allows tests to point the client at a local server.
func NewWithBase(baseURL, token string) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 3
	rc.Logger = nil
	return &Client{http: rc, baseURL: strings.TrimRight(baseURL, "/"), token: token}
}

type queryError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type queryResult struct {
	Results []map[string]any `json:"results"`
}

type envelope struct {
	Success bool          `json:"success"`
	Result  []queryResult `json:"result"`
	Errors  []queryError  `json:"errors"`
}

// Query runs one parameterized statement through /query and returns the rows
// of the first result set.
func (c *Client) Query(ctx context.Context, sqlText string, params ...any) ([]map[string]any, error) {
	env, err := c.post(ctx, "/query", sqlText, params)
	if err != nil {
		return nil, err
	}
	if len(env.Result) == 0 {
		return nil, nil
	}
	return env.Result[0].Results, nil
}

// Exec runs one statement through /raw, discarding any rows. Used for DDL and
// writes where the row shape is irrelevant.
func (c *Client) Exec(ctx context.Context, sqlText string, params ...any) error {
	_, err := c.post(ctx, "/raw", sqlText, params)
	return err
}

func (c *Client) post(ctx context.Context, path, sqlText string, params []any) (*envelope, error) {
	if params == nil {
		params = []any{}
	}
	body, err := json.Marshal(map[string]any{"sql": sqlText, "params": params})
	if err != nil {
		return nil, fmt.Errorf("encode query: %w", err)
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, "POST", c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("query D1: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read D1 response: %w", err)
	}

	var env envelope
	decodeErr := json.Unmarshal(raw, &env)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 || decodeErr != nil || !env.Success {
		if decodeErr == nil && len(env.Errors) > 0 {
			msgs := make([]string, 0, len(env.Errors))
			for _, e := range env.Errors {
				msgs = append(msgs, fmt.Sprintf("%s (code %d)", e.Message, e.Code))
			}
			return nil, fmt.Errorf("D1 query failed: %s", strings.Join(msgs, "; "))
		}
		return nil, fmt.Errorf("D1 query failed (HTTP %d)", resp.StatusCode)
	}
	return &env, nil
}
