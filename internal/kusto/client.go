// Package kusto is a minimal client for the Kusto v1 REST API, enough to run
// management commands and queries and read back their primary result table.
package kusto

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	mgmtPath  = "/v1/rest/mgmt"
	queryPath = "/v1/rest/query"

	aadTokenURL = "https://login.microsoftonline.com/%s/oauth2/v2.0/token"

	clientName = "kqlgen"
)

// Credentials select how requests are authenticated.
//
// A static Token wins over client credentials. With neither, requests are sent
// without authorization, which suits local emulators.
type Credentials struct {
	TenantID     string
	ClientID     string
	ClientSecret string
	Token        string
}

// Client talks to a single Kusto cluster.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// NewClient creates a client for the cluster at endpoint.
func NewClient(ctx context.Context, endpoint string, creds Credentials) (*Client, error) {
	endpoint = strings.TrimRight(endpoint, "/")
	if endpoint == "" {
		return nil, fmt.Errorf("cluster endpoint is required")
	}

	httpClient := http.DefaultClient
	switch {
	case creds.Token != "":
		httpClient = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: creds.Token}))
	case creds.ClientID != "":
		if creds.TenantID == "" {
			return nil, fmt.Errorf("tenant id is required for client credentials")
		}

		cc := clientcredentials.Config{
			ClientID:     creds.ClientID,
			ClientSecret: creds.ClientSecret,
			TokenURL:     fmt.Sprintf(aadTokenURL, creds.TenantID),
			Scopes:       []string{endpoint + "/.default"},
		}
		httpClient = cc.Client(ctx)
	}

	return NewClientWithHTTP(endpoint, httpClient), nil
}

// NewClientWithHTTP creates a client that sends requests through httpClient.
func NewClientWithHTTP(endpoint string, httpClient *http.Client) *Client {
	return &Client{
		endpoint:   strings.TrimRight(endpoint, "/"),
		httpClient: httpClient,
	}
}

// Endpoint returns the cluster URL.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Mgmt runs a management command such as ".show schema".
func (c *Client) Mgmt(ctx context.Context, database, command string) (*Result, error) {
	return c.do(ctx, mgmtPath, database, command)
}

// Query runs a query.
func (c *Client) Query(ctx context.Context, database, query string) (*Result, error) {
	return c.do(ctx, queryPath, database, query)
}

type request struct {
	DB  string `json:"db"`
	CSL string `json:"csl"`
}

func (c *Client) do(ctx context.Context, path, database, csl string) (*Result, error) {
	body, err := json.Marshal(request{DB: database, CSL: csl})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("x-ms-app", clientName)
	req.Header.Set("x-ms-client-request-id", clientName+";"+uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, responseError(resp.StatusCode, payload)
	}

	return parseResult(payload)
}
