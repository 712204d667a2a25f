package supabase

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// Transport-level budgets mirroring the per-surface timeouts the service
// observes: table reads/writes are abandoned quickly, auth gets the longest
// leash, schema setup sits in between. A caller-supplied deadline wins.
const (
	restTimeout  = 800 * time.Millisecond
	authTimeout  = 5 * time.Second
	setupTimeout = 3 * time.Second
)

// Client talks to a hosted Supabase-compatible backend: PostgREST for table
// access, GoTrue for authentication and object storage for files. All calls
// carry the anon key; operations that act on behalf of a signed-in user add
// that user's access token, and admin operations require the service key.
type Client struct {
	baseURL    string
	anonKey    string
	serviceKey string
	httpClient *http.Client
	auth       *AuthClient
	storage    *StorageClient
}

func NewClient(baseURL, anonKey, serviceKey, bucket string) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		anonKey:    anonKey,
		serviceKey: serviceKey,
		httpClient: http.DefaultClient,
	}
	c.auth = &AuthClient{client: c}
	c.storage = &StorageClient{client: c, bucket: bucket}
	return c
}

func (c *Client) Auth() *AuthClient {
	return c.auth
}

func (c *Client) Storage() *StorageClient {
	return c.storage
}

// bearerKey picks the strongest key available for server-initiated calls.
func (c *Client) bearerKey() string {
	if c.serviceKey != "" {
		return c.serviceKey
	}
	return c.anonKey
}

// ensureDeadline applies a default budget when the caller has not already
// set one.
func ensureDeadline(ctx context.Context, budget time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, budget)
}

func (c *Client) setAuthHeaders(req *http.Request, token string) {
	req.Header.Set("apikey", c.anonKey)
	if token == "" {
		token = c.bearerKey()
	}
	req.Header.Set("Authorization", "Bearer "+token)
}
