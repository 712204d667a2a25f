package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// ExecSQL runs a raw statement through the exec_sql database function. It is
// the schema-setup escape hatch and requires the function to be installed
// with appropriate grants.
func (c *Client) ExecSQL(ctx context.Context, statement string) error {
	ctx, cancel := ensureDeadline(ctx, setupTimeout)
	defer cancel()

	payload, err := json.Marshal(map[string]string{"sql_query": statement})
	if err != nil {
		return fmt.Errorf("encode rpc payload: %w", err)
	}

	endpoint := c.baseURL + "/rest/v1/rpc/exec_sql"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build rpc request: %w", err)
	}
	c.setAuthHeaders(req, "")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("exec_sql: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return decodeError(resp)
	}
	return nil
}
