package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// QueryBuilder assembles a single PostgREST request against one table.
// The zero verb is a select; Insert/Update/Delete switch it to a write.
type QueryBuilder struct {
	client     *Client
	table      string
	method     string
	selectCols string
	filters    []filter
	orFilter   string
	orderBy    string
	limitTo    int
	single     bool
	body       any
	token      string
}

type filter struct {
	column   string
	operator string
	value    string
}

func (c *Client) From(table string) *QueryBuilder {
	return &QueryBuilder{
		client:     c,
		table:      table,
		method:     http.MethodGet,
		selectCols: "*",
	}
}

func (q *QueryBuilder) Select(columns string) *QueryBuilder {
	if columns != "" {
		q.selectCols = columns
	}
	return q
}

func (q *QueryBuilder) Insert(value any) *QueryBuilder {
	q.method = http.MethodPost
	q.body = value
	return q
}

func (q *QueryBuilder) Update(value any) *QueryBuilder {
	q.method = http.MethodPatch
	q.body = value
	return q
}

func (q *QueryBuilder) Delete() *QueryBuilder {
	q.method = http.MethodDelete
	return q
}

func (q *QueryBuilder) Eq(column, value string) *QueryBuilder {
	q.filters = append(q.filters, filter{column: column, operator: "eq", value: value})
	return q
}

// Or matches rows satisfying any of the comma-separated conditions, e.g.
// "name.ilike.*press*,description.ilike.*press*".
func (q *QueryBuilder) Or(conditions string) *QueryBuilder {
	q.orFilter = conditions
	return q
}

// Order sorts by a column; ascending=false yields descending order.
func (q *QueryBuilder) Order(column string, ascending bool) *QueryBuilder {
	direction := "asc"
	if !ascending {
		direction = "desc"
	}
	q.orderBy = column + "." + direction
	return q
}

func (q *QueryBuilder) Limit(n int) *QueryBuilder {
	q.limitTo = n
	return q
}

// Single requests exactly one row; zero matching rows surface as a no-rows
// error rather than an empty list.
func (q *QueryBuilder) Single() *QueryBuilder {
	q.single = true
	return q
}

// WithToken issues the request on behalf of a signed-in user so row-level
// security applies to that identity.
func (q *QueryBuilder) WithToken(token string) *QueryBuilder {
	q.token = token
	return q
}

// Execute performs the request and decodes the response into dest when dest
// is non-nil. Writes request representation return so upserts can read back
// server-stamped columns.
func (q *QueryBuilder) Execute(ctx context.Context, dest any) error {
	ctx, cancel := ensureDeadline(ctx, restTimeout)
	defer cancel()

	endpoint := fmt.Sprintf("%s/rest/v1/%s", q.client.baseURL, q.table)

	params := url.Values{}
	if q.method == http.MethodGet {
		params.Set("select", q.selectCols)
	}
	for _, f := range q.filters {
		params.Add(f.column, f.operator+"."+f.value)
	}
	if q.orFilter != "" {
		params.Set("or", "("+q.orFilter+")")
	}
	if q.orderBy != "" {
		params.Set("order", q.orderBy)
	}
	if q.limitTo > 0 {
		params.Set("limit", strconv.Itoa(q.limitTo))
	}
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	var reqBody io.Reader
	if q.body != nil {
		encoded, err := json.Marshal(q.body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, q.method, endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	q.client.setAuthHeaders(req, q.token)
	if q.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if q.method == http.MethodPost || q.method == http.MethodPatch {
		req.Header.Set("Prefer", "return=representation")
	}
	if q.single {
		req.Header.Set("Accept", "application/vnd.pgrst.object+json")
	}

	resp, err := q.client.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", q.method, q.table, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return decodeError(resp)
	}

	if dest == nil {
		return nil
	}
	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if len(bytes.TrimSpace(payload)) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	payload, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))

	apiErr := &Error{StatusCode: resp.StatusCode}
	if err := json.Unmarshal(payload, apiErr); err != nil || apiErr.Message == "" {
		if apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(payload))
		}
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
	}
	return apiErr
}
