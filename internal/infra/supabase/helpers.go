package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/boddenberg/spendwise-api/internal/domain"

	"go.uber.org/zap"
)

// ============================================================
// PostgREST query builder
// ============================================================

type query struct {
	table string
	v     url.Values
}

func from(table string) *query {
	return &query{table: table, v: url.Values{}}
}

func (q *query) filter(col, op, val string) *query {
	q.v.Add(col, op+"."+val)
	return q
}

func (q *query) eq(col, val string) *query  { return q.filter(col, "eq", val) }
func (q *query) gte(col, val string) *query { return q.filter(col, "gte", val) }
func (q *query) lte(col, val string) *query { return q.filter(col, "lte", val) }
func (q *query) is(col, val string) *query  { return q.filter(col, "is", val) }

func (q *query) or(expr string) *query {
	q.v.Set("or", "("+expr+")")
	return q
}

func (q *query) sel(cols string) *query {
	q.v.Set("select", cols)
	return q
}

func (q *query) order(by string) *query {
	q.v.Set("order", by)
	return q
}

func (q *query) limit(n int) *query {
	q.v.Set("limit", strconv.Itoa(n))
	return q
}

func (q *query) offset(n int) *query {
	q.v.Set("offset", strconv.Itoa(n))
	return q
}

func (q *query) onConflict(cols string) *query {
	q.v.Set("on_conflict", cols)
	return q
}

func (q *query) String() string {
	if len(q.v) == 0 {
		return q.table
	}
	return q.table + "?" + q.v.Encode()
}

// ============================================================
// HTTP helpers for GET, POST, PATCH, DELETE, RPC
// ============================================================

// statusError is a non-2xx PostgREST answer.
type statusError struct {
	Method string
	Path   string
	Status int
	Body   string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("supabase %s %s returned %d: %s", e.Method, e.Path, e.Status, e.Body)
}

const (
	preferRepresentation = "return=representation"
	preferMinimal        = "return=minimal"
	preferMerge          = "resolution=merge-duplicates,return=representation"
	preferIgnore         = "resolution=ignore-duplicates,return=representation"
)

func (c *Client) do(ctx context.Context, method, path string, payload any, prefer string) ([]byte, error) {
	endpoint := fmt.Sprintf("%s/rest/v1/%s", c.baseURL, path)

	var body *bytes.Reader
	if payload != nil {
		jsonBody, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(jsonBody)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		c.logger.Error("supabase: failed to create request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return nil, err
	}

	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.serviceRoleKey))
	req.Header.Set("Content-Type", "application/json")
	if prefer != "" {
		req.Header.Set("Prefer", prefer)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("supabase: request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := readBody(resp)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("supabase: non-2xx response",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(respBody)),
		)
		if resp.StatusCode == http.StatusConflict {
			return nil, &domain.ErrConflict{Message: "resource already exists"}
		}
		return nil, &statusError{Method: method, Path: path, Status: resp.StatusCode, Body: string(respBody)}
	}

	c.logger.Debug("supabase: request OK",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
	)
	return respBody, nil
}

func (c *Client) doGet(ctx context.Context, path string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, path, nil, "")
}

func (c *Client) doPost(ctx context.Context, path string, data any, prefer string) ([]byte, error) {
	return c.do(ctx, http.MethodPost, path, data, prefer)
}

// doPatch returns the updated rows so callers can tell whether a filtered
// (compare-and-swap) update matched anything.
func (c *Client) doPatch(ctx context.Context, path string, data map[string]any) ([]byte, error) {
	return c.do(ctx, http.MethodPatch, path, data, preferRepresentation)
}

func (c *Client) doDelete(ctx context.Context, path string, prefer string) ([]byte, error) {
	return c.do(ctx, http.MethodDelete, path, nil, prefer)
}

func (c *Client) doRPC(ctx context.Context, fn string, args map[string]any) ([]byte, error) {
	return c.do(ctx, http.MethodPost, "rpc/"+fn, args, "")
}

func readBody(resp *http.Response) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decodeRows unmarshals a PostgREST array, treating an empty body as no rows.
func decodeRows[T any](body []byte, what string) ([]T, error) {
	rows := []T{}
	if len(bytes.TrimSpace(body)) == 0 {
		return rows, nil
	}
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode %s: %w", what, err)
	}
	return rows, nil
}

// decodeOne returns the first row or ErrNotFound.
func decodeOne[T any](body []byte, resource, id string) (*T, error) {
	rows, err := decodeRows[T](body, resource)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &domain.ErrNotFound{Resource: resource, ID: id}
	}
	return &rows[0], nil
}

// getOne reads a single row with retries.
func getOne[T any](ctx context.Context, c *Client, q *query, resource, id string) (*T, error) {
	var out *T
	err := c.exec(ctx, resource, true, func() error {
		body, err := c.doGet(ctx, q.limit(1).String())
		if err != nil {
			return err
		}
		out, err = decodeOne[T](body, resource, id)
		return err
	})
	return out, err
}

// list reads rows with retries.
func list[T any](ctx context.Context, c *Client, q *query, resource string) ([]T, error) {
	var out []T
	err := c.exec(ctx, resource, true, func() error {
		body, err := c.doGet(ctx, q.String())
		if err != nil {
			return err
		}
		out, err = decodeRows[T](body, resource)
		return err
	})
	return out, err
}

// insert posts one row once and decodes the stored representation.
func insert[T any](ctx context.Context, c *Client, table, resource string, row map[string]any) (*T, error) {
	var out *T
	err := c.exec(ctx, resource, false, func() error {
		body, err := c.doPost(ctx, table, row, preferRepresentation)
		if err != nil {
			return err
		}
		out, err = decodeOne[T](body, resource, "")
		return err
	})
	return out, err
}

// patch updates rows matched by q and returns the first updated row, or
// ErrNotFound when the filter matched nothing.
func patch[T any](ctx context.Context, c *Client, q *query, resource, id string, fields map[string]any) (*T, error) {
	var out *T
	err := c.exec(ctx, resource, true, func() error {
		body, err := c.doPatch(ctx, q.String(), fields)
		if err != nil {
			return err
		}
		out, err = decodeOne[T](body, resource, id)
		return err
	})
	return out, err
}

// compareAndSet is patch for conditional updates: a miss means the guard
// failed, not that the row is gone. It runs once: a retry after a lost
// response would see its own write as a guard miss.
func compareAndSet(ctx context.Context, c *Client, q *query, resource string, fields map[string]any) (bool, error) {
	var applied bool
	err := c.exec(ctx, resource, false, func() error {
		body, err := c.doPatch(ctx, q.String(), fields)
		if err != nil {
			return err
		}
		rows, err := decodeRows[json.RawMessage](body, resource)
		if err != nil {
			return err
		}
		applied = len(rows) > 0
		return nil
	})
	return applied, err
}

// remove deletes rows matched by q; deleting is idempotent so it retries.
func remove(ctx context.Context, c *Client, q *query, resource string) error {
	return c.exec(ctx, resource, true, func() error {
		_, err := c.doDelete(ctx, q.String(), preferMinimal)
		return err
	})
}

// removeOne deletes the single row matched by q once and returns
// ErrNotFound when nothing matched, so exactly one caller owns the delete.
func removeOne(ctx context.Context, c *Client, q *query, resource, id string) error {
	return c.exec(ctx, resource, false, func() error {
		body, err := c.doDelete(ctx, q.String(), preferRepresentation)
		if err != nil {
			return err
		}
		_, err = decodeOne[json.RawMessage](body, resource, id)
		return err
	})
}

// rpc calls a stored procedure once.
func rpc(ctx context.Context, c *Client, fn string, args map[string]any) error {
	return c.exec(ctx, "rpc/"+fn, false, func() error {
		_, err := c.doRPC(ctx, fn, args)
		return err
	})
}

// withID adds the id column when set (restoring a deleted row keeps its id).
func withID(row map[string]any, id string) map[string]any {
	if id != "" {
		row["id"] = id
	}
	return row
}
