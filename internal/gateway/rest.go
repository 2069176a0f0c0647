package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/6045054-web/CHENGHUI/internal/logger"
	"github.com/6045054-web/CHENGHUI/internal/model"
)

const (
	preferMinimal = "return=minimal"
	preferUpsert  = "return=minimal,resolution=merge-duplicates"
)

// StatusError is a non-2xx answer of the remote store.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string { return fmt.Sprintf("云端服务异常: %d", e.Status) }

// IsRemote reports whether err came from the remote store or the network path to it.
func IsRemote(err error) bool {
	var se *StatusError
	var re *RequestError
	return errors.As(err, &se) || errors.As(err, &re)
}

// RequestError wraps a transport failure.
type RequestError struct {
	Method, Table string
	Err           error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("rest %s %s: %v", e.Method, e.Table, e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }

// Response is the normalized result of Request: OK alone for an empty body, Data for JSON,
// Text for anything else.
type Response struct {
	OK   bool
	Data json.RawMessage
	Text string
}

func (r Response) Decode(out any) error {
	if len(r.Data) == 0 {
		return nil
	}
	return json.Unmarshal(r.Data, out)
}

// Query is a PostgREST filter/order/limit string builder.
type Query struct {
	v url.Values
}

func (q Query) with(k, v string) Query {
	next := url.Values{}
	for key, vals := range q.v {
		next[key] = append([]string(nil), vals...)
	}
	next.Add(k, v)
	return Query{v: next}
}

func (q Query) Eq(col, val string) Query { return q.with(col, "eq."+val) }

func (q Query) Order(col string, desc bool) Query {
	dir := "asc"
	if desc {
		dir = "desc"
	}
	return q.with("order", col+"."+dir)
}

func (q Query) Limit(n int) Query { return q.with("limit", strconv.Itoa(n)) }

func (q Query) Select(cols string) Query { return q.with("select", cols) }

// String renders "?k=v&..." or "" for an empty query.
func (q Query) String() string {
	if len(q.v) == 0 {
		return ""
	}
	return "?" + q.v.Encode()
}

type Rest struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewRest(baseURL, apiKey string, timeout time.Duration) *Rest {
	return &Rest{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

// Request performs one call against {base}/rest/v1/{table}. A POST whose body carries an id
// asks for insert-or-merge on conflict.
func (g *Rest) Request(ctx context.Context, table, method string, body any, q Query) (Response, error) {
	var payload []byte
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return Response{}, fmt.Errorf("encode %s body: %w", table, err)
		}
		payload = data
	}
	prefer := preferMinimal
	if method == http.MethodPost && hasID(payload) {
		prefer = preferUpsert
	}
	return g.do(ctx, method, table, payload, q, prefer)
}

func (g *Rest) do(ctx context.Context, method, table string, payload []byte, q Query, prefer string) (Response, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+"/rest/v1/"+table+q.String(), reader)
	if err != nil {
		return Response{}, &RequestError{Method: method, Table: table, Err: err}
	}
	req.Header.Set("apikey", g.apiKey)
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	req.Header.Set("Content-Type", "application/json")
	if prefer != "" {
		req.Header.Set("Prefer", prefer)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return Response{}, &RequestError{Method: method, Table: table, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, &RequestError{Method: method, Table: table, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logger.Warn("rest.status", "table", table, "method", method, "status", resp.StatusCode, "body", string(data))
		return Response{}, &StatusError{Status: resp.StatusCode, Body: string(data)}
	}
	if len(bytes.TrimSpace(data)) == 0 || resp.StatusCode == http.StatusNoContent {
		return Response{OK: true}, nil
	}
	if json.Valid(data) {
		return Response{OK: true, Data: data}, nil
	}
	return Response{OK: true, Text: string(data)}, nil
}

// hasID reports whether a JSON object has a truthy "id".
func hasID(payload []byte) bool {
	if len(payload) == 0 {
		return false
	}
	var obj map[string]any
	if err := json.Unmarshal(payload, &obj); err != nil {
		return false
	}
	switch v := obj["id"].(type) {
	case string:
		return v != ""
	case float64:
		return v != 0
	case bool:
		return v
	default:
		return false
	}
}

func list[T any](ctx context.Context, g *Rest, table string, q Query) ([]T, error) {
	resp, err := g.do(ctx, http.MethodGet, table, nil, q, "")
	if err != nil {
		return nil, err
	}
	out := []T{}
	if err := resp.Decode(&out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", table, err)
	}
	return out, nil
}

// FetchAll loads the five collections concurrently. A failed read degrades to an empty list.
func (g *Rest) FetchAll(ctx context.Context) model.Snapshot {
	snap := emptySnapshot()
	var wg sync.WaitGroup
	run := func(table string, fn func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(); err != nil {
				logger.Warn("rest.fetch_degraded", "table", table, "err", err)
			}
		}()
	}

	run(TableReports, func() error {
		v, err := list[model.Report](ctx, g, TableReports, Query{}.Order("date", true))
		if err == nil {
			snap.Reports = v
		}
		return err
	})
	run(TableAnnouncements, func() error {
		v, err := list[model.Announcement](ctx, g, TableAnnouncements, Query{}.Order("publishDate", true))
		if err == nil {
			snap.Announcements = v
		}
		return err
	})
	run(TableProjects, func() error {
		v, err := list[model.Project](ctx, g, TableProjects, Query{})
		if err == nil {
			snap.Projects = v
		}
		return err
	})
	run(TableUsers, func() error {
		v, err := list[model.User](ctx, g, TableUsers, Query{})
		if err == nil {
			snap.Users = v
		}
		return err
	})
	run(TableAttendance, func() error {
		v, err := list[model.AttendanceRecord](ctx, g, TableAttendance, Query{}.Order("time", true).Limit(AttendanceWindow))
		if err == nil {
			snap.Attendance = v
		}
		return err
	})

	wg.Wait()
	return snap
}

func (g *Rest) FindUser(ctx context.Context, username string) (*model.User, error) {
	users, err := list[model.User](ctx, g, TableUsers, Query{}.Eq("username", username).Select("*").Limit(1))
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, nil
	}
	return &users[0], nil
}

// LegacyLogin matches a plaintext password column. Only the rehash tool uses it, to migrate
// accounts created before passwords were hashed.
func (g *Rest) LegacyLogin(ctx context.Context, username, password string) *model.User {
	users, err := list[model.User](ctx, g, TableUsers, Query{}.Eq("username", username).Eq("password", password).Select("*"))
	if err != nil || len(users) == 0 {
		return nil
	}
	return &users[0]
}

// ListUsers reads the full users table.
func (g *Rest) ListUsers(ctx context.Context) ([]model.User, error) {
	return list[model.User](ctx, g, TableUsers, Query{})
}

func (g *Rest) save(ctx context.Context, table string, v any) error {
	_, err := g.Request(ctx, table, http.MethodPost, v, Query{})
	return err
}

func (g *Rest) remove(ctx context.Context, table, id string) error {
	_, err := g.Request(ctx, table, http.MethodDelete, nil, Query{}.Eq("id", id))
	return err
}

func (g *Rest) SaveReport(ctx context.Context, r model.Report) error {
	return g.save(ctx, TableReports, r)
}

func (g *Rest) SaveProject(ctx context.Context, p model.Project) error {
	return g.save(ctx, TableProjects, p)
}

func (g *Rest) SaveUser(ctx context.Context, u model.User) error {
	return g.save(ctx, TableUsers, u)
}

func (g *Rest) SaveAnnouncement(ctx context.Context, a model.Announcement) error {
	return g.save(ctx, TableAnnouncements, a)
}

func (g *Rest) SaveAttendance(ctx context.Context, a model.AttendanceRecord) error {
	return g.save(ctx, TableAttendance, a)
}

func (g *Rest) DeleteProject(ctx context.Context, id string) error {
	return g.remove(ctx, TableProjects, id)
}

func (g *Rest) DeleteUser(ctx context.Context, id string) error {
	return g.remove(ctx, TableUsers, id)
}

func (g *Rest) DeleteAnnouncement(ctx context.Context, id string) error {
	return g.remove(ctx, TableAnnouncements, id)
}

var _ Store = (*Rest)(nil)
