package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"expense-tracker/internal/auth"
	"expense-tracker/internal/config"
	"expense-tracker/internal/entity"
	"expense-tracker/internal/export"
	"expense-tracker/internal/extract"
	"expense-tracker/internal/pipeline"
	"expense-tracker/internal/repository"
)

const receiptText = `Starbucks Coffee
123 Main St, Springfield, IL 62704
2024-03-15
Total: $5.25`

type stubRunner struct {
	out string
	err error
}

func (r stubRunner) Run(_ context.Context, _ string, _ ...string) ([]byte, []byte, error) {
	return []byte(r.out), nil, r.err
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	ctx := context.Background()

	db, err := repository.Open(ctx, ":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	cfg := config.Load()
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Auth.TokenTTL = time.Hour
	cfg.Upload.MaxBytes = 1 << 20

	extractor := extract.NewExtractorWithRunner(
		extract.Config{TmpDir: t.TempDir()},
		stubRunner{out: receiptText},
		nil,
	)
	expenses := repository.NewExpenseRepository(db, nil)

	srv := New(cfg, Deps{
		Auth:         auth.NewManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
		Users:        repository.NewUserRepository(db, nil),
		Expenses:     expenses,
		Orchestrator: pipeline.NewOrchestrator(nil),
		Strategies:   pipeline.NewStrategyFactory(extractor, nil),
		Exporter:     export.NewService(expenses, nil),
	}, nil)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, ts *httptest.Server, path, token string, body any) *http.Response {
	t.Helper()
	buf, err := json.Marshal(body)
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPost, ts.URL+path, bytes.NewReader(buf))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func registerUser(t *testing.T, ts *httptest.Server, username string) string {
	t.Helper()
	resp := postJSON(t, ts, "/api/v1/auth/register", "", map[string]string{
		"username": username,
		"password": "hunter2hunter2",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decodeBody[tokenResponse](t, resp).Token
}

func multipartUpload(t *testing.T, fields map[string]string, filename, contentType string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if filename != "" {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="receipt"; filename="`+filename+`"`)
		h.Set("Content-Type", contentType)
		part, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestAuthFlow(t *testing.T) {
	ts := newTestServer(t)

	token := registerUser(t, ts, "alice")
	assert.NotEmpty(t, token)

	// duplicate username
	resp := postJSON(t, ts, "/api/v1/auth/register", "", map[string]string{
		"username": "alice", "password": "hunter2hunter2",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	_ = resp.Body.Close()

	// login round trip
	resp = postJSON(t, ts, "/api/v1/auth/login", "", map[string]string{
		"username": "alice", "password": "hunter2hunter2",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	login := decodeBody[tokenResponse](t, resp)
	assert.NotEmpty(t, login.Token)

	// wrong password
	resp = postJSON(t, ts, "/api/v1/auth/login", "", map[string]string{
		"username": "alice", "password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	ts := newTestServer(t)

	resp, err := ts.Client().Get(ts.URL + "/api/v1/expenses/")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestProcessReceipt(t *testing.T) {
	ts := newTestServer(t)
	token := registerUser(t, ts, "bob")

	body, contentType := multipartUpload(t,
		map[string]string{"strategy": "builtin"},
		"receipt.png", "image/png", []byte("fake-image-bytes"))

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/api/v1/receipts/process", body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	outcome := decodeBody[entity.ExtractionOutcome](t, resp)
	assert.True(t, outcome.Attempted)
	assert.Equal(t, "builtin", outcome.Method)
	require.NotNil(t, outcome.Fields.Date)
	assert.Equal(t, "2024-03-15", *outcome.Fields.Date)
	require.NotNil(t, outcome.Fields.Cost)
	assert.Equal(t, "5.25", *outcome.Fields.Cost)
	assert.Equal(t, "Dining", outcome.Fields.Category)
}

func TestProcessReceiptRejectsCloudWithoutCredential(t *testing.T) {
	ts := newTestServer(t)
	token := registerUser(t, ts, "carl")

	body, contentType := multipartUpload(t,
		map[string]string{"strategy": "openai"},
		"receipt.png", "image/png", []byte("fake-image-bytes"))

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/api/v1/receipts/process", body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestExpenseLifecycle(t *testing.T) {
	ts := newTestServer(t)
	token := registerUser(t, ts, "dana")

	// create from receipt + a cost override
	body, contentType := multipartUpload(t,
		map[string]string{"trip": "springfield", "cost": "6.00"},
		"receipt.png", "image/png", []byte("fake-image-bytes"))

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/api/v1/expenses/", body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	created := decodeBody[entity.Expense](t, resp)
	assert.Equal(t, "2024-03-15", created.Date)
	assert.Equal(t, 6.00, created.Cost) // override wins over the 5.25 on the receipt
	assert.Equal(t, "Starbucks Coffee", created.Vendor)
	assert.Equal(t, "springfield", created.Trip)

	// list
	listReq, err := http.NewRequest(http.MethodGet, ts.URL+"/api/v1/expenses/?trip=springfield", nil)
	require.NoError(t, err)
	listReq.Header.Set("Authorization", "Bearer "+token)
	resp, err = ts.Client().Do(listReq)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	listed := decodeBody[[]entity.Expense](t, resp)
	require.Len(t, listed, 1)

	// update
	updReq, err := http.NewRequest(http.MethodPut, ts.URL+"/api/v1/expenses/"+created.ID.String(),
		strings.NewReader(`{"trip":"springfield","date":"2024-03-16","cost":7.5,"vendor":"Starbucks","category":"Dining"}`))
	require.NoError(t, err)
	updReq.Header.Set("Content-Type", "application/json")
	updReq.Header.Set("Authorization", "Bearer "+token)
	resp, err = ts.Client().Do(updReq)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decodeBody[entity.Expense](t, resp)
	assert.Equal(t, 7.5, updated.Cost)
	assert.Equal(t, "2024-03-16", updated.Date)

	// export
	expReq, err := http.NewRequest(http.MethodGet, ts.URL+"/api/v1/expenses/export?trip=springfield", nil)
	require.NoError(t, err)
	expReq.Header.Set("Authorization", "Bearer "+token)
	resp, err = ts.Client().Do(expReq)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "spreadsheetml")
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
	_ = resp.Body.Close()

	// delete
	delReq, err := http.NewRequest(http.MethodDelete, ts.URL+"/api/v1/expenses/"+created.ID.String(), nil)
	require.NoError(t, err)
	delReq.Header.Set("Authorization", "Bearer "+token)
	resp, err = ts.Client().Do(delReq)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	_ = resp.Body.Close()

	getReq, err := http.NewRequest(http.MethodGet, ts.URL+"/api/v1/expenses/"+created.ID.String(), nil)
	require.NoError(t, err)
	getReq.Header.Set("Authorization", "Bearer "+token)
	resp, err = ts.Client().Do(getReq)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestCreateExpenseWithoutFileNeedsOverrides(t *testing.T) {
	ts := newTestServer(t)
	token := registerUser(t, ts, "erin")

	send := func(fields map[string]string) *http.Response {
		body, contentType := multipartUpload(t, fields, "", "", nil)
		req, err := http.NewRequest(http.MethodPost, ts.URL+"/api/v1/expenses/", body)
		require.NoError(t, err)
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := ts.Client().Do(req)
		require.NoError(t, err)
		return resp
	}

	// no file, no overrides: both required fields missing
	resp := send(map[string]string{})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	rej := decodeBody[rejectionResponse](t, resp)
	require.NotNil(t, rej.Rejection)
	assert.True(t, rej.Rejection.MissingDate)
	assert.True(t, rej.Rejection.MissingCost)

	// overrides alone satisfy the gate
	resp = send(map[string]string{"date": "2026-01-02", "cost": "19.99", "vendor": "Manual"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeBody[entity.Expense](t, resp)
	assert.Equal(t, "Manual", created.Vendor)
	assert.Equal(t, 19.99, created.Cost)
}

func TestCreateExpenseFormEncodedNoFile(t *testing.T) {
	ts := newTestServer(t)
	token := registerUser(t, ts, "fred")

	form := url.Values{"date": {"2026-02-01"}, "cost": {"3.50"}}
	req, err := http.NewRequest(http.MethodPost, ts.URL+"/api/v1/expenses/", strings.NewReader(form.Encode()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	_ = resp.Body.Close()
}
