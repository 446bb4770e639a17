package webhook

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "s3cret"

func newTestServer(handler *recordingHandler) *Server {
	router := NewRouter(handler, discardLogger())
	meta := Meta{Login: "steward-bot", Provider: "gemini", Model: "gemini-1.5-flash"}
	return NewServer(router, testSecret, time.Minute, meta, discardLogger())
}

func postWebhook(t *testing.T, server *Server, eventType, signature string, payload []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader(payload))
	if eventType != "" {
		req.Header.Set("X-GitHub-Event", eventType)
	}
	if signature != "" {
		req.Header.Set("X-Hub-Signature-256", signature)
	}
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestWebhook_ProcessedDelivery(t *testing.T) {
	handler := &recordingHandler{}
	server := newTestServer(handler)

	payload := []byte(`{"action":"created","comment":{"body":"assign me"}}`)
	rec := postWebhook(t, server, "issue_comment", sign(payload, testSecret), payload)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "processed", decodeBody(t, rec)["status"])
	assert.Equal(t, 1, handler.issueComments)
}

func TestWebhook_IgnoredDelivery(t *testing.T) {
	server := newTestServer(&recordingHandler{})

	payload := []byte(`{"action":"completed"}`)
	rec := postWebhook(t, server, "workflow_run", sign(payload, testSecret), payload)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ignored", decodeBody(t, rec)["status"])
}

// A forged delivery must be rejected before any event handling runs.
func TestWebhook_InvalidSignature(t *testing.T) {
	handler := &recordingHandler{}
	server := newTestServer(handler)

	payload := []byte(`{"action":"created"}`)
	rec := postWebhook(t, server, "issue_comment", sign(payload, "forged"), payload)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid signature", decodeBody(t, rec)["error"])
	assert.Zero(t, handler.issueComments)
}

func TestWebhook_MissingSignature(t *testing.T) {
	server := newTestServer(&recordingHandler{})

	payload := []byte(`{"action":"created"}`)
	rec := postWebhook(t, server, "issue_comment", "", payload)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestWebhook_MissingEventHeader(t *testing.T) {
	server := newTestServer(&recordingHandler{})

	payload := []byte(`{"action":"created"}`)
	rec := postWebhook(t, server, "", sign(payload, testSecret), payload)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeBody(t, rec)["error"], "X-GitHub-Event")
}

func TestWebhook_HandlerFailure(t *testing.T) {
	handler := &recordingHandler{err: assert.AnError}
	server := newTestServer(handler)

	payload := []byte(`{"action":"created"}`)
	rec := postWebhook(t, server, "issue_comment", sign(payload, testSecret), payload)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	// Internal detail must not leak into the response.
	assert.Equal(t, "Internal server error", decodeBody(t, rec)["error"])
	assert.NotContains(t, rec.Body.String(), assert.AnError.Error())
}

func TestStatusEndpoints(t *testing.T) {
	server := newTestServer(&recordingHandler{})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	var status map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, "running", status["status"])
	assert.Equal(t, "steward", status["service"])
	assert.Equal(t, "steward-bot", status["login"])
	assert.Equal(t, "gemini", status["provider"])
	assert.Equal(t, false, status["email_enabled"])

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec = httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", decodeBody(t, rec)["status"])
}
