package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"crmvault-hq/atlas/pkg/compliance"
	"crmvault-hq/atlas/pkg/config"
)

var testReferenceTime = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	engine, err := compliance.New(
		compliance.NewPolicy(10*1024*1024, []string{"pdf", "docx", "xlsx", "png"}, 365),
		compliance.WithClock(func() time.Time { return testReferenceTime }),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	cfg := config.DefaultConfig().Server
	return NewServer(&cfg, engine, nil)
}

func postCheck(t *testing.T, handler http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/v1/compliance/check", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeCheck(t *testing.T, rec *httptest.ResponseRecorder) checkResponse {
	t.Helper()

	var resp checkResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	return resp
}

func TestHandleCheck_CleanDocument(t *testing.T) {
	srv := newTestServer(t)

	retention := testReferenceTime.AddDate(0, 6, 0)
	body, _ := json.Marshal(checkRequest{
		Filename:  "report.pdf",
		SizeBytes: 1048576,
		Metadata: &compliance.Metadata{
			Category:        "contracts",
			Confidentiality: "internal",
			RetentionDate:   &retention,
		},
	})

	rec := postCheck(t, srv.Handler(), string(body))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d, body %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}

	resp := decodeCheck(t, rec)
	if !resp.Passed {
		t.Errorf("passed = false, want true")
	}
	if resp.Score != 100 {
		t.Errorf("score = %d, want 100", resp.Score)
	}
	if len(resp.Issues) != 0 {
		t.Errorf("issues = %d, want 0", len(resp.Issues))
	}
}

func TestHandleCheck_Violations(t *testing.T) {
	srv := newTestServer(t)

	rec := postCheck(t, srv.Handler(), `{"filename":"malware.exe","size_bytes":1024,"metadata":{}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	resp := decodeCheck(t, rec)
	if resp.Passed {
		t.Errorf("passed = true, want false")
	}
	if len(resp.Issues) != 3 {
		t.Fatalf("issues = %d, want 3", len(resp.Issues))
	}
	if resp.Issues[0].Type != compliance.IssueDisallowedFileType {
		t.Errorf("issues[0].Type = %q, want %q", resp.Issues[0].Type, compliance.IssueDisallowedFileType)
	}
}

func TestHandleCheck_LinkAndVersionIssuesDoNotAffectScore(t *testing.T) {
	srv := newTestServer(t)

	expired := testReferenceTime.AddDate(0, 0, -2)
	versions := 51
	retention := testReferenceTime.AddDate(1, 0, 0)
	body, _ := json.Marshal(checkRequest{
		Filename:  "report.pdf",
		SizeBytes: 1024,
		Metadata: &compliance.Metadata{
			Category:        "contracts",
			Confidentiality: "internal",
			RetentionDate:   &retention,
		},
		LinkExpiresAt: &expired,
		VersionCount:  &versions,
	})

	resp := decodeCheck(t, postCheck(t, srv.Handler(), string(body)))
	if resp.Score != 100 {
		t.Errorf("score = %d, want 100", resp.Score)
	}
	if !resp.Passed {
		t.Errorf("passed = false, want true")
	}
	if len(resp.Issues) != 2 {
		t.Fatalf("issues = %d, want 2", len(resp.Issues))
	}

	types := map[compliance.IssueType]bool{}
	for _, issue := range resp.Issues {
		types[issue.Type] = true
	}
	if !types[compliance.IssueLinkExpired] || !types[compliance.IssueVersionLimitExceeded] {
		t.Errorf("issue types = %v, want link expired and version limit", types)
	}
}

func TestHandleCheck_BadRequests(t *testing.T) {
	srv := newTestServer(t)
	handler := srv.Handler()

	tests := []struct {
		name string
		body string
	}{
		{"malformed JSON", `{"filename":`},
		{"negative size", `{"filename":"report.pdf","size_bytes":-1}`},
		{"empty filename", `{"filename":"","size_bytes":1024}`},
		{"negative version count", `{"filename":"report.pdf","size_bytes":1024,"version_count":-1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postCheck(t, handler, tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
			}
			var resp errorResponse
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("decoding error response: %v", err)
			}
			if resp.Error == "" {
				t.Errorf("error message is empty")
			}
		})
	}
}

func TestHandleCheck_MethodNotAllowed(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/compliance/check", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
}

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if !bytes.Contains(rec.Body.Bytes(), []byte(`"status":"ok"`)) {
		t.Errorf("body = %s, want status ok", rec.Body.String())
	}
}

func TestServerLifecycle(t *testing.T) {
	srv := newTestServer(t)
	if srv.IsRunning() {
		t.Errorf("IsRunning() = true before Start")
	}
	if err := srv.Shutdown(); err != nil {
		t.Errorf("Shutdown() on stopped server error = %v", err)
	}
}
