package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"crmvault-hq/atlas/pkg/compliance"
)

// checkRequest is the request body for a compliance check.
type checkRequest struct {
	// Filename is the document's filename, including its extension.
	Filename string `json:"filename"`

	// SizeBytes is the document size in bytes.
	SizeBytes int64 `json:"size_bytes"`

	// Metadata is the document's optional compliance metadata.
	Metadata *compliance.Metadata `json:"metadata,omitempty"`

	// LinkExpiresAt optionally runs the share-link expiry check.
	LinkExpiresAt *time.Time `json:"link_expires_at,omitempty"`

	// VersionCount optionally runs the version-count check against the
	// policy's version limit.
	VersionCount *int `json:"version_count,omitempty"`
}

// checkResponse is the response body for a compliance check. Link and
// version issues are appended to the issue list but do not alter the score.
type checkResponse struct {
	Passed bool               `json:"passed"`
	Score  int                `json:"score"`
	Issues []compliance.Issue `json:"issues"`
}

// errorResponse is the body returned for request errors.
type errorResponse struct {
	Error string `json:"error"`
}

// handleCheck evaluates a document's facts and returns the compliance
// result. Policy violations are reported in the issue list with status 200;
// only malformed requests produce an error status.
func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req checkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	start := time.Now()
	result, err := s.engine.CheckDocument(req.Filename, req.SizeBytes, req.Metadata)
	if err != nil {
		if errors.Is(err, compliance.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error("compliance check failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if s.metrics != nil {
		s.metrics.Compliance.ObserveCheck(result, time.Since(start))
	}

	issues := result.Issues
	if linkIssue := s.engine.CheckLinkExpiry(req.LinkExpiresAt); linkIssue != nil {
		issues = append(issues, *linkIssue)
		if s.metrics != nil {
			s.metrics.Compliance.ObserveIssue(*linkIssue)
		}
	}
	if req.VersionCount != nil {
		versionIssue, err := s.engine.CheckVersionCount(*req.VersionCount, 0)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if versionIssue != nil {
			issues = append(issues, *versionIssue)
			if s.metrics != nil {
				s.metrics.Compliance.ObserveIssue(*versionIssue)
			}
		}
	}

	if issues == nil {
		issues = []compliance.Issue{}
	}
	writeJSON(w, http.StatusOK, checkResponse{
		Passed: result.Passed,
		Score:  result.Score,
		Issues: issues,
	})
}

// handleHealth is the liveness probe.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
