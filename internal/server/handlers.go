package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/jonathan/geo-prospector/internal/prospect"
	"github.com/jonathan/geo-prospector/internal/schemas"
	"github.com/jonathan/geo-prospector/internal/types"
)

// maxBodyBytes bounds the request body.
const maxBodyBytes = 1 << 20

// actionTestAPI routes a POST body to the validator only.
const actionTestAPI = "test-api"

// functionName is the last path segment under which a gateway exposes the job.
const functionName = "geo-prospector"

// ProspectRequest is the JSON body of a prospecting request.
type ProspectRequest struct {
	Action     string   `json:"action,omitempty"`
	Cities     []string `json:"cities,omitempty"`
	Categories []string `json:"categories,omitempty"`
	MaxResults int      `json:"maxResults,omitempty"`
	TestMode   bool     `json:"testMode,omitempty"`
}

// abortResponse is the 400 body of a run stopped by credential validation.
type abortResponse struct {
	Success     bool            `json:"success"`
	Error       string          `json:"error"`
	ErrorType   types.ErrorKind `json:"error_type"`
	Details     map[string]any  `json:"details,omitempty"`
	Remediation []string        `json:"remediation,omitempty"`
}

// handleProspect runs one prospecting invocation, or the validator when the
// body asks for the test-api action.
func (s *Server) handleProspect(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	if err := schemas.ValidateProspectRequest(body); err != nil {
		s.validationErrorResponse(w, err)
		return
	}

	var req ProspectRequest
	if len(strings.TrimSpace(string(body))) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			verr := bodyError(err)
			s.errorResponse(w, HTTPStatus(verr), verr.Error())
			return
		}
	}

	if req.Action == actionTestAPI {
		s.handleTestAPI(w, r)
		return
	}

	summary, err := s.prospector.Run(r.Context(), prospect.Request{
		Cities:     req.Cities,
		Categories: req.Categories,
		MaxResults: req.MaxResults,
		TestMode:   req.TestMode,
	})
	if err != nil {
		var abort *prospect.AbortError
		if errors.As(err, &abort) {
			s.jsonResponse(w, HTTPStatus(err), abortResponse{
				Success:     false,
				Error:       abort.Result.Error,
				ErrorType:   abort.Result.Kind,
				Details:     abort.Result.Details,
				Remediation: abort.Result.Remediation,
			})
			return
		}
		s.logger.Error("prospecting run failed", "error", err)
		if status := HTTPStatus(err); status != http.StatusInternalServerError {
			s.errorResponse(w, status, err.Error())
			return
		}
		s.internalErrorResponse(w, err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, summary)
}

// handleTestAPI runs the credential validator only.
func (s *Server) handleTestAPI(w http.ResponseWriter, r *http.Request) {
	result := s.prospector.TestAPI(r.Context())
	status := http.StatusOK
	if !result.Valid {
		status = http.StatusBadRequest
	}
	s.jsonResponse(w, status, result)
}

// handleHealth returns server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleFallback serves gateway-prefixed paths such as
// /functions/v1/geo-prospector and /functions/v1/geo-prospector/test-api,
// and answers everything else with 404.
func (s *Server) handleFallback(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimRight(r.URL.Path, "/")
	switch {
	case strings.HasSuffix(path, "/"+actionTestAPI) &&
		(r.Method == http.MethodGet || r.Method == http.MethodPost):
		s.handleTestAPI(w, r)
	case r.Method == http.MethodPost &&
		(strings.HasSuffix(path, "/"+functionName) || strings.HasSuffix(path, "/prospect")):
		s.handleProspect(w, r)
	default:
		s.errorResponse(w, http.StatusNotFound, "not found")
	}
}

// bodyError reports a body that passed the schema but does not decode, such
// as an integer too large for maxResults.
func bodyError(err error) *ErrValidation {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return &ErrValidation{Field: typeErr.Field, Message: "cannot be decoded as " + typeErr.Type.String()}
	}
	return &ErrValidation{Field: "body", Message: "invalid JSON"}
}

func (s *Server) validationErrorResponse(w http.ResponseWriter, err error) {
	var ve *schemas.ValidationError
	if errors.As(err, &ve) {
		s.jsonResponse(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"error":   "invalid request body",
			"details": ve.Errors,
		})
		return
	}
	s.errorResponse(w, HTTPStatus(err), err.Error())
}
