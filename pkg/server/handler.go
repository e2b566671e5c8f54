package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	ferrors "github.com/vango-dev/formkit/internal/errors"
	"github.com/vango-dev/formkit/pkg/field"
	"github.com/vango-dev/formkit/pkg/form"
)

// maxValidateBody bounds POST /validate request bodies.
const maxValidateBody = 1 << 20

// ValidateRequest is the body of POST /validate.
type ValidateRequest struct {
	Values map[string]any `json:"values"`
}

// ValidateResponse is the answer to POST /validate. Result encodes as true
// or as an object of field name to error descriptors.
type ValidateResponse struct {
	Valid  bool        `json:"valid"`
	Result form.Result `json:"result"`
}

// ErrorResponse is the body of failed requests.
type ErrorResponse struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// handleValidate builds a fresh form, applies the posted values and
// returns the validation result.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	logger := s.logger.With("request_id", middleware.GetReqID(r.Context()))

	var req ValidateRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxValidateBody))
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Message: "invalid JSON body: " + err.Error()})
		return
	}

	ctx := r.Context()
	f, err := s.build(ctx, form.WithLogger(logger))
	if err != nil {
		logger.Error("form build failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Message: "form unavailable"})
		return
	}

	if len(req.Values) > 0 {
		if err := f.SetFieldsValue(ctx, req.Values); err != nil {
			writeError(w, err)
			return
		}
	}

	result, err := f.Validate(ctx)
	if err != nil {
		logger.Error("validation failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Message: "validation failed"})
		return
	}

	if em, ok := result.(*form.ErrorMap); ok {
		result = sanitized(s, em)
	}
	writeJSON(w, http.StatusOK, ValidateResponse{Valid: result.Valid(), Result: result})
}

// sanitized returns em with every message passed through the server's
// policy.
func sanitized(s *Server, em *form.ErrorMap) form.Result {
	var reports []field.Report
	for _, name := range em.Names() {
		descs := em.Errors(name)
		for i := range descs {
			descs[i].Message = s.policy.Sanitize(descs[i].Message)
		}
		reports = append(reports, field.Report{Name: name, Errors: descs})
	}
	return form.Merge(reports)
}

func writeError(w http.ResponseWriter, err error) {
	var fe *ferrors.Error
	if errors.As(err, &fe) {
		status := http.StatusInternalServerError
		switch fe.Code {
		case "F001", "F004":
			status = http.StatusBadRequest
		}
		writeJSON(w, status, ErrorResponse{Code: fe.Code, Message: fe.Error()})
		return
	}
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{Message: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
