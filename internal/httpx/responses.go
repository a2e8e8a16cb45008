package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

type SuccessResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data,omitempty"`
	Meta    any  `json:"meta,omitempty"`
}

type ErrorResponse struct {
	Success bool              `json:"success"`
	Error   ErrorResponseBody `json:"error"`
	Meta    any               `json:"meta,omitempty"`
}

type ErrorResponseBody struct {
	Code    string        `json:"code"`
	Message string        `json:"message"`
	Details []ErrorDetail `json:"details,omitempty"`
}

type ErrorDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// buildMeta returns an untyped nil when there is nothing to report so the
// meta key is omitted.
func buildMeta(r *http.Request, custom map[string]any) any {
	requestID := RequestIDFrom(r)
	if requestID == "" && len(custom) == 0 {
		return nil
	}
	meta := make(map[string]any, len(custom)+1)
	for k, v := range custom {
		meta[k] = v
	}
	if requestID != "" {
		meta["request_id"] = requestID
	}
	return meta
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// JSON writes a success envelope with the given status.
func JSON(w http.ResponseWriter, r *http.Request, status int, data any, meta map[string]any) {
	writeJSON(w, status, SuccessResponse{
		Success: true,
		Data:    data,
		Meta:    buildMeta(r, meta),
	})
}

func JSONSuccess(w http.ResponseWriter, r *http.Request, data any, meta map[string]any) {
	JSON(w, r, http.StatusOK, data, meta)
}

func JSONCreated(w http.ResponseWriter, r *http.Request, data any) {
	JSON(w, r, http.StatusCreated, data, nil)
}

func JSONAccepted(w http.ResponseWriter, r *http.Request, data any) {
	JSON(w, r, http.StatusAccepted, data, nil)
}

func JSONNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

func JSONError(w http.ResponseWriter, r *http.Request, status int, code, message string, details []ErrorDetail) {
	writeJSON(w, status, ErrorResponse{
		Success: false,
		Error: ErrorResponseBody{
			Code:    code,
			Message: message,
			Details: details,
		},
		Meta: buildMeta(r, nil),
	})
}

// ErrBadJSON wraps every DecodeJSON failure except oversize bodies.
var ErrBadJSON = errors.New("malformed JSON body")

// DecodeJSON reads exactly one JSON value into dst. Unknown fields are
// rejected. A body over the size limit yields *http.MaxBytesError.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrBadJSON, err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: trailing data", ErrBadJSON)
	}
	return nil
}

// DecodeError writes the response for a DecodeJSON failure.
func DecodeError(w http.ResponseWriter, r *http.Request, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		JSONError(w, r, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "Request body too large", nil)
		return
	}
	JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
}
