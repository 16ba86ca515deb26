package chi

import (
	"encoding/json"
	"net/http"
)

// ErrorCode identifies an error category in API responses.
type ErrorCode string

// API error codes.
const (
	CodeBadRequest             ErrorCode = "bad_request"
	CodeUnauthorized           ErrorCode = "unauthorized"
	CodeRecordNotFound         ErrorCode = "record_not_found"
	CodeAlreadyExists          ErrorCode = "already_exists"
	CodeScoreOutOfRange        ErrorCode = "score_out_of_range"
	CodeInvalidWeights         ErrorCode = "invalid_weights"
	CodeSchemaMismatch         ErrorCode = "schema_mismatch"
	CodeStaleEncoding          ErrorCode = "stale_encoding"
	CodeEmptyPopulation        ErrorCode = "empty_population"
	CodeInsufficientCandidates ErrorCode = "insufficient_candidates"
	CodeInternal               ErrorCode = "internal"
)

// errorResponse is the JSON error envelope.
type errorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, msg string) {
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
