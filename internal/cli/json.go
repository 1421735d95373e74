package cli

import (
	"encoding/json"
	"errors"
	"io"
	"strings"

	pderrors "github.com/rileyhilliard/plantdash/internal/errors"
)

// JSONEnvelope wraps command output in a consistent structure for machine parsing.
// All --json output should use this envelope.
type JSONEnvelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *JSONError  `json:"error,omitempty"`
}

// JSONError provides structured error information for machine parsing.
type JSONError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
}

// Error codes for machine-readable output.
const (
	ErrCodeConfigNotFound = "CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid  = "CONFIG_INVALID"
	ErrCodeCatalogInvalid = "CATALOG_INVALID"
	ErrCodeUnknownMetric  = "UNKNOWN_METRIC"
	ErrCodeInvalidRange   = "INVALID_RANGE"
	ErrCodeServeFailed    = "SERVE_FAILED"
	ErrCodeCommandFailed  = "COMMAND_FAILED"
	ErrCodeUnknown        = "UNKNOWN"
)

// WriteJSONSuccess writes a successful response with data to the writer.
func WriteJSONSuccess(w io.Writer, data interface{}) error {
	return writeJSONEnvelope(w, JSONEnvelope{Success: true, Data: data})
}

// WriteJSONFromError converts a Go error to a JSON error response.
func WriteJSONFromError(w io.Writer, err error) error {
	return writeJSONEnvelope(w, JSONEnvelope{Success: false, Error: ErrorToJSON(err)})
}

func writeJSONEnvelope(w io.Writer, env JSONEnvelope) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(env)
}

// ErrorToJSON converts a Go error to a JSONError with appropriate code mapping.
func ErrorToJSON(err error) *JSONError {
	if err == nil {
		return nil
	}

	var pe *pderrors.Error
	if errors.As(err, &pe) {
		return &JSONError{
			Code:       mapErrorCode(pe),
			Message:    pe.Message,
			Suggestion: pe.Suggestion,
		}
	}

	return &JSONError{
		Code:    ErrCodeUnknown,
		Message: err.Error(),
	}
}

// mapErrorCode maps internal error codes to machine-readable codes.
func mapErrorCode(pe *pderrors.Error) string {
	switch pe.Code {
	case pderrors.ErrConfig:
		msg := strings.ToLower(pe.Message)
		if strings.Contains(msg, "not found") {
			return ErrCodeConfigNotFound
		}
		return ErrCodeConfigInvalid
	case pderrors.ErrCatalog:
		if strings.HasPrefix(pe.Message, "Metric '") && strings.HasSuffix(pe.Message, "is not in the catalog") {
			return ErrCodeUnknownMetric
		}
		return ErrCodeCatalogInvalid
	case pderrors.ErrRange:
		return ErrCodeInvalidRange
	case pderrors.ErrServe:
		return ErrCodeServeFailed
	case pderrors.ErrExec:
		return ErrCodeCommandFailed
	}
	return ErrCodeUnknown
}

// finish reports err either as a JSON envelope or as a plain error.
// In JSON mode the envelope is the output, so a failure becomes exit code 1.
func finish(w io.Writer, asJSON bool, data interface{}, err error) error {
	if !asJSON {
		return err
	}
	if err != nil {
		if werr := WriteJSONFromError(w, err); werr != nil {
			return werr
		}
		return pderrors.NewExitError(1)
	}
	return WriteJSONSuccess(w, data)
}
