package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
)

// Result is the normalized outcome of a gateway call.
// Expected HTTP and business failures are reported here, not as Go errors.
type Result struct {
	// Success is true when the call returned a 2xx status and the response
	// envelope carried no errors.
	Success bool

	// Data is the raw envelope payload. Use Decode to unmarshal it.
	Data json.RawMessage

	// Meta is the raw envelope metadata (timestamp, request id), if any.
	Meta json.RawMessage

	// Error is the best available failure message. Empty on success.
	Error string

	// Code is the service error code (e.g. "AUTH_INVALID_CREDENTIALS")
	// from the first envelope error, if any.
	Code string

	// Status is the HTTP status of the response. When the envelope carries
	// a numeric error code, that code takes precedence over the transport
	// status. Zero when the request never reached the server.
	Status int
}

// ErrNoData is returned by Decode when the result carries no payload.
var ErrNoData = errors.New("gateway: result has no data")

// Decode unmarshals the result payload into v.
func (r Result) Decode(v any) error {
	if len(r.Data) == 0 {
		return ErrNoData
	}
	if err := json.Unmarshal(r.Data, v); err != nil {
		return fmt.Errorf("gateway: decode payload: %w", err)
	}
	return nil
}

// envelope is the standardized {data, meta, errors} response wrapper used by
// the Memo AI service for all JSON endpoints.
type envelope struct {
	Data   json.RawMessage `json:"data"`
	Meta   json.RawMessage `json:"meta"`
	Errors []EnvelopeError `json:"errors"`
}

// EnvelopeError is a single entry of the envelope errors array.
type EnvelopeError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Field   string    `json:"field,omitempty"`
}

// ErrorCode is an envelope error code. The service emits both string codes
// ("AUTH_SESSION_EXPIRED") and numeric ones (400), so it decodes either.
type ErrorCode string

// UnmarshalJSON accepts both string and numeric JSON values.
func (c *ErrorCode) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*c = ErrorCode(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("gateway: error code is neither string nor number: %s", b)
	}
	*c = ErrorCode(n.String())
	return nil
}

// Int returns the numeric value of the code, if it is numeric.
func (c ErrorCode) Int() (int, bool) {
	n, err := strconv.Atoi(string(c))
	if err != nil {
		return 0, false
	}
	return n, true
}

// normalize converts an HTTP response into a Result according to the
// envelope contract.
func normalize(status int, body []byte) Result {
	var env envelope
	isEnvelope := false
	if len(body) > 0 && json.Unmarshal(body, &env) == nil {
		isEnvelope = env.Data != nil || env.Meta != nil || env.Errors != nil
	}

	if isEnvelope && len(env.Errors) > 0 {
		first := env.Errors[0]
		res := Result{
			Error:  first.Message,
			Code:   string(first.Code),
			Status: status,
		}
		// A numeric envelope code is the business status and wins over the
		// transport status (e.g. HTTP 200 carrying a code 400 error).
		if n, ok := first.Code.Int(); ok {
			res.Status = n
		}
		return res
	}

	if status >= 200 && status < 300 {
		data := env.Data
		if !isEnvelope {
			// Unwrapped endpoints (e.g. /health) return bare JSON.
			data = body
		}
		return Result{Success: true, Data: data, Meta: env.Meta, Status: status}
	}

	return Result{
		Error:  transportMessage(status, body),
		Status: status,
	}
}

// transportMessage extracts the best available message from a non-envelope
// failure response.
func transportMessage(status int, body []byte) string {
	var detail struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &detail) == nil && detail.Detail != "" {
		return detail.Detail
	}
	if text := http.StatusText(status); text != "" {
		return text
	}
	return fmt.Sprintf("request failed with status %d", status)
}
