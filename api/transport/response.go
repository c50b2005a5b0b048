package transport

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Envelope wraps every endpoint's payload. On the error side Code
// carries the domain error code the handlers map to an HTTP status,
// so clients can branch on it without parsing messages.
type Envelope struct {
	Status string      `json:"status"`
	Code   string      `json:"code,omitempty"`
	Data   interface{} `json:"data,omitempty"`
	Error  interface{} `json:"error,omitempty"`
	Meta   interface{} `json:"meta,omitempty"`
}

// IsError reports whether the envelope carries an error payload.
func (e Envelope) IsError() bool { return e.Status == statusError }

// NewSuccess wraps response data, with optional list metadata.
func NewSuccess(data interface{}, meta interface{}) Envelope {
	return Envelope{Status: statusSuccess, Data: data, Meta: meta}
}

// NewError wraps a failure. code is a domain error code, err the
// client-facing description.
func NewError(code string, err interface{}, meta interface{}) Envelope {
	return Envelope{Status: statusError, Code: code, Error: err, Meta: meta}
}
