package model

import "time"

// Envelope statuses
const (
	StatusSuccess = "success"
	StatusError   = "error"
	StatusInfo    = "info"
)

// Envelope is the uniform response wrapper returned by every operation
type Envelope struct {
	Status    string         `json:"status"`
	Message   string         `json:"message"`
	Data      map[string]any `json:"data"`
	Timestamp string         `json:"timestamp"`
}

// NewEnvelope builds an envelope with the current timestamp. A nil data map
// becomes an empty object so callers always see the full shape.
func NewEnvelope(status, message string, data map[string]any) Envelope {
	if data == nil {
		data = map[string]any{}
	}
	return Envelope{
		Status:    status,
		Message:   message,
		Data:      data,
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

// Success builds a success envelope
func Success(message string, data map[string]any) Envelope {
	return NewEnvelope(StatusSuccess, message, data)
}

// Error builds an error envelope
func Error(message string) Envelope {
	return NewEnvelope(StatusError, message, nil)
}

// Info builds an info envelope
func Info(message string) Envelope {
	return NewEnvelope(StatusInfo, message, nil)
}
