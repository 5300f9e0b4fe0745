// ABOUTME: Typed decoder for backend error payloads
// ABOUTME: Extracts one human-readable message using a fixed priority order

package apierr

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// maxErrorBody caps how much of an error response is read
const maxErrorBody = 64 << 10

// FieldError holds the messages the backend attached to one input field
type FieldError struct {
	Field    string
	Messages []string
}

// Payload is a decoded backend error body.
//
// The backend reports errors in three shapes: a non_field_errors list, a
// generic detail string, and per-field message lists. Fields keeps the order
// in which the backend emitted them.
type Payload struct {
	NonFieldErrors []string
	Detail         string
	Fields         []FieldError

	// first is the first message of the first key, in body order
	first string
}

// Decode parses an error body. It returns nil when the body carries nothing
// recognizable.
func Decode(data []byte) *Payload {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil
	}

	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		// A bare list or string is a validation error without a field
		if msgs := messages(data); len(msgs) > 0 {
			return &Payload{NonFieldErrors: msgs, first: msgs[0]}
		}
		return nil
	}

	p := &Payload{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			break
		}
		key, _ := keyTok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			break
		}

		msgs := messages(raw)
		if len(msgs) == 0 {
			continue
		}
		if p.first == "" {
			p.first = msgs[0]
		}

		switch key {
		case "non_field_errors":
			p.NonFieldErrors = msgs
		case "detail":
			p.Detail = msgs[0]
		default:
			p.Fields = append(p.Fields, FieldError{Field: key, Messages: msgs})
		}
	}

	if len(p.NonFieldErrors) == 0 && p.Detail == "" && len(p.Fields) == 0 {
		return nil
	}
	return p
}

// messages flattens a JSON value into its string messages
func messages(raw []byte) []string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if s == "" {
			return nil
		}
		return []string{s}
	}

	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err == nil {
		var out []string
		for _, item := range list {
			out = append(out, messages(item)...)
		}
		return out
	}

	// Nested serializer errors: take the first message of the inner object
	if !bytes.HasPrefix(bytes.TrimSpace(raw), []byte("{")) {
		return nil
	}
	if nested := Decode(raw); nested != nil {
		if msg := nested.Message(); msg != "" {
			return []string{msg}
		}
	}
	return nil
}

// Message returns the first available message: non_field_errors, then detail,
// then the first flagged field. Empty when nothing is available.
func (p *Payload) Message() string {
	if p == nil {
		return ""
	}
	if len(p.NonFieldErrors) > 0 {
		return p.NonFieldErrors[0]
	}
	if p.Detail != "" {
		return p.Detail
	}
	for _, f := range p.Fields {
		if len(f.Messages) > 0 {
			return f.Messages[0]
		}
	}
	return ""
}

// FirstMessage returns the first message in the order the backend emitted
// its keys, whichever kind of key it was
func (p *Payload) FirstMessage() string {
	if p == nil {
		return ""
	}
	return p.first
}

// Field returns the messages attached to a named field
func (p *Payload) Field(name string) []string {
	if p == nil {
		return nil
	}
	for _, f := range p.Fields {
		if f.Field == name {
			return f.Messages
		}
	}
	return nil
}

// Error is a non-2xx response from the backend
type Error struct {
	StatusCode int
	Payload    *Payload
}

func (e *Error) Error() string {
	if msg := e.Payload.Message(); msg != "" {
		return fmt.Sprintf("backend error (status %d): %s", e.StatusCode, msg)
	}
	return fmt.Sprintf("backend returned status %d", e.StatusCode)
}

// Message returns the backend's message, or the HTTP status text
func (e *Error) Message() string {
	if msg := e.Payload.Message(); msg != "" {
		return msg
	}
	return http.StatusText(e.StatusCode)
}

// FromResponse builds an Error from a response, consuming its body
func FromResponse(resp *http.Response) *Error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &Error{
		StatusCode: resp.StatusCode,
		Payload:    Decode(body),
	}
}
