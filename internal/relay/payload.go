package relay

import (
	"strings"
	"unicode/utf8"
)

// Kind distinguishes the wire representation of a relayed message,
// preserved end to end from publish Content-Type to WebSocket frame
// type.
type Kind int

const (
	// Binary frames carry an opaque byte sequence.
	Binary Kind = iota
	// Text frames carry a UTF-8 string.
	Text
)

// Payload is the message body handed from a publish request to the
// dispatcher and on to a session's send pipeline.
type Payload struct {
	Kind Kind
	Data []byte
}

// DecodePayload classifies a publish body by its Content-Type header:
//
//	application/json   -> text, body must be valid UTF-8
//	text/*             -> text, body must be valid UTF-8
//	anything else      -> binary, no validation
//
// It returns ErrBadRequest if a text-typed body is not valid UTF-8.
func DecodePayload(contentType string, body []byte) (Payload, error) {
	if isTextContentType(contentType) {
		if !utf8.Valid(body) {
			return Payload{}, ErrBadRequest
		}
		return Payload{Kind: Text, Data: body}, nil
	}
	return Payload{Kind: Binary, Data: body}, nil
}

func isTextContentType(contentType string) bool {
	// Strip any parameters (e.g. "text/plain; charset=utf-8").
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}
	contentType = strings.TrimSpace(strings.ToLower(contentType))
	if contentType == "application/json" {
		return true
	}
	return strings.HasPrefix(contentType, "text/")
}
