package relay

import "testing"

func TestDecodePayloadTextContentTypes(t *testing.T) {
	cases := []string{"application/json", "text/plain", "text/plain; charset=utf-8", "TEXT/HTML"}
	for _, ct := range cases {
		p, err := DecodePayload(ct, []byte("hello"))
		if err != nil {
			t.Fatalf("%q: unexpected error %v", ct, err)
		}
		if p.Kind != Text {
			t.Fatalf("%q: expected Text, got %v", ct, p.Kind)
		}
	}
}

func TestDecodePayloadBinaryContentTypes(t *testing.T) {
	cases := []string{"application/octet-stream", "image/png", ""}
	for _, ct := range cases {
		p, err := DecodePayload(ct, []byte{0x00, 0xFF})
		if err != nil {
			t.Fatalf("%q: unexpected error %v", ct, err)
		}
		if p.Kind != Binary {
			t.Fatalf("%q: expected Binary, got %v", ct, p.Kind)
		}
	}
}

func TestDecodePayloadInvalidUTF8IsBadRequest(t *testing.T) {
	_, err := DecodePayload("text/plain", []byte{0xFF})
	if err != ErrBadRequest {
		t.Fatalf("expected ErrBadRequest, got %v", err)
	}
}

func TestDecodePayloadPreservesBytesRoundTrip(t *testing.T) {
	data := []byte{0x00, 0xFF, 0x10}
	p, err := DecodePayload("application/octet-stream", data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(p.Data) != string(data) {
		t.Fatalf("payload bytes changed: got %v, want %v", p.Data, data)
	}
}
