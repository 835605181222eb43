package payload

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"
)

func TestDetectKind(t *testing.T) {
	tests := []struct {
		name string
		data string
		want Kind
	}{
		{"png image", "data:image/png;base64,aWlp", KindImage},
		{"jpeg image", "data:image/jpeg;base64,aWlp", KindImage},
		{"pdf", "data:application/pdf;base64,cGRm", KindPDF},
		{"plain text", "data:text/plain;base64,dGV4dA==", KindText},
		{"html is not allowed", "data:text/html;base64,PGI+", KindUnknown},
		{"no prefix", "aGVsbG8=", KindUnknown},
		{"empty", "", KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectKind(tt.data); got != tt.want {
				t.Errorf("DetectKind() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	raw := []byte("hello, slots")
	data := Encode("text/plain", raw)

	if !strings.HasPrefix(data, "data:text/plain;base64,") {
		t.Fatalf("encoded payload has wrong prefix: %q", data)
	}

	mime, decoded, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if mime != "text/plain" {
		t.Errorf("mime = %q, want text/plain", mime)
	}
	if string(decoded) != string(raw) {
		t.Errorf("decoded = %q, want %q", decoded, raw)
	}
}

func TestDecodeText(t *testing.T) {
	text := "line one\nline two"
	data := Encode("text/plain", []byte(text))

	got, err := DecodeText(data)
	if err != nil {
		t.Fatalf("DecodeText failed: %v", err)
	}
	if got != text {
		t.Errorf("DecodeText = %q, want %q", got, text)
	}

	if _, err := DecodeText(Encode("image/png", []byte{1, 2, 3})); err == nil {
		t.Error("DecodeText should reject non-text payloads")
	}
	if _, err := DecodeText("data:text/plain;base64,!!!notb64"); err == nil {
		t.Error("DecodeText should reject malformed base64")
	}
}

func TestValidate(t *testing.T) {
	smallText := Encode("text/plain", []byte("ok"))
	bigBody := base64.StdEncoding.EncodeToString(make([]byte, 2048))

	tests := []struct {
		name     string
		data     string
		maxBytes int64
		wantErr  bool
	}{
		{"allowed text", smallText, 1024, false},
		{"allowed image", Encode("image/png", []byte{0x89, 0x50}), 1024, false},
		{"allowed pdf", Encode("application/pdf", []byte("%PDF")), 1024, false},
		{"disallowed type", "data:application/zip;base64,UEs=", 1024, true},
		{"over size ceiling", "data:text/plain;base64," + bigBody, 1024, true},
		{"bad base64 body", "data:text/plain;base64,%%%", 1024, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate("f.bin", tt.data, tt.maxBytes)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var vErr *ValidationError
				if !errors.As(err, &vErr) {
					t.Errorf("error type = %T, want *ValidationError", err)
				}
			}
		})
	}
}
