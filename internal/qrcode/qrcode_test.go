package qrcode

import (
	"bytes"
	"testing"
)

func TestGenerate(t *testing.T) {
	png, err := Generate("ws://localhost:8080/ws?session=abc&type=spectator")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG\r\n\x1a\n")) {
		t.Fatalf("output is not a PNG")
	}
}

func TestSpectatorURL(t *testing.T) {
	tests := []struct {
		base, want string
	}{
		{"http://localhost:8080", "ws://localhost:8080/ws?session=abc&type=spectator"},
		{"https://dice.example", "wss://dice.example/ws?session=abc&type=spectator"},
		{"https://dice.example/app", "wss://dice.example/ws?session=abc&type=spectator"},
	}
	for _, tt := range tests {
		got, err := SpectatorURL(tt.base, "abc")
		if err != nil {
			t.Fatalf("%s: %v", tt.base, err)
		}
		if got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.base, got, tt.want)
		}
	}
}
