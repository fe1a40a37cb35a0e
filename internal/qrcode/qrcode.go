// Package qrcode renders join links as PNG images.
package qrcode

import (
	"fmt"
	"net/url"

	qr "github.com/skip2/go-qrcode"
)

// DefaultSize is the edge length in pixels of generated images.
const DefaultSize = 256

// Generate creates a QR code PNG image for the given content.
func Generate(content string) ([]byte, error) {
	return qr.Encode(content, qr.Medium, DefaultSize)
}

// SpectatorURL builds the websocket link a spectator uses to follow a
// session. base is an http(s) origin such as "http://localhost:8080".
func SpectatorURL(base, sessionID string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	case "http", "":
		u.Scheme = "ws"
	}
	u.Path = "/ws"
	u.RawQuery = url.Values{"session": {sessionID}, "type": {"spectator"}}.Encode()
	return u.String(), nil
}
