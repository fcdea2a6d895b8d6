package service

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"
)

// QRSize is the width and height of generated QR codes, in pixels.
const QRSize = 256

// QRGenerator renders order tracking links as QR codes.
type QRGenerator struct {
	baseURL string
	size    int
}

// NewQRGenerator creates a generator for links under baseURL.
func NewQRGenerator(baseURL string) *QRGenerator {
	return &QRGenerator{baseURL: strings.TrimRight(baseURL, "/"), size: QRSize}
}

// TrackingURL returns the page where an order can be followed.
func (g *QRGenerator) TrackingURL(id uuid.UUID) string {
	return g.baseURL + "/pedidos/" + id.String()
}

// PNG encodes the tracking URL of id.
func (g *QRGenerator) PNG(id uuid.UUID) ([]byte, error) {
	png, err := qrcode.Encode(g.TrackingURL(id), qrcode.Medium, g.size)
	if err != nil {
		return nil, fmt.Errorf("failed to encode qr code: %w", err)
	}
	return png, nil
}
