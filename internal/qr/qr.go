// Package qr renders payment strings as scannable PNG images.
package qr

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// EncodePNG renders text as a PNG QR code of size x size pixels with medium
// error correction.
func EncodePNG(text string, size int) ([]byte, error) {
	png, err := qrcode.Encode(text, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("encode qr code: %w", err)
	}
	return png, nil
}
