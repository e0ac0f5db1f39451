package source

import (
	"fmt"
	"image"
	"strings"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/ivlev/pic2ascii/internal/errors"
)

// ParseQRLevel maps "low", "medium", "high" or "highest" to a recovery level.
func ParseQRLevel(s string) (qrcode.RecoveryLevel, error) {
	switch strings.ToLower(s) {
	case "low", "l":
		return qrcode.Low, nil
	case "medium", "m", "":
		return qrcode.Medium, nil
	case "high", "q":
		return qrcode.High, nil
	case "highest", "h":
		return qrcode.Highest, nil
	default:
		return 0, errors.New(errors.ErrCodeInvalidInput, "unknown qr level: %s (must be low, medium, high or highest)", s)
	}
}

// QRSource is a single page holding a QR code for Content.
type QRSource struct {
	Content string
	Size    int // side length in pixels
	Level   qrcode.RecoveryLevel
	// Border keeps the quiet zone around the symbol.
	Border bool
}

func NewQRSource(content string, size int, level qrcode.RecoveryLevel) (*QRSource, error) {
	if content == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "qr content is empty")
	}
	if size <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidParameter, "qr size must be positive, got %d", size)
	}
	return &QRSource{Content: content, Size: size, Level: level, Border: true}, nil
}

func (q *QRSource) PageCount() int {
	return 1
}

func (q *QRSource) GetPageDimensions(index int) (float64, float64, error) {
	return float64(q.Size), float64(q.Size), nil
}

func (q *QRSource) RenderPage(index int, dpi int) (image.Image, error) {
	if index != 0 {
		return nil, fmt.Errorf("qr source has a single page, got index %d", index)
	}
	code, err := qrcode.New(q.Content, q.Level)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "encode qr")
	}
	code.DisableBorder = !q.Border
	return code.Image(q.Size), nil
}

func (q *QRSource) Close() error {
	return nil
}
