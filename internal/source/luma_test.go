package source

import (
	"image"
	"image/color"
	"testing"
)

func TestLuma(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b uint8
		want    uint8
	}{
		{"black", 0, 0, 0, 0},
		{"white", 255, 255, 255, 255},
		{"red", 255, 0, 0, 54},
		{"green", 0, 255, 0, 182},
		{"blue", 0, 0, 255, 18},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Luma(tt.r, tt.g, tt.b); got != tt.want {
				t.Errorf("Luma(%d, %d, %d) = %d, want %d", tt.r, tt.g, tt.b, got, tt.want)
			}
		})
	}
}

func TestToLumaRGBA(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	img.Set(1, 0, color.RGBA{R: 255, G: 255, B: 255, A: 255})

	gray := Grayscale(img)
	if gray.GrayAt(0, 0).Y != 54 {
		t.Errorf("Expected red to map to 54, got %d", gray.GrayAt(0, 0).Y)
	}
	if gray.GrayAt(1, 0).Y != 255 {
		t.Errorf("Expected white to map to 255, got %d", gray.GrayAt(1, 0).Y)
	}
}

func TestToLumaGrayCopiesVerbatim(t *testing.T) {
	src := image.NewGray(image.Rect(5, 5, 9, 7))
	for i := range src.Pix {
		src.Pix[i] = uint8(i * 30)
	}

	dst := image.NewGray(src.Bounds())
	ToLuma(src, dst)

	for i := range src.Pix {
		if dst.Pix[i] != src.Pix[i] {
			t.Fatalf("pixel %d: got %d, want %d", i, dst.Pix[i], src.Pix[i])
		}
	}
}
