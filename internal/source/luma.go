package source

import (
	"image"
	"image/color"
	"image/draw"
)

// ToLuma writes the luminance of img into dst, which must have the same bounds.
// Weights are Rec. 709 in integer form, (2126 R + 7152 G + 722 B) / 10000, on
// non-premultiplied 8-bit channels.
func ToLuma(img image.Image, dst *image.Gray) {
	bounds := img.Bounds()

	if gray, ok := img.(*image.Gray); ok {
		draw.Draw(dst, bounds, gray, bounds.Min, draw.Src)
		return
	}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			dst.Pix[dst.PixOffset(x, y)] = Luma(c.R, c.G, c.B)
		}
	}
}

// Luma returns the Rec. 709 luminance of an 8-bit RGB triple.
func Luma(r, g, b uint8) uint8 {
	return uint8((2126*uint32(r) + 7152*uint32(g) + 722*uint32(b)) / 10000)
}

// Grayscale allocates a new gray image and fills it with ToLuma.
func Grayscale(img image.Image) *image.Gray {
	dst := image.NewGray(img.Bounds())
	ToLuma(img, dst)
	return dst
}
