// Package raster turns a grayscale sample grid into ASCII art.
//
// The image is cut into blocks of BlockWidth x BlockHeight samples. Each block's
// mean luminance picks one of ten characters from DensityScale, lightest first.
// Pixels left over when a dimension is not a multiple of the block size are
// dropped: a 20x20 image with 8x16 blocks yields one row of two characters.
//
// Start with Rasterize for a one-off call, or New with options for a reusable
// Rasterizer. A Rasterizer is immutable after construction and safe for
// concurrent use.
package raster

import (
	"image"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/ivlev/pic2ascii/internal/errors"
)

// DensityScale lists the output characters from lightest (index 0) to heaviest (index 9).
const DensityScale = " .:-=+*#%@"

// Levels is the number of density steps.
const Levels = len(DensityScale)

// Polarity selects which end of the scale bright pixels land on.
type Polarity bool

const (
	// Light is for text shown on a light background: bright pixels become light marks.
	Light Polarity = false
	// Dark is for text shown on a dark background: bright pixels become heavy marks.
	Dark Polarity = true
)

func (p Polarity) String() string {
	if p == Dark {
		return "dark"
	}
	return "light"
}

// Samples is a read-only grid of 8-bit intensities.
type Samples interface {
	Dimensions() (width, height int)
	Sample(x, y int) uint8
}

// Gray adapts *image.Gray to Samples. Coordinates are relative to Rect.Min.
type Gray struct {
	img *image.Gray
}

// FromGray wraps img. The image must not be modified while it is rasterized.
func FromGray(img *image.Gray) Gray {
	return Gray{img: img}
}

func (g Gray) Dimensions() (int, int) {
	b := g.img.Bounds()
	return b.Dx(), b.Dy()
}

func (g Gray) Sample(x, y int) uint8 {
	origin := g.img.Rect.Min
	return g.img.Pix[g.img.PixOffset(origin.X+x, origin.Y+y)]
}

// DensityIndex maps a mean luminance onto 0..9 as floor(mean/256*10).
// 255 maps to 9, never 10.
func DensityIndex(mean uint8) int {
	return int(mean) * Levels / 256
}

// Char returns the scale character for mean under polarity p.
func Char(mean uint8, p Polarity) byte {
	idx := DensityIndex(mean)
	if p == Light {
		idx = Levels - 1 - idx
	}
	return DensityScale[idx]
}

// GridSize returns how many block rows and columns fit in a w x h image.
func GridSize(w, h, bw, bh int) (rows, cols int) {
	return h / bh, w / bw
}

// Rasterizer holds the block grid configuration.
type Rasterizer struct {
	BlockWidth  int
	BlockHeight int
	Polarity    Polarity
	// Workers is the number of rows computed concurrently. Values below 2 keep
	// the single-threaded nested loop.
	Workers int
}

// Option configures a Rasterizer.
type Option func(*Rasterizer)

// WithBlockSize sets the block width and height in pixels.
func WithBlockSize(bw, bh int) Option {
	return func(r *Rasterizer) {
		r.BlockWidth = bw
		r.BlockHeight = bh
	}
}

// WithPolarity sets the background polarity.
func WithPolarity(p Polarity) Option {
	return func(r *Rasterizer) {
		r.Polarity = p
	}
}

// WithWorkers enables row-level concurrency.
func WithWorkers(n int) Option {
	return func(r *Rasterizer) {
		r.Workers = n
	}
}

// New returns a Rasterizer with 8x16 blocks on a light background, adjusted by opts.
func New(opts ...Option) *Rasterizer {
	r := &Rasterizer{
		BlockWidth:  8,
		BlockHeight: 16,
		Polarity:    Light,
		Workers:     1,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Rasterize converts img with the given block size and polarity.
func Rasterize(img Samples, bw, bh int, p Polarity) (string, error) {
	return New(WithBlockSize(bw, bh), WithPolarity(p)).Rasterize(img)
}

// Validate reports an INVALID_PARAMETER error for non-positive block sizes.
func (r *Rasterizer) Validate() error {
	if r.BlockWidth <= 0 {
		return errors.New(errors.ErrCodeInvalidParameter, "block width must be positive, got %d", r.BlockWidth)
	}
	if r.BlockHeight <= 0 {
		return errors.New(errors.ErrCodeInvalidParameter, "block height must be positive, got %d", r.BlockHeight)
	}
	return nil
}

// Rasterize converts img into newline-terminated rows of DensityScale characters.
// An image shorter than one block yields "". One narrower than a block yields
// an empty line per block row. Neither is an error.
func (r *Rasterizer) Rasterize(img Samples) (string, error) {
	if err := r.Validate(); err != nil {
		return "", err
	}
	if img == nil {
		return "", errors.New(errors.ErrCodeInvalidParameter, "image is nil")
	}

	w, h := img.Dimensions()
	rows, cols := GridSize(w, h, r.BlockWidth, r.BlockHeight)
	if rows == 0 || cols == 0 {
		return strings.Repeat("\n", rows), nil
	}

	if r.Workers > 1 && rows > 1 {
		return r.rasterizeRows(img, rows, cols)
	}

	var b strings.Builder
	b.Grow(rows * (cols + 1))
	line := make([]byte, cols+1)
	for row := range rows {
		r.fillRow(img, row, line)
		b.Write(line)
	}
	return b.String(), nil
}

// rasterizeRows computes each row in its own task and joins them in order.
func (r *Rasterizer) rasterizeRows(img Samples, rows, cols int) (string, error) {
	out := make([]byte, rows*(cols+1))

	var g errgroup.Group
	g.SetLimit(r.Workers)
	for row := range rows {
		line := out[row*(cols+1) : (row+1)*(cols+1)]
		g.Go(func() error {
			r.fillRow(img, row, line)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}
	return string(out), nil
}

// fillRow writes one character per block of block-row row into line and ends
// it with '\n'. len(line) must be cols+1.
func (r *Rasterizer) fillRow(img Samples, row int, line []byte) {
	bw, bh := r.BlockWidth, r.BlockHeight
	count := uint64(bw * bh)
	cols := len(line) - 1

	for col := range cols {
		var sum uint64
		for x := col * bw; x < (col+1)*bw; x++ {
			for y := row * bh; y < (row+1)*bh; y++ {
				sum += uint64(img.Sample(x, y))
			}
		}
		line[col] = Char(uint8(sum/count), r.Polarity)
	}
	line[cols] = '\n'
}
