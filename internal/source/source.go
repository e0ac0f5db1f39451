package source

import (
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"

	"github.com/ivlev/pic2ascii/internal/errors"
)

// Source hands out decoded pages. Single images have exactly one page.
type Source interface {
	PageCount() int
	GetPageDimensions(index int) (width, height float64, err error)
	RenderPage(index int, dpi int) (image.Image, error)
	Close() error
}

// Open picks a Source for path: PDFs go through MuPDF, everything else is
// treated as an image file or a directory of images.
func Open(path string) (Source, error) {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return NewFitzPDFSource(path)
	}
	return NewImageSource(path)
}

// FitzPDFSource renders PDF pages through MuPDF. The page count is read once
// when the source is opened.
type FitzPDFSource struct {
	doc   *fitz.Document
	path  string
	pages int
}

func NewFitzPDFSource(path string) (*FitzPDFSource, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "input %s", path)
	}
	doc, err := fitz.New(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open pdf %s", path)
	}
	return &FitzPDFSource{doc: doc, path: path, pages: doc.NumPage()}, nil
}

func (f *FitzPDFSource) PageCount() int {
	return f.pages
}

// GetPageDimensions returns the page size in points.
func (f *FitzPDFSource) GetPageDimensions(index int) (float64, float64, error) {
	if err := f.checkIndex(index); err != nil {
		return 0, 0, err
	}
	rect, err := f.doc.Bound(index)
	if err != nil {
		return 0, 0, errors.Wrap(errors.ErrCodeInvalidFormat, err, "page %d bounds", index+1)
	}
	return float64(rect.Dx()), float64(rect.Dy()), nil
}

// RenderPage opens its own document handle so page workers do not share MuPDF state.
func (f *FitzPDFSource) RenderPage(index int, dpi int) (image.Image, error) {
	if err := f.checkIndex(index); err != nil {
		return nil, err
	}
	doc, err := fitz.New(f.path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open pdf %s", f.path)
	}
	defer doc.Close()

	img, err := doc.ImageDPI(index, float64(dpi))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "render page %d at %d dpi", index+1, dpi)
	}
	return img, nil
}

func (f *FitzPDFSource) checkIndex(index int) error {
	if index < 0 || index >= f.pages {
		return errors.New(errors.ErrCodeInvalidParameter, "page %d out of range (1-%d)", index+1, f.pages)
	}
	return nil
}

func (f *FitzPDFSource) Close() error {
	return f.doc.Close()
}
