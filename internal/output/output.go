// Package output writes rasterized pages to their destination.
package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Sink receives pages in index order. total is the page count of the run.
type Sink interface {
	WritePage(index, total int, text string) error
	Close() error
}

// FileSink writes each page to a text file. A single page goes to Path as is;
// with several pages every page gets its own file named by PagePath.
type FileSink struct {
	Path    string
	written []string
}

func NewFileSink(path string) *FileSink {
	return &FileSink{Path: path}
}

// PagePath returns the file for page index (0-based) of a total-page run:
// "out.txt" becomes "out_p001.txt", "out_p002.txt", ...
func PagePath(path string, index, total int) string {
	if total <= 1 {
		return path
	}
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	return fmt.Sprintf("%s_p%03d%s", base, index+1, ext)
}

func (s *FileSink) WritePage(index, total int, text string) error {
	path := PagePath(s.Path, index, total)
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	s.written = append(s.written, path)
	return nil
}

// Written lists the files created so far.
func (s *FileSink) Written() []string {
	return s.written
}

func (s *FileSink) Close() error {
	return nil
}

// StreamSink copies pages verbatim to W, one after another.
type StreamSink struct {
	W io.Writer
}

func NewStreamSink(w io.Writer) *StreamSink {
	return &StreamSink{W: w}
}

func (s *StreamSink) WritePage(index, total int, text string) error {
	_, err := io.WriteString(s.W, text)
	return err
}

func (s *StreamSink) Close() error {
	return nil
}
