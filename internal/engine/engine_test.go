package engine

import (
	"context"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/ivlev/pic2ascii/internal/config"
	"github.com/ivlev/pic2ascii/internal/errors"
)

// memorySource serves in-memory pages; pages listed in fail return an error.
type memorySource struct {
	pages []image.Image
	fail  map[int]bool
}

func (m *memorySource) PageCount() int { return len(m.pages) }

func (m *memorySource) GetPageDimensions(index int) (float64, float64, error) {
	b := m.pages[index].Bounds()
	return float64(b.Dx()), float64(b.Dy()), nil
}

func (m *memorySource) RenderPage(index int, dpi int) (image.Image, error) {
	if m.fail[index] {
		return nil, fmt.Errorf("broken page %d", index)
	}
	return m.pages[index], nil
}

func (m *memorySource) Close() error { return nil }

type memorySink struct {
	mu     sync.Mutex
	pages  []string
	totals []int
	closed bool
}

func (s *memorySink) WritePage(index, total int, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index != len(s.pages) {
		return fmt.Errorf("page %d written out of order", index)
	}
	s.pages = append(s.pages, text)
	s.totals = append(s.totals, total)
	return nil
}

func (s *memorySink) Close() error {
	s.closed = true
	return nil
}

func uniformGray(w, h int, v uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = v
	}
	return img
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Workers = 4
	cfg.BenchmarkLog = ""
	return cfg
}

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func TestRunWritesPagesInOrder(t *testing.T) {
	var pages []image.Image
	var want []string
	for i := 0; i < 12; i++ {
		if i%2 == 0 {
			pages = append(pages, uniformGray(16, 16, 255))
			want = append(want, "  \n")
		} else {
			pages = append(pages, uniformGray(16, 16, 0))
			want = append(want, "@@\n")
		}
	}

	sink := &memorySink{}
	project := NewProject(testConfig(), &memorySource{pages: pages}, sink, quietLogger())

	report, err := project.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(sink.pages) != len(want) {
		t.Fatalf("Expected %d pages, got %d", len(want), len(sink.pages))
	}
	for i := range want {
		if sink.pages[i] != want[i] {
			t.Errorf("page %d: got %q, want %q", i, sink.pages[i], want[i])
		}
		if sink.totals[i] != len(want) {
			t.Errorf("page %d: total %d, want %d", i, sink.totals[i], len(want))
		}
	}
	if !sink.closed {
		t.Error("Expected sink to be closed")
	}

	if report.Pages != 12 || report.Rows != 1 || report.Cols != 2 || report.Cells != 24 {
		t.Errorf("Unexpected report: %+v", report)
	}
}

func TestRunDarkBackground(t *testing.T) {
	cfg := testConfig()
	cfg.Dark = true

	sink := &memorySink{}
	project := NewProject(cfg, &memorySource{pages: []image.Image{uniformGray(16, 16, 0)}}, sink, quietLogger())

	if _, err := project.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if sink.pages[0] != "  \n" {
		t.Errorf("Expected %q, got %q", "  \n", sink.pages[0])
	}
}

func TestRunConvertsColorImages(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for i := range img.Pix {
		img.Pix[i] = 255
	}

	sink := &memorySink{}
	project := NewProject(testConfig(), &memorySource{pages: []image.Image{img}}, sink, quietLogger())

	if _, err := project.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if sink.pages[0] != "  \n" {
		t.Errorf("Expected white RGBA to render as spaces, got %q", sink.pages[0])
	}
}

func TestRunFailsOnBrokenPage(t *testing.T) {
	src := &memorySource{
		pages: []image.Image{uniformGray(16, 16, 0), uniformGray(16, 16, 0), uniformGray(16, 16, 0)},
		fail:  map[int]bool{1: true},
	}
	sink := &memorySink{}
	project := NewProject(testConfig(), src, sink, quietLogger())

	_, err := project.Run(context.Background())
	if err == nil {
		t.Fatal("Expected error for broken page")
	}
	if !strings.Contains(err.Error(), "page 2") {
		t.Errorf("Expected error to name page 2, got %v", err)
	}
	if len(sink.pages) != 0 {
		t.Errorf("Expected nothing written, got %d pages", len(sink.pages))
	}
}

func TestRunRejectsInvalidBlockSize(t *testing.T) {
	cfg := testConfig()
	cfg.BlockWidth = 0

	project := NewProject(cfg, &memorySource{pages: []image.Image{uniformGray(16, 16, 0)}}, &memorySink{}, quietLogger())

	if _, err := project.Run(context.Background()); !errors.Is(err, errors.ErrCodeInvalidParameter) {
		t.Errorf("Expected INVALID_PARAMETER, got %v", err)
	}
}

func TestRunEmptySource(t *testing.T) {
	project := NewProject(testConfig(), &memorySource{}, &memorySink{}, quietLogger())

	if _, err := project.Run(context.Background()); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Expected INVALID_INPUT, got %v", err)
	}
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	project := NewProject(testConfig(), &memorySource{pages: []image.Image{uniformGray(16, 16, 0)}}, &memorySink{}, quietLogger())

	if _, err := project.Run(ctx); err != context.Canceled {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestRunWritesBenchmarkLog(t *testing.T) {
	cfg := testConfig()
	cfg.ShowStats = true
	cfg.BuildVersion = "test"
	cfg.InputPath = "white.png"
	cfg.BenchmarkLog = filepath.Join(t.TempDir(), "benchmark.log")

	project := NewProject(cfg, &memorySource{pages: []image.Image{uniformGray(16, 16, 255)}}, &memorySink{}, quietLogger())

	if _, err := project.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	data, err := os.ReadFile(cfg.BenchmarkLog)
	if err != nil {
		t.Fatalf("Expected benchmark log: %v", err)
	}
	line := string(data)
	for _, want := range []string{"Build: test", "Input: white.png", "Pages: 1", "Block: 8x16"} {
		if !strings.Contains(line, want) {
			t.Errorf("benchmark log %q missing %q", line, want)
		}
	}
}
