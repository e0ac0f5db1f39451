package engine

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ivlev/pic2ascii/internal/config"
	"github.com/ivlev/pic2ascii/internal/errors"
	"github.com/ivlev/pic2ascii/internal/output"
	"github.com/ivlev/pic2ascii/internal/raster"
	"github.com/ivlev/pic2ascii/internal/source"
	"github.com/ivlev/pic2ascii/internal/system"
)

type Project struct {
	Config *config.Config
	Source source.Source
	Sink   output.Sink
	Logger *log.Logger
}

func NewProject(cfg *config.Config, src source.Source, sink output.Sink, logger *log.Logger) *Project {
	if logger == nil {
		logger = log.Default()
	}
	return &Project{
		Config: cfg,
		Source: src,
		Sink:   sink,
		Logger: logger,
	}
}

// Report summarizes a finished run.
type Report struct {
	Pages     int
	Rows      int // block rows of the first page
	Cols      int // block columns of the first page
	Cells     int64
	Total     time.Duration
	Render    time.Duration // summed over workers
	Rasterize time.Duration // summed over workers
}

type pageResult struct {
	text       string
	rows, cols int
	err        error
}

// Run rasterizes every page of the source and hands the pages to the sink in
// index order. Pages are processed by a pool of Config.Workers goroutines.
func (p *Project) Run(ctx context.Context) (*Report, error) {
	startTime := time.Now()

	pageCount := p.Source.PageCount()
	if pageCount == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "source has no pages or images")
	}

	r := raster.New(
		raster.WithBlockSize(p.Config.BlockWidth, p.Config.BlockHeight),
		raster.WithPolarity(raster.Polarity(p.Config.Dark)),
		raster.WithWorkers(p.Config.RowWorkers),
	)
	if err := r.Validate(); err != nil {
		return nil, err
	}

	numWorkers := p.Config.Workers
	if numWorkers > pageCount {
		numWorkers = pageCount
	}
	if numWorkers < 1 {
		numWorkers = 1
	}

	p.Logger.Info("Rasterizing",
		"input", p.Config.InputPath,
		"pages", pageCount,
		"block", fmt.Sprintf("%dx%d", r.BlockWidth, r.BlockHeight),
		"background", r.Polarity,
		"workers", numWorkers,
	)

	jobs := make(chan int, pageCount)
	results := make([]pageResult, pageCount)
	var renderNanos, rasterNanos, cells atomic.Int64
	var wg sync.WaitGroup

	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if ctx.Err() != nil {
					continue
				}

				renderStart := time.Now()
				img, err := p.Source.RenderPage(i, p.Config.DPI)
				renderNanos.Add(int64(time.Since(renderStart)))
				if err != nil {
					p.Logger.Error("Render failed", "page", i+1, "err", err)
					results[i].err = err
					continue
				}

				rasterStart := time.Now()
				res, err := p.rasterizePage(r, img)
				rasterNanos.Add(int64(time.Since(rasterStart)))
				if err != nil {
					p.Logger.Error("Rasterize failed", "page", i+1, "err", err)
					results[i].err = err
					continue
				}

				results[i] = res
				cells.Add(int64(res.rows * res.cols))
				p.Logger.Debugf("Ready: %d/%d (%dx%d)", i+1, pageCount, res.cols, res.rows)
			}
		}()
	}

	for i := 0; i < pageCount; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for i, res := range results {
		if res.err != nil {
			return nil, fmt.Errorf("page %d: %w", i+1, res.err)
		}
	}

	for i, res := range results {
		if err := p.Sink.WritePage(i, pageCount, res.text); err != nil {
			return nil, err
		}
	}
	if err := p.Sink.Close(); err != nil {
		return nil, err
	}

	report := &Report{
		Pages:     pageCount,
		Rows:      results[0].rows,
		Cols:      results[0].cols,
		Cells:     cells.Load(),
		Total:     time.Since(startTime),
		Render:    time.Duration(renderNanos.Load()),
		Rasterize: time.Duration(rasterNanos.Load()),
	}

	if p.Config.ShowStats {
		p.logStats(report)
	}

	return report, nil
}

// rasterizePage converts img to luma in a pooled buffer and rasterizes it.
func (p *Project) rasterizePage(r *raster.Rasterizer, img image.Image) (pageResult, error) {
	bounds := img.Bounds()
	gray := system.GetGray(bounds)
	defer system.PutGray(gray)

	source.ToLuma(img, gray)

	text, err := r.Rasterize(raster.FromGray(gray))
	if err != nil {
		return pageResult{}, err
	}
	rows, cols := raster.GridSize(bounds.Dx(), bounds.Dy(), r.BlockWidth, r.BlockHeight)
	return pageResult{text: text, rows: rows, cols: cols}, nil
}

func (p *Project) logStats(r *Report) {
	stats, err := system.Snapshot()
	if err != nil {
		p.Logger.Warn("Resource stats incomplete", "err", err)
	}

	cellsPerSec := float64(r.Cells) / r.Total.Seconds()

	p.Logger.Info("Performance report",
		"build", p.Config.BuildVersion,
		"total", r.Total.Round(time.Millisecond),
		"render", r.Render.Round(time.Millisecond),
		"rasterize", r.Rasterize.Round(time.Millisecond),
		"pages", r.Pages,
		"cells", r.Cells,
		"cells/s", fmt.Sprintf("%.0f", cellsPerSec),
		"rss", system.HumanBytes(stats.ProcessRSS),
		"host_mem", fmt.Sprintf("%s/%s (%.1f%%)", system.HumanBytes(stats.HostTotal-stats.HostAvailable), system.HumanBytes(stats.HostTotal), stats.HostUsedPct),
		"cpus", stats.LogicalCPUs,
	)

	if p.Config.BenchmarkLog == "" {
		return
	}

	logEntry := fmt.Sprintf("[%s] Build: %s | Input: %s | Pages: %d | Block: %dx%d | Total: %.3fs | Render: %.3fs | Rasterize: %.3fs | Cells: %d | RSS: %d\n",
		time.Now().Format("2006-01-02 15:04:05"),
		p.Config.BuildVersion,
		filepath.Base(p.Config.InputPath),
		r.Pages,
		p.Config.BlockWidth, p.Config.BlockHeight,
		r.Total.Seconds(),
		r.Render.Seconds(),
		r.Rasterize.Seconds(),
		r.Cells,
		stats.ProcessRSS,
	)

	f, err := os.OpenFile(p.Config.BenchmarkLog, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		p.Logger.Warn("Could not write benchmark log", "path", p.Config.BenchmarkLog, "err", err)
		return
	}
	defer f.Close()
	if _, err := f.WriteString(logEntry); err != nil {
		p.Logger.Warn("Could not write benchmark log", "path", p.Config.BenchmarkLog, "err", err)
	}
}
