package system

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"

	"github.com/ivlev/pic2ascii/internal/errors"
	"github.com/ivlev/pic2ascii/internal/source"
)

// ImageFile is an image found by FindImages.
type ImageFile struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// FindImages lists the image files directly inside dir, newest first.
func FindImages(dir string) ([]ImageFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "input directory %s", dir)
		}
		return nil, err
	}

	var images []ImageFile
	for _, e := range entries {
		if e.IsDir() || !source.IsImage(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		images = append(images, ImageFile{
			Path:    filepath.Join(dir, e.Name()),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.SliceStable(images, func(i, j int) bool {
		return images[i].ModTime.After(images[j].ModTime)
	})
	return images, nil
}

// FindLatestImage returns the most recently modified image in dir.
func FindLatestImage(dir string) (string, error) {
	images, err := FindImages(dir)
	if err != nil {
		return "", err
	}
	if len(images) == 0 {
		return "", errors.New(errors.ErrCodeFileNotFound, "no images found in %s", dir)
	}
	return images[0].Path, nil
}

// DefaultWorkers is the logical CPU count, used as the page worker default.
func DefaultWorkers() int {
	n, err := cpu.Counts(true)
	if err != nil || n < 1 {
		return runtime.NumCPU()
	}
	return n
}

// HumanBytes formats n with a binary unit suffix.
func HumanBytes(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := uint64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
