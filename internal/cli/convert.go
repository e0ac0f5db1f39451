package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ivlev/pic2ascii/internal/buildinfo"
	"github.com/ivlev/pic2ascii/internal/config"
	"github.com/ivlev/pic2ascii/internal/engine"
	"github.com/ivlev/pic2ascii/internal/errors"
	"github.com/ivlev/pic2ascii/internal/output"
	"github.com/ivlev/pic2ascii/internal/source"
	"github.com/ivlev/pic2ascii/internal/system"
)

// convertOpts holds the command-line flags. Only flags the user actually set
// are applied on top of the config file.
type convertOpts struct {
	configFile  string
	output      string
	blockWidth  int
	blockHeight int
	dark        bool
	dpi         int
	workers     int
	rowWorkers  int
	qr          string
	qrSize      int
	qrLevel     string
	stats       bool
	interactive bool
	pause       bool
}

func (c *CLI) convertCommand() *cobra.Command {
	opts := convertOpts{
		output:      config.DefaultOutput,
		blockWidth:  config.DefaultBlockWidth,
		blockHeight: config.DefaultBlockHeight,
		dpi:         config.DefaultDPI,
		workers:     system.DefaultWorkers(),
		rowWorkers:  1,
		qrSize:      config.DefaultQRSize,
		qrLevel:     config.DefaultQRLevel,
	}

	cmd := &cobra.Command{
		Use:   appName + " [input]",
		Short: "Convert an image into ASCII art",
		Long: `pic2ascii averages the luminance of fixed-size pixel blocks and prints one
density character per block, lightest " " to heaviest "@".

The input is an image file (png, jpeg, gif, bmp, tiff, webp), a directory of
images, or a PDF. Without an argument the newest image under input/ is used.`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.buildConfig(cmd, args, &opts)
			if err != nil {
				return err
			}
			if opts.interactive {
				if err := c.interact(cmd.Context(), cfg, args); err != nil {
					return err
				}
			}
			err = c.convert(cmd.Context(), cfg)
			if cfg.Pause {
				waitForEnter(c.reader(), c.Err)
			}
			return err
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.configFile, "config", "c", "", "config file (.yaml, .yml or .toml)")
	f.StringVarP(&opts.output, "output", "o", opts.output, `output file, "-" for stdout`)
	f.IntVarP(&opts.blockWidth, "block-width", "W", opts.blockWidth, "block width in pixels")
	f.IntVarP(&opts.blockHeight, "block-height", "H", opts.blockHeight, "block height in pixels")
	f.BoolVarP(&opts.dark, "dark", "d", false, "render for a dark background")
	f.IntVar(&opts.dpi, "dpi", opts.dpi, "PDF render resolution")
	f.IntVar(&opts.workers, "workers", opts.workers, "pages converted in parallel")
	f.IntVar(&opts.rowWorkers, "row-workers", opts.rowWorkers, "block rows computed in parallel per page")
	f.StringVar(&opts.qr, "qr", "", "convert a QR code of this text instead of a file")
	f.IntVar(&opts.qrSize, "qr-size", opts.qrSize, "QR code size in pixels")
	f.StringVar(&opts.qrLevel, "qr-level", opts.qrLevel, "QR recovery level: low, medium, high, highest")
	f.BoolVar(&opts.stats, "stats", false, "log a performance report and append it to the benchmark log")
	f.BoolVarP(&opts.interactive, "interactive", "i", false, "pick the image and block size interactively")
	f.BoolVar(&opts.pause, "pause", false, "wait for Enter before exiting")

	return cmd
}

// buildConfig loads the config file, if any, and overlays the flags that were set.
func (c *CLI) buildConfig(cmd *cobra.Command, args []string, opts *convertOpts) (*config.Config, error) {
	cfg := config.Default()
	if opts.configFile != "" {
		loaded, err := config.Load(opts.configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
		c.Logger.Debug("Loaded config", "file", opts.configFile)
	}

	f := cmd.Flags()
	if f.Changed("output") {
		cfg.OutputPath = opts.output
	}
	if f.Changed("block-width") {
		cfg.BlockWidth = opts.blockWidth
	}
	if f.Changed("block-height") {
		cfg.BlockHeight = opts.blockHeight
	}
	if f.Changed("dark") {
		cfg.Dark = opts.dark
	}
	if f.Changed("dpi") {
		cfg.DPI = opts.dpi
	}
	if f.Changed("workers") {
		cfg.Workers = opts.workers
	}
	if f.Changed("row-workers") {
		cfg.RowWorkers = opts.rowWorkers
	}
	if f.Changed("qr") {
		cfg.QRText = opts.qr
	}
	if f.Changed("qr-size") {
		cfg.QRSize = opts.qrSize
	}
	if f.Changed("qr-level") {
		cfg.QRLevel = opts.qrLevel
	}
	if f.Changed("stats") {
		cfg.ShowStats = opts.stats
	}
	if f.Changed("pause") {
		cfg.Pause = opts.pause
	}
	if len(args) == 1 {
		cfg.InputPath = args[0]
	}
	cfg.BuildVersion = buildinfo.Version
	return cfg, nil
}

// interact lets the user pick an image and the block size. An explicit input
// argument skips the picker.
func (c *CLI) interact(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) == 0 && cfg.QRText == "" {
		dir := config.DefaultInputDir
		if info, err := os.Stat(cfg.InputPath); err == nil && info.IsDir() {
			dir = cfg.InputPath
		}
		path, err := c.pickImage(ctx, dir)
		if err != nil {
			return err
		}
		cfg.InputPath = path
	}

	r := c.reader()
	bw, err := promptPositiveInt(r, c.Err, "Block width", cfg.BlockWidth)
	if err != nil {
		return err
	}
	bh, err := promptPositiveInt(r, c.Err, "Block height", cfg.BlockHeight)
	if err != nil {
		return err
	}
	cfg.BlockWidth, cfg.BlockHeight = bw, bh
	return nil
}

// convert resolves the source and sink for cfg and runs the engine.
func (c *CLI) convert(ctx context.Context, cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	src, err := c.openSource(cfg)
	if err != nil {
		return err
	}
	defer src.Close()

	var sink output.Sink
	var files *output.FileSink
	if cfg.ToStdout() {
		sink = output.NewStreamSink(c.Out)
	} else {
		files = output.NewFileSink(cfg.OutputPath)
		sink = files
	}

	c.Logger.Debug("Converting",
		"input", describeInput(cfg),
		"block", fmt.Sprintf("%dx%d", cfg.BlockWidth, cfg.BlockHeight),
		"dark", cfg.Dark,
		"workers", cfg.Workers,
	)

	prog := newProgress(c.Logger)
	report, err := engine.NewProject(cfg, src, sink, c.Logger).Run(ctx)
	if err != nil {
		return err
	}
	prog.done("Finished!")

	if files != nil {
		printSuccess(c.Err, "Converted %d page(s), %dx%d characters", report.Pages, report.Cols, report.Rows)
		for _, path := range files.Written() {
			printFile(c.Err, path)
		}
	}
	return nil
}

// openSource picks the input in order: explicit path, QR text, newest image in input/.
func (c *CLI) openSource(cfg *config.Config) (source.Source, error) {
	if cfg.InputPath == "" && cfg.QRText != "" {
		level, err := source.ParseQRLevel(cfg.QRLevel)
		if err != nil {
			return nil, err
		}
		return source.NewQRSource(cfg.QRText, cfg.QRSize, level)
	}

	if cfg.InputPath == "" {
		latest, err := system.FindLatestImage(config.DefaultInputDir)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err,
				"no input given; pass a file or put an image in %s/", config.DefaultInputDir)
		}
		c.Logger.Info("Selected file", "path", latest)
		cfg.InputPath = latest
	}
	return source.Open(cfg.InputPath)
}

func describeInput(cfg *config.Config) string {
	if cfg.InputPath == "" && cfg.QRText != "" {
		return "qr:" + cfg.QRText
	}
	return cfg.InputPath
}
