// Package cli implements the pic2ascii command-line interface.
package cli

import (
	"bufio"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/ivlev/pic2ascii/internal/buildinfo"
)

const appName = "pic2ascii"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds the logger and the streams shared by all commands.
type CLI struct {
	Logger *log.Logger
	In     io.Reader // prompts and the interactive picker
	Out    io.Writer // art written to "-"
	Err    io.Writer // status lines

	in *bufio.Reader
}

// New creates a CLI logging to w at level, wired to the process streams.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		In:     os.Stdin,
		Out:    os.Stdout,
		Err:    w,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// reader buffers In once so prompts and the pause share unread input.
func (c *CLI) reader() *bufio.Reader {
	if c.in == nil {
		c.in = bufio.NewReader(c.In)
	}
	return c.in
}

// RootCommand creates the root cobra command.
func (c *CLI) RootCommand() *cobra.Command {
	root := c.convertCommand()
	root.Version = buildinfo.Version
	root.SetVersionTemplate(buildinfo.Template())
	return root
}
