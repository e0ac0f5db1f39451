package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/ivlev/pic2ascii/internal/errors"
	"github.com/ivlev/pic2ascii/internal/system"
)

var listDimStyle = lipgloss.NewStyle().Foreground(colorDim)

// ImageListModel is the bubbletea model for picking an input image.
type ImageListModel struct {
	Images   []system.ImageFile
	Cursor   int
	Offset   int
	Height   int
	Selected *system.ImageFile
}

// NewImageListModel creates a picker over images, newest first.
func NewImageListModel(images []system.ImageFile) ImageListModel {
	return ImageListModel{
		Images: images,
		Height: 15,
	}
}

func (m ImageListModel) Init() tea.Cmd {
	return nil
}

func (m ImageListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Images)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Images) == 0 {
				return m, nil
			}
			img := m.Images[m.Cursor]
			m.Selected = &img
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, 5)
	}
	return m, nil
}

func (m ImageListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Image"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Images))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		img := m.Images[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{
			cursor,
			filepath.Base(img.Path),
			system.HumanBytes(uint64(img.Size)),
			formatRelativeTime(img.ModTime, time.Now()),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "File", "Size", "Modified").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
			}
			if col >= 2 {
				return lipgloss.NewStyle().Foreground(colorDim)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Images))))

	return b.String()
}

// pickImage shows the picker over the images in dir and returns the chosen path.
func (c *CLI) pickImage(ctx context.Context, dir string) (string, error) {
	images, err := system.FindImages(dir)
	if err != nil {
		return "", err
	}
	if len(images) == 0 {
		return "", errors.New(errors.ErrCodeFileNotFound, "no images found in %s", dir)
	}

	p := tea.NewProgram(NewImageListModel(images),
		tea.WithContext(ctx),
		tea.WithInput(c.In),
		tea.WithOutput(c.Err),
	)
	final, err := p.Run()
	if ctx.Err() != nil {
		return "", ctx.Err()
	}
	if err != nil {
		return "", err
	}

	fm, ok := final.(ImageListModel)
	if !ok || fm.Selected == nil {
		return "", errors.New(errors.ErrCodeInvalidInput, "no image selected")
	}
	c.Logger.Info("Selected file", "path", fm.Selected.Path)
	return fm.Selected.Path, nil
}

// formatRelativeTime renders t relative to now, e.g. "5m ago".
func formatRelativeTime(t, now time.Time) string {
	diff := now.Sub(t)
	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}
