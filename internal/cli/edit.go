package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/shapeboard/pkg/export"
	"github.com/matzehuels/shapeboard/pkg/scene"
)

const (
	moveStep     = 10
	scaleStep    = 1.1
	defaultCols  = 64
	minCols      = 16
	maxCols      = 120
	sidebarWidth = 46
)

// editCommand runs the interactive terminal editor.
func (c *CLI) editCommand() *cobra.Command {
	var (
		seed    uint64
		noCache bool
		out     string
		logFile string
	)

	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit a board interactively in the terminal",
		Long: `Edit a board interactively in the terminal.

  c s t        background circle, square, triangle
  1 2 3        add star, umbrella, triangle icon
  tab esc      select next icon, clear selection
  arrows       move the selected icon
  + -          grow, shrink the selected icon
  del ctrl+d   delete, duplicate the selected icon
  C I S        set shape color, icon color, export scale
  p v          export PNG, SVG
  q            quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			// The terminal belongs to the editor; logs go to a file or nowhere.
			var w io.Writer = io.Discard
			if logFile != "" {
				f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			logger := newLogger(w, c.Logger.GetLevel())
			installHooks(logger)

			s, err := c.newSession(ctx, logger, noCache)
			if err != nil {
				return err
			}
			defer s.Close()

			if out == "" {
				out = s.cfg.Export.Dir
			}
			m := newEditModel(ctx, s.controller(seed), s.exporter, export.DirDownloader{Dir: out})
			_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		},
	}

	cmd.Flags().Uint64Var(&seed, "seed", 0, "placement jitter seed (0 = random)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVarP(&out, "out", "o", "", "export directory (default from config)")
	cmd.Flags().StringVar(&logFile, "log-file", "", "append logs to this file")

	return cmd
}

// =============================================================================
// Messages
// =============================================================================

type iconLoadedMsg struct {
	kind scene.IconKind
	icon *scene.Icon
	err  error
}

type exportedMsg struct {
	path     string
	artifact *export.Artifact
	err      error
}

// =============================================================================
// editModel
// =============================================================================

type promptKind int

const (
	promptNone promptKind = iota
	promptShapeColor
	promptIconColor
	promptScale
)

func (p promptKind) label() string {
	switch p {
	case promptShapeColor:
		return "shape color"
	case promptIconColor:
		return "icon color"
	case promptScale:
		return "export scale"
	}
	return ""
}

// editModel is the bubbletea model for the terminal editor. Scene state
// lives in the controller; the model only holds view state.
type editModel struct {
	ctx      context.Context
	ctrl     *scene.Controller
	exporter *export.Exporter
	out      export.Downloader

	scale   float64
	loading int

	prompt promptKind
	input  string

	status    string
	statusErr bool

	cols       int
	preview    string
	previewRev uint64
	previewCol int
}

func newEditModel(ctx context.Context, ctrl *scene.Controller, exporter *export.Exporter, out export.Downloader) editModel {
	m := editModel{
		ctx:      ctx,
		ctrl:     ctrl,
		exporter: exporter,
		out:      out,
		scale:    1,
		cols:     defaultCols,
		status:   "press c, s or t to pick a background",
	}
	return m.refresh()
}

func (m editModel) Init() tea.Cmd {
	return nil
}

func (m editModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.prompt != promptNone {
			m, cmd = m.updatePrompt(msg)
		} else {
			m, cmd = m.updateKey(msg)
		}
	case tea.WindowSizeMsg:
		m.cols = min(max(msg.Width-sidebarWidth, minCols), maxCols)
	case iconLoadedMsg:
		m.loading--
		if msg.err != nil {
			m.setError(fmt.Errorf("load %s: %w", msg.kind, msg.err))
		} else {
			m.setStatus("added %s", msg.kind)
		}
	case exportedMsg:
		if msg.err != nil {
			m.setError(msg.err)
		} else {
			status := iconFresh
			if msg.artifact.Cached {
				status = iconCached
			}
			m.setStatus("saved %s (%s, %s)", msg.path, formatBytes(len(msg.artifact.Data)), status)
		}
	}
	return m.refresh(), cmd
}

func (m editModel) updateKey(msg tea.KeyMsg) (editModel, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "c":
		m.selectShape(scene.Circle)
	case "s":
		m.selectShape(scene.Square)
	case "t":
		m.selectShape(scene.Triangle)

	case "1":
		return m.addIcon(scene.Star)
	case "2":
		return m.addIcon(scene.Umbrella)
	case "3":
		return m.addIcon(scene.TriangleIcon)

	case "tab":
		if icon, ok := m.ctrl.SelectNext(); ok {
			m.setStatus("selected %s", icon.Kind)
		}
	case "esc":
		m.ctrl.ClearSelection()
		m.setStatus("selection cleared")

	case "up":
		m.ctrl.MoveActive(0, -moveStep)
	case "down":
		m.ctrl.MoveActive(0, moveStep)
	case "left":
		m.ctrl.MoveActive(-moveStep, 0)
	case "right":
		m.ctrl.MoveActive(moveStep, 0)
	case "+", "=":
		m.ctrl.ScaleActive(scaleStep)
	case "-":
		m.ctrl.ScaleActive(1 / scaleStep)

	case "delete", "backspace":
		if m.ctrl.DeleteActiveSelection() {
			m.setStatus("deleted")
		}
	case "ctrl+d":
		if _, ok := m.ctrl.DuplicateActiveSelection(); ok {
			m.setStatus("duplicated")
		}

	case "C":
		m.prompt, m.input = promptShapeColor, string(m.ctrl.ShapeColor())
	case "I":
		m.prompt, m.input = promptIconColor, string(m.ctrl.IconColor())
	case "S":
		m.prompt, m.input = promptScale, strconv.FormatFloat(m.scale, 'g', -1, 64)

	case "p":
		return m, m.export(export.PNG)
	case "v":
		return m, m.export(export.SVG)
	}
	return m, nil
}

// updatePrompt edits the input line. Enter applies, esc cancels.
func (m editModel) updatePrompt(msg tea.KeyMsg) (editModel, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc:
		m.prompt, m.input = promptNone, ""
	case tea.KeyEnter:
		m.applyPrompt()
		m.prompt, m.input = promptNone, ""
	case tea.KeyBackspace:
		if r := []rune(m.input); len(r) > 0 {
			m.input = string(r[:len(r)-1])
		}
	case tea.KeyCtrlU:
		m.input = ""
	case tea.KeyRunes:
		m.input += string(msg.Runes)
	}
	return m, nil
}

func (m *editModel) applyPrompt() {
	value := strings.TrimSpace(m.input)
	switch m.prompt {
	case promptShapeColor, promptIconColor:
		c, err := scene.ParseColor(value)
		if err != nil {
			m.setError(err)
			return
		}
		if m.prompt == promptShapeColor {
			m.ctrl.SetBackgroundColor(c)
		} else {
			m.ctrl.SetActiveIconColor(c)
		}
		m.setStatus("%s set to %s", m.prompt.label(), c)
	case promptScale:
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			v = 1
		}
		m.scale = export.NormalizeScale(v)
		m.setStatus("export scale %gx", m.scale)
	}
}

func (m *editModel) selectShape(kind scene.ShapeKind) {
	m.ctrl.SelectBackgroundShape(kind, m.ctrl.ShapeColor())
	m.setStatus("background %s", kind)
}

// addIcon starts the load and returns a command that reports its outcome.
func (m editModel) addIcon(kind scene.IconKind) (editModel, tea.Cmd) {
	p := m.ctrl.AddIcon(m.ctx, kind)
	m.loading++
	m.setStatus("loading %s...", kind)
	ctx := m.ctx
	return m, func() tea.Msg {
		icon, err := p.Wait(ctx)
		return iconLoadedMsg{kind: kind, icon: icon, err: err}
	}
}

// export renders the current snapshot and writes it to the output directory.
func (m editModel) export(format export.Format) tea.Cmd {
	snap := m.ctrl.Snapshot()
	ctx, scale := m.ctx, m.scale
	exporter, out := m.exporter, m.out
	return func() tea.Msg {
		a, err := exporter.Export(ctx, snap, format, scale)
		if err != nil {
			return exportedMsg{err: err}
		}
		path, err := out.Download(ctx, a)
		return exportedMsg{path: path, artifact: a, err: err}
	}
}

func (m *editModel) setStatus(format string, args ...any) {
	m.status, m.statusErr = fmt.Sprintf(format, args...), false
}

func (m *editModel) setError(err error) {
	m.status, m.statusErr = err.Error(), true
}

// refresh re-rasterizes the preview when the scene or the width changed.
func (m editModel) refresh() editModel {
	rev := m.ctrl.Revision()
	if m.preview != "" && rev == m.previewRev && m.cols == m.previewCol {
		return m
	}
	m.preview = renderPreview(m.ctrl.Snapshot(), m.cols)
	m.previewRev, m.previewCol = rev, m.cols
	return m
}

// =============================================================================
// View
// =============================================================================

var (
	editPanelStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim)
	editHelpStyle  = lipgloss.NewStyle().Foreground(colorDim)
)

func (m editModel) View() string {
	snap := m.ctrl.Snapshot()

	var side strings.Builder
	side.WriteString(StyleTitle.Render("shapeboard"))
	side.WriteString(StyleDim.Render(fmt.Sprintf("  rev %d", snap.Revision)))
	side.WriteString("\n\n")
	side.WriteString(m.swatches())
	side.WriteString("\n\n")
	side.WriteString(objectTable(snap))
	if m.loading > 0 {
		side.WriteString("\n" + StyleHighlight.Render(fmt.Sprintf("loading %d icon(s)...", m.loading)))
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top, editPanelStyle.Render(m.preview), "  ", side.String())

	var b strings.Builder
	b.WriteString(body)
	b.WriteString("\n")
	if m.prompt != promptNone {
		b.WriteString(StyleHighlight.Render(m.prompt.label()+": ") + m.input + "█")
		b.WriteString("\n" + editHelpStyle.Render("enter apply · esc cancel"))
	} else {
		if m.statusErr {
			b.WriteString(StyleError.Render(iconError + " " + m.status))
		} else {
			b.WriteString(StyleDim.Render(m.status))
		}
		b.WriteString("\n" + editHelpStyle.Render("c/s/t shape · 1/2/3 icon · tab select · arrows move · +/- size · del · ctrl+d dup · C/I/S set · p/v export · q quit"))
	}
	return b.String()
}

func (m editModel) swatches() string {
	swatch := func(c scene.Color) string {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(string(c))).Render("██") + " " + StyleValue.Render(string(c))
	}
	return fmt.Sprintf("shape %s   icon %s\nscale %s",
		swatch(m.ctrl.ShapeColor()), swatch(m.ctrl.IconColor()), StyleValue.Render(fmt.Sprintf("%gx", m.scale)))
}

// objectTable lists the background and the icons from top to bottom.
func objectTable(snap scene.Snapshot) string {
	var rows [][]string
	active := -1
	for i := len(snap.Icons) - 1; i >= 0; i-- {
		icon := snap.Icons[i]
		cursor := " "
		if icon.ID == snap.ActiveID {
			cursor = "▸"
			active = len(rows)
		}
		kind := string(icon.Kind)
		if icon.IsComposite() {
			kind += "*"
		}
		rows = append(rows, []string{cursor, kind, string(icon.Fill()),
			fmt.Sprintf("%.0f,%.0f", icon.X, icon.Y), fmt.Sprintf("%.2f", icon.Scale)})
	}
	if bg := snap.Background; bg != nil {
		rows = append(rows, []string{" ", string(bg.Kind) + " (bg)", string(bg.Fill), "", ""})
	}
	if len(rows) == 0 {
		return StyleDim.Render("empty board")
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Object", "Fill", "Pos", "Scale").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case row == active:
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
			case row == len(rows)-1 && snap.Background != nil:
				return lipgloss.NewStyle().Foreground(colorDim)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		}).
		Render()
}
