package cli

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pinroute/pkg/board"
	"github.com/matzehuels/pinroute/pkg/pipeline"
	"github.com/matzehuels/pinroute/pkg/route"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// inspectCommand creates the inspect command: route the design, then
// browse the per-net outcome interactively.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		catalog    string
		configPath string
		seed       int64
		noCache    bool
	)

	cmd := &cobra.Command{
		Use:   "inspect [design.json]",
		Short: "Route a design and browse the nets interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath, seed)
			if err != nil {
				return err
			}
			runner, err := c.newRunner(noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			spinner := newSpinnerWithContext(cmd.Context(), "Routing...")
			spinner.Start()
			result, err := runner.Route(cmd.Context(), pipeline.Options{
				DesignPath:  args[0],
				CatalogPath: catalog,
				Config:      cfg,
				Logger:      c.Logger,
			})
			if err != nil {
				spinner.StopWithError("Routing failed")
				return err
			}
			spinner.Stop()

			design, cat, err := loadDesign(args[0], catalog)
			if err != nil {
				return err
			}
			model := NewNetListModel(design, cat, result)
			_, err = tea.NewProgram(model, tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	cmd.Flags().StringVarP(&catalog, "catalog", "c", "catalog.json", "component catalog file")
	cmd.Flags().StringVar(&configPath, "config", "", "routing config file (TOML)")
	cmd.Flags().Int64Var(&seed, "seed", -1, "ordering seed (overrides config)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	return cmd
}

// =============================================================================
// NetListModel - Interactive net browsing
// =============================================================================

// netRow is one net with its display columns precomputed.
type netRow struct {
	net       board.Net
	routed    bool
	length    float64 // total routed trace length in world units
	instances string  // distinct instances the net touches
	pins      []string
	traces    []route.Trace
}

// NetListModel is the bubbletea model for browsing a routing outcome.
// The list view shows one row per net with its status and trace length;
// enter toggles a detail pane with pin references and trace waypoints.
type NetListModel struct {
	DesignName string
	Status     route.Status
	Rows       []netRow
	Cursor     int
	Height     int
	Offset     int
	ShowDetail bool
}

// NewNetListModel builds the model from a validated design and its
// routing result.
func NewNetListModel(design *board.Design, catalog *board.Catalog, result *route.Result) NetListModel {
	failed := make(map[string]bool, len(result.FailedNets))
	for _, id := range result.FailedNets {
		failed[id] = true
	}
	traces := make(map[string][]route.Trace)
	for _, tr := range result.Traces {
		traces[tr.Net] = append(traces[tr.Net], tr)
	}

	rows := make([]netRow, 0, len(design.Nets))
	for _, net := range design.Nets {
		row := buildNetRow(net, design, catalog)
		row.routed = !failed[net.ID]
		row.traces = traces[net.ID]
		row.length = traceLength(row.traces)
		rows = append(rows, row)
	}
	name := design.Name
	if name == "" {
		name = "design"
	}
	return NetListModel{
		DesignName: name,
		Status:     result.Status,
		Rows:       rows,
		Height:     15,
	}
}

// traceLength sums the Manhattan length of every trace segment.
func traceLength(traces []route.Trace) float64 {
	total := 0.0
	for _, tr := range traces {
		for i := 1; i < len(tr.Waypoints); i++ {
			a, b := tr.Waypoints[i-1], tr.Waypoints[i]
			total += math.Abs(b.X-a.X) + math.Abs(b.Y-a.Y)
		}
	}
	return total
}

// buildNetRow resolves a net's pin references to display strings. Concrete
// pins show their world position; group references show the group name and
// member count, since the pin is only chosen during routing.
func buildNetRow(net board.Net, design *board.Design, catalog *board.Catalog) netRow {
	seen := map[string]bool{}
	var instances []string
	var pins []string

	for _, ref := range net.Pins {
		if !seen[ref.Instance] {
			seen[ref.Instance] = true
			instances = append(instances, ref.Instance)
		}

		place, ok := design.Placement(ref.Instance)
		if !ok {
			pins = append(pins, ref.String())
			continue
		}
		def, _ := catalog.Component(place.Catalog)
		if pin, isPin := def.Pin(ref.Pin); isPin {
			pos := place.PinPosition(pin)
			pins = append(pins, fmt.Sprintf("%s  (%.1f, %.1f)", ref, pos.X, pos.Y))
			continue
		}
		if group, isGroup := def.Group(ref.Pin); isGroup {
			pins = append(pins, fmt.Sprintf("%s  group, %d pins", ref, len(group.Pins)))
			continue
		}
		pins = append(pins, ref.String())
	}

	return netRow{net: net, instances: strings.Join(instances, ", "), pins: pins}
}

func (m NetListModel) Init() tea.Cmd {
	return nil
}

func (m NetListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			if m.ShowDetail {
				m.ShowDetail = false
				return m, nil
			}
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Rows)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Rows) > 0 {
				m.ShowDetail = !m.ShowDetail
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m NetListModel) View() string {
	if m.ShowDetail {
		return m.detailView()
	}
	return m.listView()
}

func (m NetListModel) listView() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(fmt.Sprintf("Nets: %s (%s)", m.DesignName, m.Status)))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ detail  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Rows) {
		end = len(m.Rows)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		r := m.Rows[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		status := "routed"
		length := fmt.Sprintf("%.1f", r.length)
		if !r.routed {
			status = "failed"
			length = "—"
		}
		rows = append(rows, []string{
			cursor,
			r.net.ID,
			status,
			length,
			fmt.Sprintf("%d", len(r.net.Pins)),
			r.instances,
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Net", "Status", "Length", "Pins", "Instances").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			idx := m.Offset + row
			if idx >= len(m.Rows) {
				return lipgloss.NewStyle()
			}
			style := lipgloss.NewStyle().Foreground(colorWhite)
			if !m.Rows[idx].routed {
				style = style.Foreground(colorRed)
			}
			if idx == m.Cursor {
				style = style.Bold(true).Foreground(colorCyan)
			}
			return style
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Rows))))

	return b.String()
}

func (m NetListModel) detailView() string {
	r := m.Rows[m.Cursor]
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Net " + r.net.ID))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("⏎/esc back  q quit"))
	b.WriteString("\n\n")

	b.WriteString(listDimStyle.Render("Pins"))
	b.WriteString("\n")
	for _, pin := range r.pins {
		b.WriteString("  " + StyleValue.Render(pin) + "\n")
	}

	b.WriteString("\n")
	if !r.routed {
		b.WriteString(StyleWarning.Render("  unrouted") + "\n")
		return b.String()
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("Traces (total length %.1f)", r.length)))
	b.WriteString("\n")
	for _, tr := range r.traces {
		pts := make([]string, len(tr.Waypoints))
		for i, p := range tr.Waypoints {
			pts[i] = fmt.Sprintf("(%.1f, %.1f)", p.X, p.Y)
		}
		b.WriteString("  " + StyleValue.Render(strings.Join(pts, " → ")) + "\n")
	}

	return b.String()
}
