// Package viewing is the interactive terminal view of the snapshot service:
// a top-like table of the busiest processes refreshed on an interval.
package viewing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"SystemMonitor/pkg/metrics"
)

// Row count bounds for the +/- keys.
const (
	minLimit = 1
	maxLimit = 200
)

// ReportService produces the reports the view displays.
// *collecting.Service satisfies it.
type ReportService interface {
	Report(ctx context.Context, limit int, sortBy metrics.SortKey) (metrics.Report, error)
}

// Options configures the view.
type Options struct {
	Limit   int
	SortBy  metrics.SortKey
	Refresh time.Duration
	Version string
}

// tickMsg triggers a refresh.
type tickMsg time.Time

// reportMsg carries the result of one refresh. limit and sortBy record what
// was asked for so answers to superseded requests can be dropped.
type reportMsg struct {
	report metrics.Report
	err    error
	limit  int
	sortBy metrics.SortKey
}

// Model is the bubbletea model for the top view.
type Model struct {
	ctx  context.Context
	svc  ReportService
	opts Options

	limit  int
	sortBy metrics.SortKey

	report   metrics.Report
	err      error
	loaded   bool
	paused   bool
	inFlight bool

	keys   KeyMap
	help   help.Model
	cpuBar progress.Model
	memBar progress.Model

	width  int
	height int
}

// New creates the view model. Zero option values fall back to 10 rows,
// CPU ordering and a two second refresh.
func New(ctx context.Context, svc ReportService, opts Options) Model {
	if opts.Limit < minLimit {
		opts.Limit = 10
	}
	if opts.Limit > maxLimit {
		opts.Limit = maxLimit
	}
	if opts.SortBy == "" {
		opts.SortBy = metrics.SortByCPU
	}
	if opts.Refresh <= 0 {
		opts.Refresh = 2 * time.Second
	}

	return Model{
		ctx:    ctx,
		svc:    svc,
		opts:   opts,
		limit:  opts.Limit,
		sortBy: opts.SortBy,
		keys:   DefaultKeyMap(),
		help:   help.New(),
		cpuBar: progress.New(progress.WithDefaultGradient(), progress.WithWidth(30)),
		memBar: progress.New(progress.WithDefaultGradient(), progress.WithWidth(30)),

		// The fetch issued by Init.
		inFlight: true,
	}
}

// Init fetches the first report and starts the refresh timer. New has
// already counted that fetch as in flight.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.fetchCmd(), m.tickCmd())
}

func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.opts.Refresh, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) fetchCmd() tea.Cmd {
	ctx, svc, limit, sortBy := m.ctx, m.svc, m.limit, m.sortBy
	return func() tea.Msg {
		rep, err := svc.Report(ctx, limit, sortBy)
		return reportMsg{report: rep, err: err, limit: limit, sortBy: sortBy}
	}
}

// refresh starts a fetch unless one is already running.
func (m Model) refresh() (Model, tea.Cmd) {
	if m.inFlight {
		return m, nil
	}
	m.inFlight = true
	return m, m.fetchCmd()
}

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		barWidth := msg.Width/2 - 16
		if barWidth < 10 {
			barWidth = 10
		}
		m.cpuBar.Width = barWidth
		m.memBar.Width = barWidth
		return m, nil

	case tickMsg:
		if m.paused {
			return m, m.tickCmd()
		}
		var cmd tea.Cmd
		m, cmd = m.refresh()
		return m, tea.Batch(cmd, m.tickCmd())

	case reportMsg:
		m.inFlight = false
		if msg.limit != m.limit || msg.sortBy != m.sortBy {
			// Settings changed while this one was running; ask again.
			return m.refresh()
		}
		if msg.err != nil {
			if errors.Is(msg.err, context.Canceled) {
				return m, tea.Quit
			}
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.report = msg.report
		m.loaded = true
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Pause):
		m.paused = !m.paused
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		return m.refresh()

	case key.Matches(msg, m.keys.SortCPU):
		return m.reconfigure(m.limit, metrics.SortByCPU)

	case key.Matches(msg, m.keys.SortMemory):
		return m.reconfigure(m.limit, metrics.SortByMemory)

	case key.Matches(msg, m.keys.More):
		return m.reconfigure(m.limit+1, m.sortBy)

	case key.Matches(msg, m.keys.Fewer):
		return m.reconfigure(m.limit-1, m.sortBy)
	}

	return m, nil
}

// reconfigure applies new table settings and refreshes right away.
func (m Model) reconfigure(limit int, sortBy metrics.SortKey) (tea.Model, tea.Cmd) {
	limit = max(minLimit, min(limit, maxLimit))
	if limit == m.limit && sortBy == m.sortBy {
		return m, nil
	}
	m.limit = limit
	m.sortBy = sortBy
	return m.refresh()
}

// View renders the whole screen.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.headerView())
	b.WriteString("\n\n")

	if !m.loaded && m.err == nil {
		b.WriteString(dimStyle.Render("Sampling..."))
		b.WriteString("\n\n")
	} else {
		b.WriteString(panelStyle.Render(m.systemView()))
		b.WriteString("\n")
		b.WriteString(m.tableView())
		b.WriteString("\n")
	}

	if m.err != nil {
		b.WriteString(errorStyle.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) headerView() string {
	title := "System Monitor"
	if m.opts.Version != "" && m.opts.Version != "dev" {
		title += " " + m.opts.Version
	}

	parts := []string{titleStyle.Render(title)}
	if m.loaded {
		parts = append(parts, dimStyle.Render(m.report.SampledAt.Format(time.TimeOnly)))
	}
	parts = append(parts, dimStyle.Render(fmt.Sprintf("top %d by %s, every %s", m.limit, m.sortBy, m.opts.Refresh)))
	if m.paused {
		parts = append(parts, pausedStyle.Render("PAUSED"))
	}
	return strings.Join(parts, dimStyle.Render(" | "))
}

func (m Model) systemView() string {
	sys := m.report.System
	cpu := labelStyle.Render("CPU") + m.cpuBar.ViewAs(sys.CPUPercent/100) + fmt.Sprintf(" %5.1f%%", sys.CPUPercent)
	mem := labelStyle.Render("Memory") + m.memBar.ViewAs(sys.MemoryPercent/100) + fmt.Sprintf(" %5.1f%%", sys.MemoryPercent)
	procs := labelStyle.Render("Procs") + fmt.Sprintf("%d", sys.TotalProcesses)
	return lipgloss.JoinVertical(lipgloss.Left, cpu, mem, procs)
}

// tableView renders the process table with the sorted column highlighted.
func (m Model) tableView() string {
	cpuHead, memHead := headerRowStyle.Render(fmt.Sprintf("%7s", "CPU%")), headerRowStyle.Render(fmt.Sprintf("%7s", "MEM%"))
	if m.sortBy == metrics.SortByMemory {
		memHead = sortedColumnStyle.Render(fmt.Sprintf("%7s", "MEM%▼"))
	} else {
		cpuHead = sortedColumnStyle.Render(fmt.Sprintf("%7s", "CPU%▼"))
	}

	nameWidth := 32
	if m.width > 0 {
		nameWidth = max(12, m.width-8-7-7-4)
	}

	var b strings.Builder
	b.WriteString(headerRowStyle.Render(fmt.Sprintf("%8s  %-*s", "PID", nameWidth, "NAME")))
	b.WriteString(" " + cpuHead + " " + memHead + "\n")

	if len(m.report.Processes) == 0 {
		b.WriteString(dimStyle.Render("no processes"))
		b.WriteString("\n")
		return b.String()
	}

	for _, p := range m.report.Processes {
		fmt.Fprintf(&b, "%8d  %-*s %s %s\n",
			p.PID,
			nameWidth, truncate(p.Name, nameWidth),
			usageStyle(p.CPUPercent).Render(fmt.Sprintf("%7.1f", p.CPUPercent)),
			usageStyle(p.MemoryPercent).Render(fmt.Sprintf("%7.1f", p.MemoryPercent)),
		)
	}
	return b.String()
}

// truncate shortens s to at most n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}

// Run shows the view until the user quits or ctx is cancelled.
func Run(ctx context.Context, svc ReportService, opts Options) error {
	p := tea.NewProgram(New(ctx, svc, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("run top view: %w", err)
	}
	return nil
}
