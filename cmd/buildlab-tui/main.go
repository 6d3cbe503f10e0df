package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"buildlab/internal/codec"
	"buildlab/internal/config"
	"buildlab/internal/domain"
	"buildlab/internal/service"
)

const logHeight = 12

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginLeft(1)

	paneStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1)

	summaryStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	subtleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
)

type model struct {
	lab      *service.Lab
	input    textinput.Model
	nodes    table.Model
	logView  viewport.Model
	width    int
	message  string
	isErr    bool
	showHelp bool
}

func initialModel(lab *service.Lab) model {
	ti := textinput.New()
	ti.Placeholder = "add computer"
	ti.Prompt = "> "
	ti.CharLimit = 200
	ti.Width = 60
	ti.Focus()

	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "ID", Width: 10},
			{Title: "Kind", Width: 10},
			{Title: "Phase", Width: 14},
			{Title: "Reflects", Width: 10},
			{Title: "Score", Width: 6},
			{Title: "Cables", Width: 7},
		}),
		table.WithHeight(8),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("63")).
		BorderBottom(true).
		Bold(true)
	t.SetStyles(s)

	m := model{
		lab:     lab,
		input:   ti,
		nodes:   t,
		logView: viewport.New(80, logHeight),
	}
	m.refresh()
	return m
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.logView.Width = max(msg.Width-4, 20)
		m.refresh()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyPgUp, tea.KeyPgDown:
			m.logView, cmd = m.logView.Update(msg)
			return m, cmd
		case tea.KeyEnter:
			m.run(m.input.Value())
			m.input.Reset()
			return m, nil
		}
	}

	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *model) run(line string) {
	line = strings.TrimSpace(line)
	if line == "quit" || line == "exit" {
		return
	}

	out, err := execute(m.lab, line)
	m.showHelp = err == nil && strings.HasPrefix(strings.ToLower(line), "help")
	switch {
	case err != nil:
		m.message, m.isErr = err.Error(), true
	case m.showHelp:
		m.message, m.isErr = "", false
	default:
		m.message, m.isErr = out, false
	}
	m.refresh()
}

// refresh rebuilds the node table and activity pane from the lab
func (m *model) refresh() {
	snap := m.lab.Snapshot()

	cableCount := make(map[string]int)
	for _, c := range snap.Cables {
		cableCount[c.FromID]++
		cableCount[c.ToID]++
	}

	rows := make([]table.Row, 0, len(snap.Nodes))
	for _, n := range snap.Nodes {
		score := "-"
		if cfg := snap.Configs[n.ID]; cfg != nil && cfg.Metrics != nil {
			score = fmt.Sprintf("%d", cfg.Metrics.Overall)
		}
		rows = append(rows, table.Row{
			n.ID,
			string(n.Kind),
			string(n.Phase),
			n.LinkedComputer,
			score,
			fmt.Sprintf("%d", cableCount[n.ID]),
		})
	}
	m.nodes.SetRows(rows)

	m.logView.SetContent(strings.Join(m.lab.LogTail(200), "\n"))
	m.logView.GotoBottom()
}

func (m model) View() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("buildlab"))
	s.WriteString("\n\n")
	s.WriteString(paneStyle.Render(m.nodes.View()))
	s.WriteString("\n")
	s.WriteString(summaryStyle.Render(" " + m.lab.Aggregate().Summary()))
	s.WriteString("\n\n")

	if m.showHelp {
		s.WriteString(paneStyle.Render(usage))
	} else {
		s.WriteString(paneStyle.Render(m.logView.View()))
	}
	s.WriteString("\n")

	if m.message != "" {
		if m.isErr {
			s.WriteString(errorStyle.Render("✗ " + m.message))
		} else {
			s.WriteString(okStyle.Render("✓ " + m.message))
		}
		s.WriteString("\n")
	}

	s.WriteString(m.input.View())
	s.WriteString("\n")
	s.WriteString(subtleStyle.Render("enter: run • pgup/pgdn: scroll log • help: commands • esc: quit"))
	return s.String()
}

func main() {
	configPath := flag.String("config", "", "config file path")
	scenarioPath := flag.String("scenario", "", "scenario file to replay on start")
	flag.Parse()

	var (
		cfg *config.Config
		err error
	)
	if *configPath != "" {
		cfg, _, err = config.LoadFromPath(*configPath)
	} else {
		cfg, _, err = config.Load()
	}
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	lab := service.NewLab(
		service.WithAllowDuplicateCables(cfg.Lab.DuplicateCables()),
		service.WithAutoNetwork(service.AutoNetwork{
			Defaults:  cfg.Lab.AutoNetwork.Defaults(),
			FirstHost: cfg.Lab.AutoNetwork.FirstHost,
		}),
		service.WithLogTail(cfg.Lab.ActivityTail),
	)

	if *scenarioPath != "" {
		var sc *domain.Scenario
		sc, err = codec.ParseFile(*scenarioPath)
		if err != nil {
			log.Fatalf("Failed to load scenario: %v", err)
		}
		if report := service.ReplayScenario(lab, sc); !report.OK() {
			log.Printf("Scenario %s: %d entries failed", sc.Name, len(report.Failed()))
		}
	}

	if _, err := tea.NewProgram(initialModel(lab), tea.WithAltScreen()).Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
