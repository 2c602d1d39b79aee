// Copyright 2026 The Altus Authors
// SPDX-License-Identifier: Apache-2.0

package deployment

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/altus-cloud/altus/cmd/altus/cli"
	"github.com/altus-cloud/altus/lib/api"
	"github.com/altus-cloud/altus/lib/console"
)

type watchParams struct {
	Interval time.Duration `flag:"interval,i" desc:"poll interval" default:"2s"`
}

func watchCommand(ui *console.Console) *cli.Command {
	var params watchParams

	return &cli.Command{
		Name:    "watch",
		Summary: "Live view of deployment state",
		Description: `Full-screen view of deployment state, refreshed on a fixed poll
interval. With a name, watches that one deployment; without, watches
the whole workspace. Press q to quit, r to refresh immediately.`,
		Usage: "altus deployment watch [name] [flags]",
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, _ *slog.Logger) error {
			if err := cli.Check(len(args) <= 1, "expected at most one deployment name"); err != nil {
				return err
			}
			if err := cli.Check(params.Interval >= 500*time.Millisecond, "--interval must be at least 500ms"); err != nil {
				return err
			}
			if !term.IsTerminal(int(os.Stdout.Fd())) {
				return cli.Validation("watch needs a terminal (use \"altus deployment list\" for one-shot output)")
			}

			client, _, err := cli.Connect(ctx)
			if err != nil {
				return err
			}

			model := newWatchModel(client, firstOrEmpty(args), params.Interval)
			program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
			if _, err := program.Run(); err != nil {
				return fmt.Errorf("watch: %w", err)
			}
			return nil
		},
	}
}

// pollResultMsg delivers one poll's outcome through the bubbletea
// message loop. seq identifies the poll chain that produced it.
type pollResultMsg struct {
	seq         int
	deployments []api.Deployment
	err         error
	at          time.Time
}

// pollTickMsg asks for the next poll of its chain.
type pollTickMsg struct {
	seq int
}

type watchKeyMap struct {
	Quit    key.Binding
	Refresh key.Binding
}

// watchModel is the bubbletea model behind "deployment watch". Polling
// runs as a single chain of poll → result → tick → poll commands,
// identified by seq: a manual refresh bumps seq and starts a new
// chain, orphaning the old one so ticks never stack up.
type watchModel struct {
	client   *api.Client
	name     string
	interval time.Duration

	seq      int
	loaded   bool
	rows     []api.Deployment
	pollErr  error
	lastPoll time.Time
	width    int

	spinner spinner.Model
	keys    watchKeyMap

	titleStyle  lipgloss.Style
	headerStyle lipgloss.Style
	footerStyle lipgloss.Style
	errorStyle  lipgloss.Style
	stateStyles map[string]lipgloss.Style
}

func newWatchModel(client *api.Client, name string, interval time.Duration) watchModel {
	loadingSpinner := spinner.New(spinner.WithSpinner(spinner.Dot))

	return watchModel{
		client:   client,
		name:     name,
		interval: interval,
		spinner:  loadingSpinner,
		keys: watchKeyMap{
			Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
			Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		},
		titleStyle:  lipgloss.NewStyle().Bold(true),
		headerStyle: lipgloss.NewStyle().Faint(true),
		footerStyle: lipgloss.NewStyle().Faint(true),
		errorStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		stateStyles: map[string]lipgloss.Style{
			api.DeploymentRunning:  lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
			api.DeploymentFailed:   lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
			api.DeploymentDegraded: lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
			api.DeploymentPending:  lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
			api.DeploymentStopped:  lipgloss.NewStyle().Faint(true),
		},
	}
}

func (m watchModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.poll(m.seq))
}

// poll fetches the watched deployment set once. It runs inside
// bubbletea's command machinery; the API client's own timeout bounds
// the call.
func (m watchModel) poll(seq int) tea.Cmd {
	client, name := m.client, m.name
	return func() tea.Msg {
		ctx := context.Background()
		if name != "" {
			deployment, err := client.GetDeployment(ctx, name)
			if err != nil {
				return pollResultMsg{seq: seq, err: err, at: time.Now()}
			}
			return pollResultMsg{seq: seq, deployments: []api.Deployment{*deployment}, at: time.Now()}
		}
		deployments, err := client.ListDeployments(ctx)
		return pollResultMsg{seq: seq, deployments: deployments, err: err, at: time.Now()}
	}
}

func (m watchModel) scheduleTick(seq int) tea.Cmd {
	return tea.Tick(m.interval, func(time.Time) tea.Msg {
		return pollTickMsg{seq: seq}
	})
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Refresh):
			m.seq++
			return m, m.poll(m.seq)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width

	case pollResultMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		m.loaded = true
		m.lastPoll = msg.at
		if msg.err != nil {
			m.pollErr = msg.err
		} else {
			m.pollErr = nil
			m.rows = msg.deployments
		}
		return m, m.scheduleTick(msg.seq)

	case pollTickMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		return m, m.poll(msg.seq)

	case spinner.TickMsg:
		if m.loaded {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m watchModel) View() string {
	var view strings.Builder

	title := "deployments"
	if m.name != "" {
		title = "deployment " + m.name
	}
	view.WriteString(m.titleStyle.Render(title) + "  " + m.footerStyle.Render(m.client.BaseURL()))
	view.WriteString("\n\n")

	switch {
	case !m.loaded:
		view.WriteString(m.spinner.View() + " loading deployments...\n")
	case m.pollErr != nil && len(m.rows) == 0:
		view.WriteString(m.errorStyle.Render("poll failed: "+m.pollErr.Error()) + "\n")
	case len(m.rows) == 0:
		view.WriteString("no deployments in this workspace\n")
	default:
		view.WriteString(m.renderTable())
	}

	view.WriteString("\n")
	view.WriteString(m.footerStyle.Render(m.footerLine()))
	view.WriteString("\n")
	return view.String()
}

func (m watchModel) renderTable() string {
	var table strings.Builder

	table.WriteString(m.headerStyle.Render(fmt.Sprintf("%-24s  %-10s  %-9s  %-5s  %s",
		"NAME", "STATE", "REPLICAS", "AGE", "ENDPOINT")))
	table.WriteString("\n")

	for _, deployment := range m.rows {
		// Pad before styling: the state cell's ANSI codes must not
		// count toward its column width.
		stateCell := fmt.Sprintf("%-10s", deployment.State)
		if style, ok := m.stateStyles[deployment.State]; ok {
			stateCell = style.Render(stateCell)
		}

		table.WriteString(fmt.Sprintf("%-24s  %s  %-9s  %-5s  %s\n",
			deployment.Name,
			stateCell,
			formatReplicas(deployment.Replicas),
			formatAge(deployment.CreatedAt),
			deployment.Endpoint,
		))
	}

	if m.pollErr != nil {
		table.WriteString("\n")
		table.WriteString(m.errorStyle.Render("poll failed: "+m.pollErr.Error()) + "\n")
	}
	return table.String()
}

func (m watchModel) footerLine() string {
	lastPoll := "-"
	if !m.lastPoll.IsZero() {
		lastPoll = m.lastPoll.Format("15:04:05")
	}
	return fmt.Sprintf("last poll %s · every %s · q quit · r refresh", lastPoll, m.interval)
}
