package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/encorefm/encore/internal/engine"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	BrowseView ViewState = iota
	GenerateView
)

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	engine       *engine.Engine
	userID       string
	limit        int
	width        int
	height       int
	recList      list.Model
	status       string
	progressChan chan engine.ProgressUpdate
	progress     engine.ProgressUpdate
	doneChan     chan generateCompleteMsg
	result       *engine.BatchResult
	err          error
	help         help.Model
	keys         keyMap
}

// NewModel creates a new TUI model browsing recommendations for one user.
func NewModel(ctx context.Context, eng *engine.Engine, userID string, limit int) *Model {
	return &Model{
		ctx:    ctx,
		view:   BrowseView,
		engine: eng,
		userID: userID,
		limit:  limit,
		help:   help.New(),
		keys:   newKeyMap(),
	}
}

// Init initializes the TUI by loading the user's active recommendations.
func (m *Model) Init() tea.Cmd {
	return m.fetchRecommendations()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.recList.Width() == 0 {
			m.recList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		if m.view == BrowseView {
			return m.handleBrowseKeys(msg)
		}
		return m, nil

	case recommendationsFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		items := make([]list.Item, len(msg.recs))
		for i, rec := range msg.recs {
			items[i] = recItem{rec: rec}
		}
		m.recList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.recList.Title = "Your Recommendations"
		m.recList.SetSize(m.width-4, m.height-8)
		return m, nil

	case actionDoneMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		if msg.applied {
			m.status = styles.ok.Render(fmt.Sprintf("✓ %s", msg.action))
		} else {
			m.status = styles.warn.Render("Recommendation no longer exists")
		}
		return m, m.fetchRecommendations()

	case progressUpdateMsg:
		m.progress = engine.ProgressUpdate(msg)
		return m, m.waitForProgress()

	case generateCompleteMsg:
		m.result = msg.result
		m.err = msg.err
		m.view = BrowseView
		m.progressChan = nil
		m.doneChan = nil
		if msg.err != nil {
			return m, tea.Quit
		}
		m.status = styles.ok.Render(fmt.Sprintf("✓ Generated %d recommendations", msg.result.TotalGenerated))
		return m, m.fetchRecommendations()
	}

	var cmd tea.Cmd
	m.recList, cmd = m.recList.Update(msg)
	return m, cmd
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case BrowseView:
		return m.renderBrowse()
	case GenerateView:
		return m.renderGenerate()
	default:
		return ""
	}
}

func (m *Model) handleBrowseKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "l":
		if rec, ok := m.selectedRec(); ok {
			return m, m.markLiked(rec.rec.ID)
		}
	case "d":
		if rec, ok := m.selectedRec(); ok {
			return m, m.markDismissed(rec.rec.ID)
		}
	case "g":
		m.view = GenerateView
		return m, m.startGeneration()
	case "r":
		m.status = ""
		return m, m.fetchRecommendations()
	}

	var cmd tea.Cmd
	m.recList, cmd = m.recList.Update(msg)
	return m, cmd
}

func (m *Model) selectedRec() (recItem, bool) {
	selected := m.recList.SelectedItem()
	if selected == nil {
		return recItem{}, false
	}
	rec, ok := selected.(recItem)
	return rec, ok
}

func (m *Model) fetchRecommendations() tea.Cmd {
	return func() tea.Msg {
		recs, err := m.engine.Formatted(m.userID, m.limit)
		return recommendationsFetchedMsg{recs: recs, err: err}
	}
}

func (m *Model) markLiked(id string) tea.Cmd {
	return func() tea.Msg {
		applied, err := m.engine.MarkLiked(id, m.userID)
		return actionDoneMsg{action: "Liked", applied: applied, err: err}
	}
}

func (m *Model) markDismissed(id string) tea.Cmd {
	return func() tea.Msg {
		applied, err := m.engine.MarkDismissed(id, m.userID)
		return actionDoneMsg{action: "Dismissed", applied: applied, err: err}
	}
}

func (m *Model) startGeneration() tea.Cmd {
	m.progressChan = make(chan engine.ProgressUpdate, 50)
	m.doneChan = make(chan generateCompleteMsg, 1)

	progressCh, doneCh := m.progressChan, m.doneChan
	go func() {
		result, err := m.engine.GenerateAll(m.ctx, progressCh, engine.BatchOpts{
			UserID: m.userID,
			Limit:  m.limit,
		})
		close(progressCh)
		doneCh <- generateCompleteMsg{result: result, err: err}
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	progressCh, doneCh := m.progressChan, m.doneChan
	return func() tea.Msg {
		if progressCh == nil {
			return <-doneCh
		}

		update, ok := <-progressCh
		if !ok {
			return <-doneCh
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) renderBrowse() string {
	helpKeys := []key.Binding{m.keys.like, m.keys.dismiss, m.keys.generate, m.keys.refresh, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	body := m.recList.View()
	if m.status != "" {
		body = fmt.Sprintf("%s\n%s", body, m.status)
	}
	return fmt.Sprintf("%s\n\n%s", body, helpView)
}

func (m *Model) renderGenerate() string {
	title := styles.title.Render("Generating Recommendations")

	var phase string
	switch m.progress.Phase {
	case engine.ResolveUsers:
		phase = "Resolving users..."
	case engine.GenerateUser:
		phase = fmt.Sprintf("Generating (%d/%d)", m.progress.Step, m.progress.Total)
	case engine.SaveUser:
		phase = "Saving recommendations..."
	default:
		phase = "Processing..."
	}

	return fmt.Sprintf("%s\n\n%s\n%s", title, phase, m.progress.Message)
}
