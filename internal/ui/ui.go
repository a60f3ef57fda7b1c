package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"tunebridge/internal/services"
	"tunebridge/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	ConvertView ViewState = iota
	ReviewView
	ConfirmView
	PublishView
	ResultView
)

// PublishOpts carries the playlist metadata used when the user confirms
// publication.
type PublishOpts struct {
	Title       string
	Description string
	Visibility  services.Visibility
}

// Model represents the TUI application state.
type Model struct {
	ctx         context.Context
	view        ViewState
	engine      *tasks.ConvertEngine
	playlistURL string
	publish     PublishOpts

	width  int
	height int

	resultList   list.Model
	progressChan chan tasks.ProgressUpdate
	progress     tasks.ProgressUpdate

	convertResult *tasks.ConvertResult
	publishResult *tasks.PublishResult
	err           error

	help help.Model
	keys keyMap
}

type progressUpdateMsg tasks.ProgressUpdate

type convertCompleteMsg struct {
	result *tasks.ConvertResult
	err    error
}

type publishCompleteMsg struct {
	result *tasks.PublishResult
	err    error
}

// NewModel creates a TUI model that converts the given playlist URL and,
// on confirmation, publishes the matched videos under the given options.
func NewModel(ctx context.Context, engine *tasks.ConvertEngine, playlistURL string, publish PublishOpts) *Model {
	return &Model{
		ctx:         ctx,
		view:        ConvertView,
		engine:      engine,
		playlistURL: playlistURL,
		publish:     publish,
		help:        help.New(),
		keys:        newKeyMap(),
	}
}

// Init starts the conversion immediately.
func (m *Model) Init() tea.Cmd {
	return m.startConvert()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.resultList.Width() == 0 {
			m.resultList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case ConvertView, PublishView:
			if msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
		case ReviewView:
			return m.handleReviewKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case progressUpdateMsg:
		m.progress = tasks.ProgressUpdate(msg)
		return m, m.waitForProgress()

	case convertCompleteMsg:
		m.convertResult = msg.result
		m.err = msg.err
		m.progressChan = nil
		if m.err != nil {
			m.view = ResultView
			return m, nil
		}

		items := make([]list.Item, len(msg.result.Results))
		for i, qr := range msg.result.Results {
			items[i] = queryItem{result: qr}
		}
		m.resultList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.resultList.Title = fmt.Sprintf("Matched %d/%d queries", msg.result.MatchedCount, msg.result.TotalQueries)
		m.resultList.SetSize(m.width-4, m.height-8)
		m.view = ReviewView
		return m, nil

	case publishCompleteMsg:
		m.publishResult = msg.result
		m.err = msg.err
		m.progressChan = nil
		m.view = ResultView
		return m, nil
	}

	if m.view == ReviewView {
		var cmd tea.Cmd
		m.resultList, cmd = m.resultList.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case ConvertView:
		return m.renderConvert()
	case ReviewView:
		return m.renderReview()
	case ConfirmView:
		return m.renderConfirm()
	case PublishView:
		return m.renderPublish()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleReviewKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "enter":
		if m.convertResult != nil && m.convertResult.MatchedCount > 0 {
			m.view = ConfirmView
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.resultList, cmd = m.resultList.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "n", "esc":
		m.view = ReviewView
		return m, nil
	case "y":
		m.view = PublishView
		return m, m.startPublish()
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "enter":
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) startConvert() tea.Cmd {
	m.progressChan = make(chan tasks.ProgressUpdate, 50)
	ch := m.progressChan

	go func() {
		result, err := m.engine.Convert(m.ctx, m.playlistURL, ch)
		m.convertResult = result
		m.err = err
		close(ch)
	}()

	return m.waitForProgress()
}

func (m *Model) startPublish() tea.Cmd {
	m.progressChan = make(chan tasks.ProgressUpdate, 50)
	ch := m.progressChan

	go func() {
		result, err := m.engine.Publish(m.ctx, m.convertResult, m.publish.Title, m.publish.Description, m.publish.Visibility, ch)
		m.publishResult = result
		m.err = err
		close(ch)
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	publishing := m.view == PublishView
	return func() tea.Msg {
		if m.progressChan == nil {
			return m.completionMsg(publishing)
		}

		update, ok := <-m.progressChan
		if !ok {
			return m.completionMsg(publishing)
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) completionMsg(publishing bool) tea.Msg {
	if publishing {
		return publishCompleteMsg{result: m.publishResult, err: m.err}
	}
	return convertCompleteMsg{result: m.convertResult, err: m.err}
}

func (m *Model) renderConvert() string {
	title := styles.title.Render("Converting Playlist")

	var phase string
	switch m.progress.Phase {
	case tasks.ExtractTracks:
		phase = m.progress.Message
	case tasks.ResolveQueries:
		phase = fmt.Sprintf("Resolving queries (%d/%d)", m.progress.Step, m.progress.Total)
	default:
		phase = "Starting..."
	}

	return fmt.Sprintf("%s\n\n%s\n%s", title, phase, styles.help.Render(m.progress.Message))
}

func (m *Model) renderReview() string {
	publishKey := key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "publish"),
	)
	helpKeys := []key.Binding{publishKey, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.resultList.View(), helpView)
}

func (m *Model) renderConfirm() string {
	title := styles.title.Render(fmt.Sprintf("Create playlist '%s' on YouTube?", m.publish.Title))
	info := fmt.Sprintf("\nVideos to add: %d\nVisibility: %s\n", m.convertResult.MatchedCount, m.publish.Visibility)

	helpKeys := []key.Binding{m.keys.yes, m.keys.no, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n%s", title, info, helpView)
}

func (m *Model) renderPublish() string {
	title := styles.title.Render("Publishing Playlist")

	var phase string
	switch m.progress.Phase {
	case tasks.CreatePlaylist:
		phase = "Creating playlist on YouTube..."
	case tasks.AddVideos:
		phase = fmt.Sprintf("Adding videos (%d/%d)", m.progress.Step, m.progress.Total)
	default:
		phase = "Starting..."
	}

	return fmt.Sprintf("%s\n\n%s\n%s", title, phase, styles.help.Render(m.progress.Message))
}

func (m *Model) renderResult() string {
	helpKeys := []key.Binding{m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Conversion failed: %v", m.err)) + "\n\n" + helpView
	}

	if m.publishResult == nil {
		return styles.err.Render("No result available") + "\n\n" + helpView
	}

	title := styles.ok.Render("✓ Playlist Created!")
	info := fmt.Sprintf(
		"\nURL: %s\nVideos added: %d/%d",
		m.publishResult.PlaylistURL,
		m.publishResult.Added,
		m.convertResult.MatchedCount,
	)

	var failed string
	if len(m.publishResult.Failures) > 0 {
		failed = "\n\n" + styles.warn.Render(fmt.Sprintf("Failed to add %d videos:", len(m.publishResult.Failures)))
		for _, f := range m.publishResult.Failures {
			failed += fmt.Sprintf("\n  • %s: %v", f.VideoID, f.Err)
		}
	}

	return fmt.Sprintf("%s\n%s%s\n\n%s", title, info, failed, helpView)
}
