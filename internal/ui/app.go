package ui

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/runlog/internal/engine"
	"github.com/five82/runlog/internal/prefs"
	"github.com/five82/runlog/internal/state"
)

// Options configures the viewer.
type Options struct {
	Context context.Context
	Store   *state.Store
	Name    string // shown in the header, usually the file path
	Engine  []engine.Option
	Search  string

	// Follow polls Store every PollTick and reloads when its version moves.
	Follow   bool
	PollTick time.Duration

	ThemeName string
	Prefs     prefs.Prefs
	PrefsPath string
}

// Model is the root viewer state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	store     *state.Store
	name      string
	prefs     prefs.Prefs
	prefsPath string
	pollTick  time.Duration
	following bool

	// Log state
	engine   *engine.Engine
	version  uint64
	status   state.Snapshot
	loadErr  error
	autoTail bool

	// Tree state
	rows     []row
	expanded map[int]bool
	cursor   int
	top      int

	// Search state
	searchActive bool
	searchInput  textinput.Model
	prevTerm     string
	originLine   int
	matches      []int
	matchIdx     int

	// UI state
	keys     keyMap
	theme    Theme
	width    int
	height   int
	ready    bool
	showHelp bool
}

// New creates a viewer model. When a store is given its current contents
// are loaded immediately.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	pollTick := opts.PollTick
	if pollTick <= 0 {
		pollTick = time.Second
	}

	userPrefs := opts.Prefs
	if userPrefs == (prefs.Prefs{}) {
		userPrefs = prefs.Default()
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = userPrefs.Theme
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	ti := textinput.New()
	ti.Prompt = "/"
	ti.Placeholder = "Search log..."
	ti.CharLimit = 200

	m := Model{
		ctx:         ctx,
		store:       opts.Store,
		name:        opts.Name,
		prefs:       userPrefs,
		prefsPath:   prefsPath,
		pollTick:    pollTick,
		following:   opts.Follow && opts.Store != nil,
		engine:      engine.New(opts.Engine...),
		autoTail:    opts.Follow,
		expanded:    make(map[int]bool),
		searchInput: ti,
		keys:        DefaultKeyMap(),
		theme:       GetTheme(themeName),
	}

	if opts.Search != "" {
		m.engine.SetSearch(opts.Search)
		m.searchInput.SetValue(opts.Search)
	}
	if m.store != nil {
		m.applySnapshot(m.store.Snapshot())
	}
	m.rebuildRows()
	m.refreshMatches()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	if !m.following {
		return nil
	}
	return tickCmd(m.pollTick)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.searchInput.Width = max(m.width-20, 10)
		m.ready = true
		m.ensureVisible()
		return m, nil

	case tickMsg:
		return m.handleTick()

	case snapshotMsg:
		m.applySnapshot(state.Snapshot(msg))
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	return m.renderHeader() + "\n" + m.renderBody() + "\n" + m.renderCommandBar()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}
	if m.searchActive {
		return m.handleSearchInput(msg)
	}

	h := m.bodyHeight()
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.prefs.Theme = m.theme.Name
		m.savePrefs()

	case key.Matches(msg, m.keys.ToggleTimes):
		m.prefs.ShowTimes = !m.prefs.ShowTimes
		m.savePrefs()

	case key.Matches(msg, m.keys.ToggleFollow):
		m.autoTail = !m.autoTail
		if m.autoTail {
			m.gotoBottom()
		}

	case key.Matches(msg, m.keys.Search):
		return m, m.startSearch()

	case key.Matches(msg, m.keys.NextMatch):
		m.nextMatch()

	case key.Matches(msg, m.keys.PrevMatch):
		m.prevMatch()

	case key.Matches(msg, m.keys.Escape):
		m.clearSearch()

	case key.Matches(msg, m.keys.ToggleGroup):
		m.toggleGroup()

	case key.Matches(msg, m.keys.ToggleAll):
		m.toggleAll()

	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.PageDown):
		m.moveCursor(h)
	case key.Matches(msg, m.keys.PageUp):
		m.moveCursor(-h)
	case key.Matches(msg, m.keys.HalfPageDown):
		m.moveCursor(max(h/2, 1))
	case key.Matches(msg, m.keys.HalfPageUp):
		m.moveCursor(-max(h/2, 1))
	case key.Matches(msg, m.keys.Top):
		m.moveCursor(-len(m.rows))
	case key.Matches(msg, m.keys.Bottom):
		m.gotoBottom()
		m.autoTail = true
	}

	return m, nil
}

func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if !m.following {
		return m, nil
	}
	return m, tea.Batch(fetchSnapshotCmd(m.store, m.version), tickCmd(m.pollTick))
}

// applySnapshot records the store status and reparses the log when its
// version moved. Content that fails to decode keeps the previous document.
func (m *Model) applySnapshot(snap state.Snapshot) {
	raw := snap.Raw
	snap.Raw = nil
	m.status = snap
	if !snap.HasData() || snap.Version == m.version {
		return
	}
	m.version = snap.Version
	if err := m.engine.SetRaw(raw); err != nil {
		m.loadErr = err
		return
	}
	m.loadErr = nil
	m.rebuildRows()
	m.refreshMatches()
	if m.autoTail {
		m.gotoBottom()
	}
	m.ensureVisible()
}

func (m *Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	_ = prefs.Save(m.prefsPath, m.prefs)
}

func (m Model) bodyHeight() int {
	return max(m.height-2, 1)
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// fetchSnapshotCmd copies the log contents only when the store moved past
// the version the model already shows.
func fetchSnapshotCmd(store *state.Store, have uint64) tea.Cmd {
	return func() tea.Msg {
		if store.Version() == have {
			return snapshotMsg(store.Status())
		}
		return snapshotMsg(store.Snapshot())
	}
}

// Run starts the Bubble Tea program and blocks until it exits or the
// options' context is cancelled.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		return nil
	}
	return err
}
