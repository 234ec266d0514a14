package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/soverby/tempo/internal/config"
	"github.com/soverby/tempo/internal/core"
	tempoerrors "github.com/soverby/tempo/internal/errors"
	"github.com/soverby/tempo/internal/library"
	"github.com/soverby/tempo/internal/logging"
	"github.com/soverby/tempo/internal/playback"
	"github.com/soverby/tempo/internal/spotify/auth"
	"github.com/soverby/tempo/internal/spotify/client"
	"github.com/soverby/tempo/internal/spotify/player"
	"github.com/soverby/tempo/internal/tui/components"
	"github.com/soverby/tempo/internal/tui/styles"
)

// Panel represents which panel is focused
type Panel int

const (
	PanelNowPlaying Panel = iota
	PanelLibrary
	PanelDevices
	PanelHistory
)

// SearchType represents the type of search to perform
type SearchType int

const (
	SearchAll SearchType = iota
	SearchTracks
	SearchAlbums
	SearchArtists
	SearchPlaylists
)

// searchResult represents a search result item
type searchResult struct {
	ID       string
	URI      string
	Title    string
	Subtitle string
	Type     SearchType
	BPM      float64
}

const (
	searchDebounce   = 300 * time.Millisecond
	errorDisplayTime = 5 * time.Second

	// Devices and the library change rarely; refresh them on a slow
	// cadence. Playback state arrives by push from the session.
	slowRefresh = 10 * time.Second
)

// App wires the Spotify client, the playback session, and the track
// library for the dashboard.
type App struct {
	client  *client.Client
	player  *player.Player
	session *playback.Session
	library *library.Store
	cfg     *config.Config
}

// NewApp builds the dashboard's collaborators from config. The
// session is not started; Run does that.
func NewApp(cfg *config.Config) (*App, error) {
	storage, err := auth.NewTokenStorage("")
	if err != nil {
		return nil, err
	}

	spotifyClient := client.New(cfg.Spotify.ClientID, storage)
	if err := spotifyClient.LoadToken(); err != nil {
		return nil, err
	}

	store, err := library.NewStore(cfg.Library.Path)
	if err != nil {
		return nil, err
	}
	if err := store.Load(); err != nil {
		return nil, err
	}

	// Console logging would fight the alternate screen, so the session
	// only logs when a file is configured.
	logger := logging.Disabled()
	if cfg.Log.File != "" {
		logger = logging.New(cfg.Log)
	}

	session := playback.NewSession(player.NewRemote(spotifyClient), playback.Config{
		PollInterval:   cfg.Sync.PollInterval(),
		TickInterval:   cfg.Sync.TickInterval(),
		CommandSpacing: cfg.Sync.CommandSpacing(),
		NudgeDelay:     cfg.Sync.NudgeDelay(),
	}, logger)
	session.SetBPMSource(store)

	return &App{
		client:  spotifyClient,
		player:  player.New(spotifyClient),
		session: session,
		library: store,
		cfg:     cfg,
	}, nil
}

// Model is the main TUI model
type Model struct {
	app          *App
	width        int
	height       int
	focusedPanel Panel

	// State
	state   *core.PlaybackState
	entries []library.Entry
	devices []core.Device
	history []components.HistoryEntry
	volume  int

	// Components
	nowPlaying  *components.NowPlaying
	libraryView *components.Library
	devicesView *components.Devices
	historyView *components.History

	// Overlays
	showHelp bool

	// Search state
	showSearch    bool
	searchInput   textinput.Model
	searchResults []searchResult
	searchCursor  int
	searchType    SearchType
	searching     bool
	lastQuery     string
	searchErr     error

	// Error handling
	lastError   error
	errorExpiry time.Time

	// Quit flag
	quitting bool
}

// NewModel creates a new TUI model
func NewModel(app *App) Model {
	ti := textinput.New()
	ti.Placeholder = "Search tracks, albums, artists, playlists..."
	ti.CharLimit = 100
	ti.Width = 50

	return Model{
		app:          app,
		focusedPanel: PanelNowPlaying,
		nowPlaying:   components.NewNowPlaying(),
		libraryView:  components.NewLibrary(),
		devicesView:  components.NewDevices(),
		historyView:  components.NewHistory(),
		history:      make([]components.HistoryEntry, 0),
		volume:       app.cfg.Defaults.Volume,
		searchInput:  ti,
	}
}

// Messages
type sessionUpdateMsg playback.Update
type tickMsg time.Time
type devicesMsg []core.Device
type historyMsg []core.HistoryEntry
type libraryMsg []library.Entry
type errMsg error
type defaultDeviceSetMsg string

// Search messages
type searchDebounceMsg struct{ query string }
type searchResultsMsg struct {
	results []searchResult
	err     error
}

// Commands

// waitForUpdate delivers the next playback update pushed by the
// session. The handler re-arms it, so the subscription stays live for
// the life of the program.
func (m Model) waitForUpdate() tea.Cmd {
	return func() tea.Msg {
		u, ok := <-m.app.session.Updates()
		if !ok {
			return nil
		}
		return sessionUpdateMsg(u)
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(slowRefresh, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) fetchDevices() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		devices, err := m.app.player.GetDevices(ctx)
		if err != nil {
			return errMsg(err)
		}
		return devicesMsg(devices)
	}
}

func (m Model) fetchHistory() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		history, err := m.app.player.GetRecentlyPlayed(ctx, 20)
		if err != nil {
			return errMsg(err)
		}
		return historyMsg(history)
	}
}

func (m Model) loadLibrary() tea.Cmd {
	return func() tea.Msg {
		return libraryMsg(m.app.library.List())
	}
}

func (m Model) doSearch(query string) tea.Cmd {
	searchType := m.searchType
	return func() tea.Msg {
		if query == "" {
			return searchResultsMsg{results: nil}
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var types []client.SearchType
		switch searchType {
		case SearchTracks:
			types = []client.SearchType{client.SearchTypeTrack}
		case SearchAlbums:
			types = []client.SearchType{client.SearchTypeAlbum}
		case SearchArtists:
			types = []client.SearchType{client.SearchTypeArtist}
		case SearchPlaylists:
			types = []client.SearchType{client.SearchTypePlaylist}
		default:
			types = []client.SearchType{
				client.SearchTypeTrack,
				client.SearchTypeAlbum,
				client.SearchTypeArtist,
				client.SearchTypePlaylist,
			}
		}

		resp, err := m.app.client.Search(ctx, client.SearchOptions{
			Query: query,
			Types: types,
			Limit: 10,
		})
		if err != nil {
			return searchResultsMsg{err: err}
		}

		var results []searchResult

		if resp.Tracks != nil {
			for _, t := range resp.Tracks.Items {
				artists := make([]string, len(t.Artists))
				for i, a := range t.Artists {
					artists[i] = a.Name
				}
				result := searchResult{
					ID:       t.ID,
					URI:      t.URI,
					Title:    t.Name,
					Subtitle: strings.Join(artists, ", "),
					Type:     SearchTracks,
				}
				// Library tracks carry their tempo into the results.
				if bpm, ok := m.app.library.BPM(t.ID); ok {
					result.BPM = bpm
				}
				results = append(results, result)
			}
		}
		if resp.Albums != nil {
			for _, a := range resp.Albums.Items {
				artists := make([]string, len(a.Artists))
				for i, art := range a.Artists {
					artists[i] = art.Name
				}
				results = append(results, searchResult{
					ID:       a.ID,
					URI:      a.URI,
					Title:    a.Name,
					Subtitle: strings.Join(artists, ", ") + " (Album)",
					Type:     SearchAlbums,
				})
			}
		}
		if resp.Artists != nil {
			for _, a := range resp.Artists.Items {
				results = append(results, searchResult{
					ID:       a.ID,
					URI:      a.URI,
					Title:    a.Name,
					Subtitle: "(Artist)",
					Type:     SearchArtists,
				})
			}
		}
		if resp.Playlists != nil {
			for _, p := range resp.Playlists.Items {
				results = append(results, searchResult{
					ID:       p.ID,
					URI:      p.URI,
					Title:    p.Name,
					Subtitle: "by " + p.Owner.DisplayName + " (Playlist)",
					Type:     SearchPlaylists,
				})
			}
		}

		return searchResultsMsg{results: results}
	}
}

// playSearchResult starts the selection. Tracks go through the
// session so the guards and the optimistic machinery apply; contexts
// (albums, artists, playlists) go straight to the player, with a
// nudge to pick up the change quickly.
func (m Model) playSearchResult(result searchResult) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		switch result.Type {
		case SearchTracks:
			if err := m.app.session.PlayTrack(ctx, result.URI); err != nil && !throttled(err) {
				return errMsg(err)
			}
		default:
			if err := m.app.player.PlayContext(ctx, result.URI, 0); err != nil {
				return errMsg(err)
			}
			time.Sleep(200 * time.Millisecond)
			m.app.session.Nudge()
		}
		return nil
	}
}

func (m Model) queueSearchResult(result searchResult) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := m.app.player.AddToQueue(ctx, result.URI); err != nil {
			return errMsg(err)
		}
		return nil
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.waitForUpdate(),
		m.tick(),
		m.fetchDevices(),
		m.fetchHistory(),
		m.loadLibrary(),
	)
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case sessionUpdateMsg:
		return m.applyUpdate(playback.Update(msg))

	case tickMsg:
		return m, tea.Batch(m.tick(), m.fetchDevices(), m.loadLibrary())

	case devicesMsg:
		m.clearExpiredError()
		m.devices = msg
		for _, d := range m.devices {
			if d.IsActive && d.Volume > 0 {
				m.volume = d.Volume
				break
			}
		}
		return m, nil

	case historyMsg:
		m.clearExpiredError()
		// Entries observed live stay in front; the fetched tail fills
		// in what happened before launch.
		for _, h := range msg {
			m.history = append(m.history, components.HistoryEntry{
				Track:    h.Track,
				PlayedAt: h.PlayedAt,
			})
		}
		if len(m.history) > 50 {
			m.history = m.history[:50]
		}
		return m, nil

	case libraryMsg:
		m.entries = msg
		return m, nil

	case errMsg:
		m.lastError = msg
		m.errorExpiry = time.Now().Add(errorDisplayTime)
		return m, nil

	case defaultDeviceSetMsg:
		m.app.cfg.Defaults.Device = string(msg)
		return m, nil

	case searchDebounceMsg:
		if msg.query == m.searchInput.Value() && msg.query != m.lastQuery {
			m.lastQuery = msg.query
			m.searching = true
			return m, m.doSearch(msg.query)
		}

	case searchResultsMsg:
		m.searching = false
		m.searchResults = msg.results
		m.searchErr = msg.err
		m.searchCursor = 0
		return m, nil
	}

	// Forward other messages to textinput when search is active
	if m.showSearch {
		var inputCmd tea.Cmd
		m.searchInput, inputCmd = m.searchInput.Update(msg)
		return m, inputCmd
	}

	return m, nil
}

// applyUpdate folds a session update into the view and re-arms the
// subscription.
func (m Model) applyUpdate(u playback.Update) (tea.Model, tea.Cmd) {
	m.clearExpiredError()
	if u.Err != nil && !throttled(u.Err) {
		m.lastError = u.Err
		m.errorExpiry = time.Now().Add(errorDisplayTime)
	}

	// Record a track change before the state is replaced, so the old
	// entry can be marked completed or skipped.
	oldURI := ""
	var oldProgress, oldDuration time.Duration
	if m.state != nil && m.state.Track != nil {
		oldURI = m.state.Track.URI
		oldProgress = m.state.Progress
		oldDuration = m.state.Track.Duration
	}
	if u.Track != nil && u.Track.URI != oldURI {
		m.noteTrackChange(u.Track, oldURI, oldProgress, oldDuration)
	}

	state := &core.PlaybackState{
		Track:     u.Track,
		IsPlaying: u.IsPlaying,
		Progress:  u.Position,
		Volume:    m.volume,
	}
	for i := range m.devices {
		if m.devices[i].IsActive {
			state.Device = &m.devices[i]
			break
		}
	}
	m.state = state

	return m, m.waitForUpdate()
}

func (m *Model) clearExpiredError() {
	if m.lastError != nil && time.Now().After(m.errorExpiry) {
		m.lastError = nil
	}
}

// noteTrackChange pushes the new track onto history and marks how the
// previous one ended.
func (m *Model) noteTrackChange(track *core.Track, oldURI string, oldProgress, oldDuration time.Duration) {
	if len(m.history) > 0 && oldURI != "" && oldDuration > 0 &&
		m.history[0].Track != nil && m.history[0].Track.URI == oldURI {
		m.history[0].Skipped = float64(oldProgress) < float64(oldDuration)*0.95
	}

	entry := components.HistoryEntry{
		Track:    track,
		PlayedAt: time.Now(),
	}
	m.history = append([]components.HistoryEntry{entry}, m.history...)
	if len(m.history) > 50 {
		m.history = m.history[:50]
	}
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global keys (always work)
	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	}

	// Help overlay
	if m.showHelp {
		switch msg.String() {
		case "?", "esc":
			m.showHelp = false
		}
		return m, nil
	}

	// Search overlay
	if m.showSearch {
		return m.handleSearchKeyPress(msg)
	}

	// Normal mode
	switch msg.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit

	case "?":
		m.showHelp = true
		return m, nil

	case "/":
		m.showSearch = true
		m.searchInput.SetValue("")
		m.searchInput.Focus()
		m.searchResults = nil
		m.searchCursor = 0
		m.searchType = SearchAll
		m.lastQuery = ""
		m.searchErr = nil
		return m, textinput.Blink

	case "esc":
		// Nothing to close in normal mode
		return m, nil

	case "tab":
		m.focusedPanel = (m.focusedPanel + 1) % 4
		return m, nil

	case "shift+tab":
		m.focusedPanel = (m.focusedPanel + 3) % 4
		return m, nil
	}

	// Playback controls
	switch msg.String() {
	case " ":
		return m, m.togglePlayPause()
	case "n":
		return m, m.nextTrack()
	case "p":
		return m, m.prevTrack()
	case "+", "=":
		m.volume = clampVolume(m.volume + 5)
		return m, m.setVolume(m.volume)
	case "-":
		m.volume = clampVolume(m.volume - 5)
		return m, m.setVolume(m.volume)
	case "r":
		return m, tea.Batch(m.fetchDevices(), m.loadLibrary())
	}

	// Panel-specific keys
	switch m.focusedPanel {
	case PanelLibrary:
		switch msg.String() {
		case "j", "down":
			m.libraryView.MoveDown(len(m.entries))
		case "k", "up":
			m.libraryView.MoveUp()
		case "enter":
			return m, m.playLibraryEntry()
		case "a":
			return m, m.queueLibraryEntry()
		}
	case PanelDevices:
		switch msg.String() {
		case "j", "down":
			m.devicesView.SelectNext()
		case "k", "up":
			m.devicesView.SelectPrev()
		case "enter":
			return m, m.transferToDevice()
		case "d":
			return m, m.setDefaultDevice()
		}
	}

	return m, nil
}

func (m Model) handleSearchKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg.String() {
	case "esc":
		m.showSearch = false
		m.searchInput.Blur()
		return m, nil

	case "enter":
		if len(m.searchResults) > 0 && m.searchCursor < len(m.searchResults) {
			result := m.searchResults[m.searchCursor]
			m.showSearch = false
			m.searchInput.Blur()
			return m, m.playSearchResult(result)
		}
		return m, nil

	case "up", "ctrl+p":
		if m.searchCursor > 0 {
			m.searchCursor--
		}
		return m, nil

	case "down", "ctrl+n":
		if m.searchCursor < len(m.searchResults)-1 {
			m.searchCursor++
		}
		return m, nil

	case "ctrl+t":
		// Cycle through search types
		m.searchType = (m.searchType + 1) % 5
		if m.searchInput.Value() != "" {
			m.searching = true
			return m, m.doSearch(m.searchInput.Value())
		}
		return m, nil

	case "ctrl+q":
		// Add to queue (tracks only)
		if len(m.searchResults) > 0 && m.searchCursor < len(m.searchResults) {
			result := m.searchResults[m.searchCursor]
			if result.Type == SearchTracks {
				m.showSearch = false
				m.searchInput.Blur()
				return m, m.queueSearchResult(result)
			}
		}
		return m, nil
	}

	// Handle text input
	var inputCmd tea.Cmd
	m.searchInput, inputCmd = m.searchInput.Update(msg)
	cmds = append(cmds, inputCmd)

	// Debounce search
	if m.searchInput.Value() != m.lastQuery {
		cmds = append(cmds, tea.Tick(searchDebounce, func(time.Time) tea.Msg {
			return searchDebounceMsg{query: m.searchInput.Value()}
		}))
	}

	return m, tea.Batch(cmds...)
}

// togglePlayPause flips playback through the session. The optimistic
// flip arrives as a pushed update; guard throttles are silent no-ops.
func (m Model) togglePlayPause() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := m.app.session.TogglePlayPause(ctx); err != nil && !throttled(err) {
			return errMsg(err)
		}
		return nil
	}
}

// throttled reports whether err is a local guard rejection, which the
// dashboard treats as a no-op.
func throttled(err error) bool {
	return tempoerrors.KindOf(err) == tempoerrors.KindThrottled
}

// playLibraryEntry starts the library track under the cursor.
func (m Model) playLibraryEntry() tea.Cmd {
	cursor := m.libraryView.Cursor()
	if cursor < 0 || cursor >= len(m.entries) {
		return nil
	}
	entry := m.entries[cursor]
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := m.app.session.PlayTrack(ctx, entry.URI); err != nil && !throttled(err) {
			return errMsg(err)
		}
		return nil
	}
}

// queueLibraryEntry appends the library track under the cursor to the
// playback queue.
func (m Model) queueLibraryEntry() tea.Cmd {
	cursor := m.libraryView.Cursor()
	if cursor < 0 || cursor >= len(m.entries) {
		return nil
	}
	entry := m.entries[cursor]
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := m.app.player.AddToQueue(ctx, entry.URI); err != nil {
			return errMsg(err)
		}
		return nil
	}
}

func (m Model) nextTrack() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := m.app.player.Next(ctx); err != nil {
			return errMsg(err)
		}
		// Give Spotify a moment to switch before confirming.
		time.Sleep(200 * time.Millisecond)
		m.app.session.Nudge()
		return nil
	}
}

func (m Model) prevTrack() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := m.app.player.Prev(ctx); err != nil {
			return errMsg(err)
		}
		time.Sleep(200 * time.Millisecond)
		m.app.session.Nudge()
		return nil
	}
}

func (m Model) setVolume(percent int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := m.app.player.Volume(ctx, percent); err != nil {
			return errMsg(err)
		}
		return nil
	}
}

func clampVolume(v int) int {
	if v > 100 {
		return 100
	}
	if v < 0 {
		return 0
	}
	return v
}

func (m Model) transferToDevice() tea.Cmd {
	selected := m.devicesView.Selected()
	if selected < 0 || selected >= len(m.devices) {
		return nil
	}
	device := m.devices[selected]
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := m.app.player.TransferPlayback(ctx, device.ID, true); err != nil {
			return errMsg(err)
		}
		time.Sleep(200 * time.Millisecond)
		m.app.session.Nudge()
		return nil
	}
}

func (m Model) setDefaultDevice() tea.Cmd {
	selected := m.devicesView.Selected()
	if selected < 0 || selected >= len(m.devices) {
		return nil
	}
	device := m.devices[selected]
	return func() tea.Msg {
		if err := saveDefaultDevice(device.Name); err != nil {
			return errMsg(err)
		}
		return defaultDeviceSetMsg(device.Name)
	}
}

// saveDefaultDevice persists the default device name to the config file
func saveDefaultDevice(deviceName string) error {
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home dir: %w", err)
	}

	configPath := filepath.Join(home, ".temporc")

	// Read existing config
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			data = []byte{}
		} else {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	// Parse config
	var rawConfig map[string]interface{}
	if len(data) > 0 {
		if _, err := toml.Decode(string(data), &rawConfig); err != nil {
			return fmt.Errorf("failed to parse config: %w", err)
		}
	} else {
		rawConfig = make(map[string]interface{})
	}

	// Get or create defaults section
	defaults, ok := rawConfig["defaults"].(map[string]interface{})
	if !ok {
		defaults = make(map[string]interface{})
		rawConfig["defaults"] = defaults
	}
	defaults["device"] = deviceName

	// Write back
	f, err := os.Create(configPath)
	if err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	defer f.Close()

	_, _ = fmt.Fprintln(f, "# Tempo Configuration")
	_, _ = fmt.Fprintln(f, "")

	encoder := toml.NewEncoder(f)
	encoder.Indent = "  "
	return encoder.Encode(rawConfig)
}

// View renders the UI
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	if m.width == 0 {
		return "Loading..."
	}

	// Show overlays if active
	if m.showHelp {
		return m.renderHelp()
	}

	if m.showSearch {
		return m.renderSearch()
	}

	// Main layout: two columns
	// Left: Now Playing (top), Library (bottom)
	// Right: Devices (top), History (bottom)

	leftWidth := m.width * 60 / 100
	rightWidth := m.width - leftWidth - 2
	topHeight := m.height * 40 / 100
	bottomHeight := m.height - topHeight - 2

	nowPlayingID := ""
	if m.state != nil && m.state.Track != nil {
		nowPlayingID = m.state.Track.ID
	}

	// Render panels
	nowPlaying := m.nowPlaying.Render(m.state, leftWidth-2, topHeight-2, m.focusedPanel == PanelNowPlaying)
	libraryView := m.libraryView.Render(m.entries, nowPlayingID, leftWidth-2, bottomHeight-2, m.focusedPanel == PanelLibrary)
	devicesView := m.devicesView.Render(m.devices, m.app.cfg.Defaults.Device, rightWidth-2, topHeight-2, m.focusedPanel == PanelDevices)
	historyView := m.historyView.Render(m.history, rightWidth-2, bottomHeight-2, m.focusedPanel == PanelHistory)

	// Compose layout
	leftCol := lipgloss.JoinVertical(lipgloss.Left, nowPlaying, libraryView)
	rightCol := lipgloss.JoinVertical(lipgloss.Left, devicesView, historyView)

	main := lipgloss.JoinHorizontal(lipgloss.Top, leftCol, rightCol)

	// Status bar
	statusBar := m.renderStatusBar()

	return lipgloss.JoinVertical(lipgloss.Left, main, statusBar)
}

func (m Model) renderStatusBar() string {
	status := styles.Dim.Render("q:quit  ?:help  /:search  space:play/pause  n:next  p:prev  +/-:volume  tab:switch panel")

	if m.lastError != nil {
		status = styles.ErrorText.Render("Error: " + m.lastError.Error())
	}

	return lipgloss.NewStyle().
		Width(m.width).
		Padding(0, 1).
		Render(status)
}

func (m Model) renderHelp() string {
	title := "Tempo — Keyboard Shortcuts"
	divider := strings.Repeat("═", len(title))

	help := `
  ` + title + `
  ` + divider + `

  Global
  ──────
  q, Ctrl+C    Quit
  ?            Toggle help
  /            Search
  Tab          Next panel
  Shift+Tab    Previous panel
  r            Refresh devices and library

  Playback
  ────────
  Space        Play/Pause
  n            Next track
  p            Previous track
  +/=          Volume up
  -            Volume down

  Library Panel
  ─────────────
  j/↓          Move down
  k/↑          Move up
  Enter        Play selected
  a            Add selected to queue

  Devices Panel
  ─────────────
  j/↓          Select next
  k/↑          Select previous
  Enter        Transfer playback
  d            Set as default (★)

  Press ? or Esc to close
`

	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(styles.BorderStyle.Render(help))
}

func (m Model) renderSearch() string {
	var b strings.Builder

	// Title
	b.WriteString(styles.Highlight.Render("Search"))
	b.WriteString("\n\n")

	// Search input
	b.WriteString(m.searchInput.View())
	b.WriteString("\n\n")

	// Type filter tabs
	tabs := []string{"All", "Tracks", "Albums", "Artists", "Playlists"}
	activeTabStyle := lipgloss.NewStyle().Padding(0, 1).Background(styles.Primary).Foreground(styles.Surface)
	tabStyle := lipgloss.NewStyle().Padding(0, 1).Foreground(styles.TextDim)
	for i, tab := range tabs {
		if SearchType(i) == m.searchType {
			b.WriteString(activeTabStyle.Render(tab))
		} else {
			b.WriteString(tabStyle.Render(tab))
		}
	}
	b.WriteString("\n\n")

	// Results
	if m.searchErr != nil {
		b.WriteString(styles.ErrorText.Render("Error: " + m.searchErr.Error()))
	} else if m.searching {
		b.WriteString(styles.Muted.Render("Searching..."))
	} else if len(m.searchResults) == 0 && m.searchInput.Value() != "" && m.lastQuery != "" {
		b.WriteString(styles.Muted.Render("No results found"))
	} else {
		maxResults := 10
		for i, result := range m.searchResults {
			if i >= maxResults {
				b.WriteString(styles.Dim.Render("  ...and more"))
				break
			}

			line := result.Title
			if result.Subtitle != "" {
				line += " " + styles.Muted.Render(result.Subtitle)
			}
			if result.BPM > 0 {
				line += " " + styles.BPM.Render(fmt.Sprintf("%.0f BPM", result.BPM))
			}

			if i == m.searchCursor {
				b.WriteString(styles.Selected.Render("> " + line))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
	}

	// Help
	b.WriteString("\n")
	b.WriteString(styles.Dim.Render("Ctrl+t:filter  ↑/↓:nav  Enter:play  Ctrl+q:queue  Esc:close"))

	content := lipgloss.NewStyle().
		Width(60).
		Padding(1, 2).
		Render(b.String())

	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(styles.FocusedBorder.Render(content))
}

// Run starts the dashboard. The playback session runs for the life of
// the program and pushes updates into the UI.
func Run(cfg *config.Config) error {
	styles.UseTheme(cfg.TUI.Theme)

	app, err := NewApp(cfg)
	if err != nil {
		return err
	}

	if err := app.session.Start(context.Background()); err != nil {
		return err
	}
	defer app.session.Stop()

	model := NewModel(app)
	p := tea.NewProgram(model, tea.WithAltScreen())

	_, err = p.Run()
	return err
}
