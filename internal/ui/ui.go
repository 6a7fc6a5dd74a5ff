package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/stopwatch"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/guessify/internal/game"
	"github.com/desertthunder/guessify/internal/models"
	"github.com/desertthunder/guessify/internal/services"
	"github.com/desertthunder/guessify/internal/shared"
)

// Options configures a [Model].
type Options struct {
	Player     string
	RoundLimit time.Duration     // zero disables the limit
	Challenge  *models.Challenge // nil for free-play
	Logger     *log.Logger
	Picker     game.Picker
	Now        func() time.Time
	OpenURL    func(string) error
}

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	service      services.Service
	logger       *log.Logger
	session      game.Session
	opts         Options
	width        int
	height       int
	playlistList list.Model
	guess        textinput.Model
	timer        stopwatch.Model
	feedback     string
	shareCode    string
	help         help.Model
	keys         keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, service services.Service, opts Options) *Model {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Picker == nil {
		opts.Picker = game.RandomPicker
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.OpenURL == nil {
		opts.OpenURL = shared.OpenPreview
	}

	var challenge []models.GameResult
	if opts.Challenge != nil {
		challenge = opts.Challenge.Rounds
		if challenge == nil {
			challenge = []models.GameResult{}
		}
	}

	guess := textinput.New()
	guess.Placeholder = "Song title"
	guess.CharLimit = 120
	guess.Prompt = "Guess: "

	playlists := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	playlists.Title = "Spotify Playlists"

	return &Model{
		ctx:          ctx,
		service:      service,
		logger:       opts.Logger,
		session:      game.NewSession(challenge),
		opts:         opts,
		playlistList: playlists,
		guess:        guess,
		timer:        stopwatch.NewWithInterval(100 * time.Millisecond),
		help:         help.New(),
		keys:         newKeyMap(),
	}
}

// Session returns the current session snapshot.
func (m *Model) Session() game.Session { return m.session }

// Rounds returns the rounds the player completed: challenge results in challenge mode, history otherwise.
func (m *Model) Rounds() []models.GameResult {
	if m.session.IsChallenge() {
		return m.session.Results()
	}
	return m.session.History()
}

// ShareCode encodes the completed rounds as a challenge for another player.
func (m *Model) ShareCode() (string, error) {
	rounds := m.Rounds()
	if len(rounds) == 0 {
		return "", fmt.Errorf("%w: no completed rounds to share", shared.ErrInvalidChallenge)
	}
	return game.EncodeChallenge(game.NewChallenge(m.opts.Player, rounds, m.opts.Now()))
}

// Init starts the session: fetch playlists (free-play) or the first challenge track.
func (m *Model) Init() tea.Cmd {
	s, eff := m.session.Start()
	m.session = s
	return m.perform(eff)
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.playlistList.SetSize(msg.Width-4, msg.Height-8)
		m.guess.Width = max(msg.Width-12, 20)
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.abort) {
			return m, tea.Quit
		}
		switch m.session.Mode() {
		case game.ModeSelecting:
			return m.handleSelectingKeys(msg)
		case game.ModePlaying:
			if m.session.RoundComplete() {
				return m.handleRevealKeys(msg)
			}
			return m.handleGuessKeys(msg)
		case game.ModeShowingResults:
			return m.handleResultKeys(msg)
		default:
			switch {
			case key.Matches(msg, m.keys.quit):
				return m, tea.Quit
			case key.Matches(msg, m.keys.restart):
				return m, m.newGame()
			}
			return m, nil
		}

	case Msg:
		return m.handleMsg(msg)

	case stopwatch.TickMsg, stopwatch.StartStopMsg, stopwatch.ResetMsg:
		var cmd tea.Cmd
		m.timer, cmd = m.timer.Update(msg)
		if m.roundExpired() {
			return m, tea.Batch(cmd, m.completeRound(0, "Time's up!"))
		}
		return m, cmd
	}

	return m.updateComponents(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	before := m.session

	switch msg.kind {
	case MsgPlaylistsFetched:
		data := msg.data.(playlistsFetched)
		m.logFailure("playlists", data.request, data.err)
		m.session = m.session.PlaylistsLoaded(data.request, data.playlists, data.err)
		if data.err == nil && data.request == before.Pending() {
			return m, m.playlistList.SetItems(playlistItems(m.session.Playlists()))
		}
		return m, nil

	case MsgTracksFetched:
		data := msg.data.(tracksFetched)
		m.logFailure("playlist tracks", data.request, data.err)
		m.session = m.session.TracksLoaded(data.request, data.tracks, data.err, m.opts.Picker)

	case MsgTrackFetched:
		data := msg.data.(trackFetched)
		m.logFailure("challenge track", data.request, data.err)
		m.session = m.session.TrackLoaded(data.request, data.track, data.err)

	case MsgPreviewOpened:
		if err, ok := msg.data.(error); ok && err != nil {
			m.logger.Warn("failed to open preview", "err", err)
			m.feedback = "Could not open the preview"
		}
		return m, nil
	}

	var failure *game.Failure
	if before.Err() == nil && errors.As(m.session.Err(), &failure) {
		m.logger.Debug("session failed", "detail", failure.Detail())
	}

	if roundStarted(before, m.session) {
		return m, m.startRound()
	}
	return m, nil
}

// roundStarted reports whether a fetch response produced a fresh round.
func roundStarted(before, after game.Session) bool {
	return before.Pending() != 0 &&
		after.Pending() == 0 &&
		after.Err() == nil &&
		after.Mode() == game.ModePlaying &&
		!after.RoundComplete()
}

func (m *Model) logFailure(what string, request game.RequestID, err error) {
	if err == nil {
		return
	}
	stale := request != m.session.Pending()
	m.logger.Error("fetch failed", "what", what, "request", request, "stale", stale, "err", err)
}

func (m *Model) handleSelectingKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.playlistList.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.playlistList, cmd = m.playlistList.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.restart):
		return m, m.newGame()
	case key.Matches(msg, m.keys.enter):
		selected := m.playlistList.SelectedItem()
		if pl, ok := selected.(playlistItem); ok {
			return m, m.selectPlaylist(pl.playlist)
		}
		if m.session.IsChallenge() {
			return m, m.selectPlaylist(models.Playlist{})
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.playlistList, cmd = m.playlistList.Update(msg)
	return m, cmd
}

func (m *Model) handleGuessKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.submit):
		guess := strings.TrimSpace(m.guess.Value())
		if guess == "" {
			return m, nil
		}
		track, _ := m.session.CurrentTrack()
		score := game.ScoreGuess(guess, track, m.timer.Elapsed())
		return m, m.completeRound(score, feedbackFor(game.Judge(guess, track)))
	case key.Matches(msg, m.keys.giveUp):
		return m, m.completeRound(0, "Skipped")
	case key.Matches(msg, m.keys.preview):
		return m, m.openPreview()
	}

	var cmd tea.Cmd
	m.guess, cmd = m.guess.Update(msg)
	return m, cmd
}

func (m *Model) handleRevealKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.next):
		m.feedback = ""
		s, eff := m.session.PlayAgain()
		m.session = s
		return m, m.perform(eff)
	case key.Matches(msg, m.keys.share):
		code, err := m.ShareCode()
		if err != nil {
			m.logger.Error("failed to build share code", "err", err)
			m.feedback = "Nothing to share yet"
			return m, nil
		}
		m.shareCode = code
		return m, nil
	case key.Matches(msg, m.keys.restart):
		return m, m.newGame()
	case key.Matches(msg, m.keys.preview):
		return m, m.openPreview()
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.share):
		if code, err := m.ShareCode(); err == nil {
			m.shareCode = code
		}
		return m, nil
	case key.Matches(msg, m.keys.restart):
		return m, m.newGame()
	}
	return m, nil
}

func (m *Model) updateComponents(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.session.Mode() {
	case game.ModeSelecting:
		m.playlistList, cmd = m.playlistList.Update(msg)
	case game.ModePlaying:
		m.guess, cmd = m.guess.Update(msg)
	}
	return m, cmd
}

func (m *Model) selectPlaylist(p models.Playlist) tea.Cmd {
	s, eff := m.session.SelectPlaylist(p)
	m.session = s
	return m.perform(eff)
}

func (m *Model) newGame() tea.Cmd {
	m.feedback = ""
	m.shareCode = ""
	s, eff := m.session.NewGame()
	m.session = s
	if m.timer.Running() {
		return tea.Batch(m.timer.Stop(), m.perform(eff))
	}
	return m.perform(eff)
}

func (m *Model) startRound() tea.Cmd {
	m.feedback = ""
	m.shareCode = ""
	m.guess.Reset()
	return tea.Batch(m.guess.Focus(), tea.Sequence(m.timer.Reset(), m.timer.Start()))
}

func (m *Model) completeRound(score int, feedback string) tea.Cmd {
	elapsed := m.timer.Elapsed()
	if m.opts.RoundLimit > 0 {
		elapsed = min(elapsed, m.opts.RoundLimit)
	}

	m.session = m.session.CompleteGame(score, elapsed, m.opts.Now())
	m.feedback = feedback
	m.guess.Blur()
	return m.timer.Stop()
}

func (m *Model) roundExpired() bool {
	return m.opts.RoundLimit > 0 &&
		m.session.Mode() == game.ModePlaying &&
		!m.session.RoundComplete() &&
		m.timer.Elapsed() >= m.opts.RoundLimit
}

func (m *Model) openPreview() tea.Cmd {
	track, ok := m.session.CurrentTrack()
	if !ok || track.PreviewURL == "" {
		m.feedback = "No preview available for this track"
		return nil
	}

	open := m.opts.OpenURL
	return func() tea.Msg {
		return previewOpenedMsg(open(track.PreviewURL))
	}
}

// perform turns a session effect into a command that calls the track provider.
func (m *Model) perform(eff game.Effect) tea.Cmd {
	if eff.None() {
		return nil
	}
	ctx, svc := m.ctx, m.service

	switch eff.Kind {
	case game.FetchPlaylists:
		return func() tea.Msg {
			playlists, err := svc.GetPlaylists(ctx)
			return playlistsFetchedMsg(eff.Request, playlists, err)
		}
	case game.FetchPlaylistTracks:
		return func() tea.Msg {
			tracks, err := svc.GetPlaylistTracks(ctx, eff.PlaylistID)
			return tracksFetchedMsg(eff.Request, tracks, err)
		}
	case game.FetchTrack:
		return func() tea.Msg {
			track, err := svc.GetTrack(ctx, eff.TrackID)
			return trackFetchedMsg(eff.Request, track, err)
		}
	default:
		return nil
	}
}

func feedbackFor(v game.Verdict) string {
	switch v {
	case game.TitleMatch:
		return "Correct!"
	case game.ArtistMatch:
		return "Right artist, wrong song"
	default:
		return "Not quite"
	}
}

// View renders the UI based on the current session mode.
func (m *Model) View() string {
	switch m.session.Mode() {
	case game.ModeLoading:
		return m.renderLoading()
	case game.ModeSelecting:
		return m.renderSelecting()
	case game.ModePlaying:
		if m.session.RoundComplete() {
			return m.renderReveal()
		}
		return m.renderGuess()
	case game.ModeShowingResults:
		return m.renderResults()
	default:
		return ""
	}
}

func (m *Model) header() string {
	title := "Guessify"
	if m.session.IsChallenge() {
		done, total := m.session.Progress()
		title = fmt.Sprintf("Guessify Challenge • round %d/%d", min(done+1, total), total)
	} else if p, ok := m.session.CurrentPlaylist(); ok {
		title = fmt.Sprintf("Guessify • %s", p.Name)
	}
	return styles.title.Render(title)
}

func (m *Model) errorLine() string {
	if msg := m.session.ErrorMessage(); msg != "" {
		return "\n" + styles.err.Render(msg) + "\n"
	}
	return ""
}

func (m *Model) renderLoading() string {
	return fmt.Sprintf("%s\n%s\n\n%s", m.header(), styles.muted.Render("Loading..."), m.help.ShortHelpView([]key.Binding{m.keys.restart, m.keys.quit}))
}

func (m *Model) renderSelecting() string {
	if m.session.IsChallenge() {
		hint := "Press enter to start the challenge."
		if m.session.Ready() && m.session.Err() != nil {
			hint = "Press enter to try again."
		}
		helpView := m.help.ShortHelpView([]key.Binding{m.keys.enter, m.keys.quit})
		return fmt.Sprintf("%s%s\n%s\n\n%s", m.header(), m.errorLine(), hint, helpView)
	}

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.enter, m.keys.restart, m.keys.quit})
	return fmt.Sprintf("%s\n\n%s%s\n\n%s", m.playlistList.View(), styles.muted.Render(fmt.Sprintf("%d tracks played", m.session.PlayedCount())), m.errorLine(), helpView)
}

func (m *Model) renderGuess() string {
	track, _ := m.session.CurrentTrack()

	var b strings.Builder
	b.WriteString(m.header())
	b.WriteString("\n")
	if track.PreviewURL != "" {
		b.WriteString(styles.muted.Render("Press ctrl+o to listen to the preview"))
	} else {
		b.WriteString(styles.warn.Render("No preview available. Guess from the album!"))
		if track.Album != "" {
			fmt.Fprintf(&b, "\nAlbum: %s", track.Album)
		}
	}

	elapsed := styles.score.Render(shared.FormatSeconds(m.timer.Elapsed().Seconds()))
	if m.opts.RoundLimit > 0 {
		elapsed += styles.muted.Render(fmt.Sprintf(" / %s", shared.FormatSeconds(m.opts.RoundLimit.Seconds())))
	}
	fmt.Fprintf(&b, "\n\n%s\n\n%s", elapsed, m.guess.View())
	if m.feedback != "" {
		fmt.Fprintf(&b, "\n%s", styles.warn.Render(m.feedback))
	}
	b.WriteString(m.errorLine())

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.submit, m.keys.giveUp, m.keys.preview, m.keys.abort})
	fmt.Fprintf(&b, "\n\n%s", helpView)
	return b.String()
}

func (m *Model) renderReveal() string {
	track, _ := m.session.CurrentTrack()
	result, _ := m.session.LastResult()

	var b strings.Builder
	b.WriteString(m.header())
	fmt.Fprintf(&b, "\n%s\n", styles.ok.Render(m.feedback))
	fmt.Fprintf(&b, "\n%s - %s", track.Artist, track.Title)
	if track.Album != "" {
		fmt.Fprintf(&b, "\n%s", styles.muted.Render(track.Album))
	}
	fmt.Fprintf(&b, "\n\nScore: %s  Time: %s", styles.score.Render(fmt.Sprint(result.Score)), shared.FormatSeconds(result.Time))

	if m.session.IsChallenge() {
		done, _ := m.session.Progress()
		comparisons := m.session.Comparisons()
		if done > 0 && done <= len(comparisons) {
			c := comparisons[done-1]
			fmt.Fprintf(&b, "\n\nChallenger vs you: %s (%s)", c.ScoreLine(), c.TimeLine())
		}
	}

	if m.shareCode != "" {
		fmt.Fprintf(&b, "\n\nShare code:\n%s", m.shareCode)
	}
	b.WriteString(m.errorLine())

	keys := []key.Binding{m.keys.next, m.keys.preview, m.keys.restart, m.keys.quit}
	if !m.session.IsChallenge() {
		keys = []key.Binding{m.keys.next, m.keys.share, m.keys.preview, m.keys.restart, m.keys.quit}
	}
	fmt.Fprintf(&b, "\n\n%s", m.help.ShortHelpView(keys))
	return b.String()
}

func (m *Model) renderResults() string {
	comparisons := m.session.Comparisons()
	summary := game.Summarize(comparisons)

	var b strings.Builder
	b.WriteString(styles.title.Render("Challenge Results"))
	b.WriteString("\n")
	b.WriteString(styles.comparisonTable(comparisons))
	fmt.Fprintf(&b, "\n\nTotal: %s (%s)\n", summary.ScoreLine(), summary.TimeLine())

	switch summary.Outcome() {
	case game.OutcomeWin:
		b.WriteString(styles.ok.Render("You beat the challenge!"))
	case game.OutcomeLoss:
		b.WriteString(styles.err.Render("The challenger wins this time."))
	default:
		b.WriteString(styles.warn.Render("It's a tie!"))
	}

	if m.shareCode != "" {
		fmt.Fprintf(&b, "\n\nShare code:\n%s", m.shareCode)
	}

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.share, m.keys.restart, m.keys.quit})
	fmt.Fprintf(&b, "\n\n%s", helpView)
	return b.String()
}
