/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package scribble

import (
	"context"
	"crypto/subtle"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
)

// Room is one game session. Every exported method is safe for concurrent use;
// all of them are serialized by the room's mutex.
type Room struct {
	code  string
	opts  *Options
	clock clockwork.Clock
	pub   Publisher
	log   zerolog.Logger
	sched *scheduler
	eval  Evaluator

	turnSeconds     int
	transitionTicks int

	ctx     context.Context
	cancel  context.CancelFunc
	onEmpty func(*Room)

	mu sync.Mutex

	state    State
	players  []*Player
	hostID   string
	settings Settings
	round    int

	drawerID       string
	word           string
	prevWord       string
	timeLeft       int
	transitionLeft int
	wordPending    bool
	gen            uint64
	scored         map[string]bool

	messages []Message
	seq      int64
	strokes  []Segment

	grace     map[string]clockwork.Timer
	idleSince time.Time
	closed    bool
}

func newRoom(code string, opts *Options, onEmpty func(*Room)) *Room {
	ctx, cancel := context.WithCancel(context.Background())

	r := &Room{
		code:            code,
		opts:            opts,
		clock:           opts.Clock,
		pub:             opts.Publisher,
		log:             opts.Logger.With().Str("room", code).Logger(),
		eval:            Evaluator{Floor: opts.ScoreFloor, Divisor: opts.ScoreDivisor},
		turnSeconds:     int(opts.TurnDuration / time.Second),
		transitionTicks: int(opts.TransitionDelay / time.Second),
		ctx:             ctx,
		cancel:          cancel,
		onEmpty:         onEmpty,
		settings:        Settings{MaxRounds: opts.DefaultRounds},
		scored:          make(map[string]bool),
		grace:           make(map[string]clockwork.Timer),
		idleSince:       opts.Clock.Now(),
	}

	r.sched = &scheduler{
		source:  opts.Words,
		bank:    opts.Bank,
		timeout: opts.SuggestTimeout,
		log:     &r.log,
	}

	return r
}

func (r *Room) Code() string {
	return r.code
}

// run drives the room's countdown until the room is closed.
func (r *Room) run() {
	ticker := r.clock.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-r.ctx.Done():
			return
		case <-ticker.Chan():
			r.tick()
		}
	}
}

func (r *Room) tick() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}

	switch r.state {
	case StatePlaying:
		if r.playerLocked(r.drawerID) == nil {
			r.failSafeLocked("drawer is not a member of the room")
			return
		}

		r.timeLeft--
		if r.timeLeft <= 0 {
			r.timeLeft = 0
			r.publishLocked(EventTimerTick, TimerTick{TimeLeft: 0})
			r.endTurnLocked(EndReasonTimeout, r.followingLocked(r.drawerID))
			return
		}

		r.publishLocked(EventTimerTick, TimerTick{TimeLeft: r.timeLeft})
	case StateRoundTransition:
		if r.transitionLeft > 0 {
			r.transitionLeft--
		}
		r.maybeBeginTurnLocked()
	}
}

// Join adds a player. Only rooms without a game in progress accept players.
func (r *Room) Join(nickname string) (Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.joinLocked(nickname)
}

func (r *Room) joinLocked(nickname string) (Player, error) {
	if r.closed {
		return Player{}, ErrRoomClosed
	}

	if r.state.Active() {
		return Player{}, ErrGameAlreadyActive
	}

	nickname, err := normalizeNickname(nickname)
	if err != nil {
		return Player{}, err
	}

	if len(r.players) >= r.opts.MaxPlayers {
		return Player{}, fmt.Errorf("%w: room is full (%d players)", ErrCapacityExceeded, r.opts.MaxPlayers)
	}

	p := &Player{
		ID:        uuid.NewString(),
		Token:     uuid.NewString(),
		Nickname:  nickname,
		Connected: true,
		JoinedAt:  r.clock.Now(),
	}

	if len(r.players) == 0 {
		p.IsHost = true
		r.hostID = p.ID
	}

	r.players = append(r.players, p)
	r.updateIdleLocked()

	r.log.Debug().Str("player", p.ID).Str("nickname", p.Nickname).Msg("player joined")

	r.systemLocked(fmt.Sprintf("%s joined the room.", p.Nickname))
	r.publishRoomLocked()

	return *p, nil
}

// Leave removes a player. A drawer leaving mid-turn ends the turn, a host
// leaving hands the role to the oldest remaining member, and the last player
// leaving empties the room.
func (r *Room) Leave(playerID string) error {
	r.mu.Lock()
	err := r.leaveLocked(playerID)
	empty := err == nil && len(r.players) == 0
	r.mu.Unlock()

	if empty && r.onEmpty != nil {
		r.onEmpty(r)
	}

	return err
}

func (r *Room) leaveLocked(playerID string) error {
	if r.closed {
		return ErrRoomClosed
	}

	idx := r.indexLocked(playerID)
	if idx < 0 {
		return fmt.Errorf("%w: player %s", ErrNotFound, playerID)
	}

	p := r.players[idx]

	drawerLeft := r.state.Active() && r.drawerID == playerID
	next := r.players[(idx+1)%len(r.players)].ID

	if t, ok := r.grace[playerID]; ok {
		t.Stop()
		delete(r.grace, playerID)
	}

	r.players = slices.Delete(r.players, idx, idx+1)
	delete(r.scored, playerID)

	r.log.Debug().Str("player", playerID).Msg("player left")

	r.systemLocked(fmt.Sprintf("%s left the room.", p.Nickname))

	if len(r.players) == 0 {
		r.hostID = ""
		r.updateIdleLocked()
		return nil
	}

	if p.IsHost {
		h := r.players[0]
		h.IsHost = true
		r.hostID = h.ID
		r.systemLocked(fmt.Sprintf("%s is now the host.", h.Nickname))
	}

	r.updateIdleLocked()

	if drawerLeft {
		switch r.state {
		case StatePlaying:
			r.endTurnLocked(EndReasonDrawerLeft, next)
		case StateRoundTransition:
			r.drawerID = next
		}
	}

	if r.state.Active() && r.round > r.boundLocked() {
		r.finishLocked(EndReasonCompleted)
	}

	r.publishRoomLocked()

	return nil
}

// UpdateSettings changes the room settings. Host only, lobby only.
func (r *Room) UpdateSettings(callerID string, s Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.hostLocked(callerID); err != nil {
		return err
	}

	if r.state != StateLobby {
		return fmt.Errorf("%w: settings can only change in the lobby", ErrForbidden)
	}

	if s.MaxRounds < MinRounds || s.MaxRounds > MaxRounds {
		return fmt.Errorf("%w: rounds must be between %d and %d", ErrInvalidSettings, MinRounds, MaxRounds)
	}

	s.Topic = normalizeTopic(s.Topic)
	if len([]rune(s.Topic)) > maxTopicLength {
		return fmt.Errorf("%w: topic must be at most %d characters", ErrInvalidSettings, maxTopicLength)
	}

	r.settings = s
	r.publishRoomLocked()

	return nil
}

// StartGame begins a game from the lobby. The first turn starts once a word
// has been selected.
func (r *Room) StartGame(callerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.hostLocked(callerID); err != nil {
		return err
	}

	switch r.state {
	case StateLobby:
	case StateFinished:
		return fmt.Errorf("%w: return to the lobby first", ErrForbidden)
	default:
		return ErrGameAlreadyActive
	}

	if len(r.players) < r.opts.MinPlayers {
		return fmt.Errorf("%w: need at least %d players", ErrBadRequest, r.opts.MinPlayers)
	}

	for _, p := range r.players {
		p.Score = 0
		p.Drawn = 0
	}

	r.round = 1
	r.drawerID = r.players[0].ID
	r.state = StateRoundTransition
	r.transitionLeft = 0
	r.strokes = nil

	r.log.Info().Int("players", len(r.players)).Int("rounds", r.settings.MaxRounds).Msg("game started")

	r.systemLocked("The game has started!")
	r.publishRoomLocked()
	r.requestWordLocked()

	return nil
}

// ResetToLobby returns a finished room to the lobby with the same players.
func (r *Room) ResetToLobby(callerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.hostLocked(callerID); err != nil {
		return err
	}

	if r.state != StateFinished {
		return fmt.Errorf("%w: the game has not finished", ErrForbidden)
	}

	for _, p := range r.players {
		p.Score = 0
		p.Drawn = 0
	}

	r.state = StateLobby
	r.round = 0
	r.drawerID = ""
	r.word = ""
	r.timeLeft = 0
	r.messages = nil
	r.strokes = nil
	clear(r.scored)

	r.publishRoomLocked()

	return nil
}

// PostMessage appends a chat message. While a turn is running, text from
// guessers is evaluated and a correct guess is stored as an announcement.
func (r *Room) PostMessage(playerID, text string) (Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return Message{}, ErrRoomClosed
	}

	p := r.playerLocked(playerID)
	if p == nil {
		return Message{}, fmt.Errorf("%w: player %s", ErrNotFound, playerID)
	}

	text, err := normalizeMessage(text)
	if err != nil {
		return Message{}, err
	}

	v := r.eval.Evaluate(r.turnLocked(), *p, text)

	switch v.Kind {
	case VerdictLeak:
		return Message{}, fmt.Errorf("%w: message reveals the word", ErrForbidden)
	case VerdictRepeat:
		return Message{}, ErrAlreadyGuessed
	case VerdictCorrect:
		p.Score += v.ScoreDelta
		r.scored[p.ID] = true

		r.log.Debug().Str("player", p.ID).Int("score", v.ScoreDelta).Msg("correct guess")

		m := r.appendLocked(Message{
			PlayerID:       p.ID,
			Nickname:       systemNickname,
			Text:           v.Rendered,
			IsCorrectGuess: true,
			IsSystem:       true,
		})
		r.publishRoomLocked()

		if r.opts.EndOnAllGuessed && r.allGuessedLocked() {
			r.endTurnLocked(EndReasonAllGuessed, r.followingLocked(r.drawerID))
			r.publishRoomLocked()
		}

		return m, nil
	}

	return r.appendLocked(Message{
		PlayerID: p.ID,
		Nickname: p.Nickname,
		Text:     v.Rendered,
	}), nil
}

// Stroke relays one drawing segment from the drawer to everyone else.
func (r *Room) Stroke(playerID string, s Segment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.drawerLocked(playerID); err != nil {
		return err
	}

	if err := s.Validate(); err != nil {
		return err
	}

	if len(r.strokes) < r.opts.MaxStrokes {
		r.strokes = append(r.strokes, s)
	}

	r.pub.Publish(Event{Type: EventStrokeRelayed, Room: r.code, Except: playerID, Data: s})

	return nil
}

func (r *Room) ClearCanvas(playerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.drawerLocked(playerID); err != nil {
		return err
	}

	r.strokes = nil
	r.pub.Publish(Event{Type: EventCanvasCleared, Room: r.code, Except: playerID})

	return nil
}

// Disconnect marks a player offline. The player is removed unless they
// reconnect within the grace period.
func (r *Room) Disconnect(playerID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}

	p := r.playerLocked(playerID)
	if p == nil || !p.Connected {
		return
	}

	p.Connected = false
	r.updateIdleLocked()

	if t, ok := r.grace[playerID]; ok {
		t.Stop()
	}

	var t clockwork.Timer
	t = r.clock.AfterFunc(r.opts.PlayerGrace, func() {
		r.expire(playerID, t)
	})
	r.grace[playerID] = t

	r.log.Debug().Str("player", playerID).Dur("grace", r.opts.PlayerGrace).Msg("player disconnected")

	r.publishRoomLocked()
}

func (r *Room) expire(playerID string, t clockwork.Timer) {
	r.mu.Lock()
	if r.grace[playerID] != t {
		r.mu.Unlock()
		return
	}
	delete(r.grace, playerID)

	r.log.Info().Str("player", playerID).Msg("grace period expired")

	err := r.leaveLocked(playerID)
	empty := err == nil && len(r.players) == 0
	r.mu.Unlock()

	if empty && r.onEmpty != nil {
		r.onEmpty(r)
	}
}

// Reconnect marks a player online again and returns a full snapshot for them.
func (r *Room) Reconnect(playerID string) (Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return Snapshot{}, ErrRoomClosed
	}

	p := r.playerLocked(playerID)
	if p == nil {
		return Snapshot{}, fmt.Errorf("%w: player %s", ErrNotFound, playerID)
	}

	if t, ok := r.grace[playerID]; ok {
		t.Stop()
		delete(r.grace, playerID)
	}

	if !p.Connected {
		p.Connected = true
		r.updateIdleLocked()
		r.publishRoomLocked()
	}

	return r.snapshotLocked(playerID, true), nil
}

// Snapshot returns the room as seen by viewerID.
func (r *Room) Snapshot(viewerID string) Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.snapshotLocked(viewerID, false)
}

// FullSnapshot also carries the message log and the current drawing.
func (r *Room) FullSnapshot(viewerID string) Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.snapshotLocked(viewerID, true)
}

func (r *Room) Player(playerID string) (Player, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := r.playerLocked(playerID)
	if p == nil {
		return Player{}, false
	}
	return *p, true
}

// Authenticate returns the player whose ID and reconnect token match.
func (r *Room) Authenticate(playerID, token string) (Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := r.playerLocked(playerID)
	if p == nil {
		return Player{}, fmt.Errorf("%w: player %s", ErrNotFound, playerID)
	}
	if subtle.ConstantTimeCompare([]byte(p.Token), []byte(token)) != 1 {
		return Player{}, fmt.Errorf("%w: invalid reconnect token", ErrForbidden)
	}
	return *p, nil
}

// IdleSince reports since when the room has had no connected players.
func (r *Room) IdleSince() (time.Time, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.idleSince, !r.idleSince.IsZero()
}

// Close stops the room's countdown and grace timers and notifies members.
func (r *Room) Close(reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.closeLocked(reason)
}

// closeIfEmpty closes the room only if nobody has joined since it emptied.
func (r *Room) closeIfEmpty(reason string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.players) > 0 {
		return false
	}
	r.closeLocked(reason)
	return true
}

func (r *Room) closeLocked(reason string) {
	if r.closed {
		return
	}
	r.closed = true
	r.cancel()

	for id, t := range r.grace {
		t.Stop()
		delete(r.grace, id)
	}

	r.log.Info().Str("reason", reason).Msg("room closed")

	r.publishLocked(EventRoomClosed, RoomClosed{Reason: reason})
}

func (r *Room) counts() (players, connected int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.players {
		if p.Connected {
			connected++
		}
	}
	return len(r.players), connected
}

func (r *Room) requestWordLocked() {
	r.gen++
	gen := r.gen
	r.word = ""
	r.wordPending = true

	topic, previous := r.settings.Topic, r.prevWord

	go func() {
		r.deliverWord(gen, r.sched.selectWord(r.ctx, topic, previous))
	}()
}

func (r *Room) deliverWord(gen uint64, word string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed || gen != r.gen || r.state != StateRoundTransition {
		r.log.Debug().Uint64("gen", gen).Msg("discarding stale word")
		return
	}

	if word == "" {
		r.failSafeLocked("no word available")
		return
	}

	r.word = word
	r.wordPending = false
	r.maybeBeginTurnLocked()
}

func (r *Room) maybeBeginTurnLocked() {
	if r.state != StateRoundTransition || r.wordPending || r.transitionLeft > 0 {
		return
	}
	r.beginTurnLocked()
}

func (r *Room) beginTurnLocked() {
	drawer := r.playerLocked(r.drawerID)
	if drawer == nil {
		r.failSafeLocked("drawer is not a member of the room")
		return
	}

	r.state = StatePlaying
	r.timeLeft = r.turnSeconds
	r.strokes = nil
	clear(r.scored)
	drawer.Drawn++
	r.prevWord = r.word

	r.log.Debug().Int("round", r.round).Str("drawer", drawer.ID).Msg("turn started")

	r.systemLocked(fmt.Sprintf("Round %d! %s is drawing.", r.round, drawer.Nickname))

	r.publishLocked(EventTurnAdvanced, TurnAdvanced{
		DrawerID: drawer.ID,
		Round:    r.round,
		WordHint: Hint(r.word),
		Letters:  Letters(r.word),
		TimeLeft: r.timeLeft,
	})
	r.pub.Publish(Event{Type: EventYourWord, Room: r.code, To: drawer.ID, Data: YourWord{Word: r.word}})
	r.publishRoomLocked()
}

// endTurnLocked reveals the word and either finishes the game or hands the
// next turn to next.
func (r *Room) endTurnLocked(reason EndReason, next string) {
	switch reason {
	case EndReasonTimeout:
		r.systemLocked(fmt.Sprintf("Time's up! The word was: %s", r.word))
	case EndReasonAllGuessed:
		r.systemLocked(fmt.Sprintf("Everyone guessed it! The word was: %s", r.word))
	case EndReasonDrawerLeft:
		r.systemLocked(fmt.Sprintf("The drawer left. The word was: %s", r.word))
	default:
		r.systemLocked(fmt.Sprintf("The word was: %s", r.word))
	}

	r.log.Debug().Int("round", r.round).Str("reason", string(reason)).Msg("turn ended")

	r.word = ""
	r.timeLeft = 0
	r.strokes = nil

	if r.round >= r.boundLocked() {
		r.finishLocked(EndReasonCompleted)
		return
	}

	r.round++
	r.drawerID = next
	r.state = StateRoundTransition
	r.transitionLeft = r.transitionTicks

	r.publishRoomLocked()
	r.requestWordLocked()
}

func (r *Room) finishLocked(reason EndReason) {
	r.state = StateFinished
	r.word = ""
	r.timeLeft = 0
	r.wordPending = false
	r.gen++

	r.log.Info().Str("reason", string(reason)).Int("round", r.round).Msg("game over")

	r.systemLocked("Game over!")
	r.publishLocked(EventGameOver, GameOver{Reason: reason, Snapshot: r.snapshotLocked("", false)})
	r.publishRoomLocked()
}

func (r *Room) failSafeLocked(reason string) {
	r.log.Error().Str("drawer", r.drawerID).Int("round", r.round).Msg(reason)
	r.finishLocked(EndReasonInternal)
}

func (r *Room) snapshotLocked(viewerID string, full bool) Snapshot {
	s := Snapshot{
		Code:         r.code,
		State:        r.state,
		IsGameActive: r.state.Active(),
		HostID:       r.hostID,
		Players:      make([]Player, len(r.players)),
		Round:        r.round,
		Settings:     r.settings,
		TimeLeft:     r.timeLeft,
	}

	for i, p := range r.players {
		s.Players[i] = *p
		s.Players[i].Token = ""
	}

	if r.state.Active() {
		s.DrawerID = r.drawerID
	}

	if r.state == StatePlaying {
		s.WordHint = Hint(r.word)
		if viewerID != "" && viewerID == r.drawerID {
			s.Word = r.word
		}
	}

	if full {
		s.Messages = slices.Clone(r.messages)
		s.Strokes = slices.Clone(r.strokes)
	}

	return s
}

func (r *Room) turnLocked() Turn {
	return Turn{
		Active:   r.state == StatePlaying,
		DrawerID: r.drawerID,
		Word:     r.word,
		TimeLeft: r.timeLeft,
		Scored:   r.scored,
	}
}

func (r *Room) appendLocked(m Message) Message {
	r.seq++
	m.ID = uuid.NewString()
	m.Seq = r.seq
	m.Timestamp = r.clock.Now()

	r.messages = append(r.messages, m)
	r.publishLocked(EventNewMessage, m)

	return m
}

func (r *Room) systemLocked(text string) {
	r.appendLocked(Message{Nickname: systemNickname, Text: text, IsSystem: true})
}

func (r *Room) publishLocked(t EventType, data any) {
	r.pub.Publish(Event{Type: t, Room: r.code, Data: data})
}

func (r *Room) publishRoomLocked() {
	r.publishLocked(EventRoomUpdated, r.snapshotLocked("", false))
}

func (r *Room) hostLocked(callerID string) error {
	if r.closed {
		return ErrRoomClosed
	}
	if callerID == "" || callerID != r.hostID {
		return fmt.Errorf("%w: only the host can do that", ErrForbidden)
	}
	return nil
}

func (r *Room) drawerLocked(playerID string) error {
	if r.closed {
		return ErrRoomClosed
	}
	if r.state != StatePlaying || playerID != r.drawerID {
		return fmt.Errorf("%w: only the drawer can draw", ErrForbidden)
	}
	return nil
}

func (r *Room) allGuessedLocked() bool {
	for _, p := range r.players {
		if p.ID != r.drawerID && !r.scored[p.ID] {
			return false
		}
	}
	return true
}

func (r *Room) updateIdleLocked() {
	for _, p := range r.players {
		if p.Connected {
			r.idleSince = time.Time{}
			return
		}
	}
	if r.idleSince.IsZero() {
		r.idleSince = r.clock.Now()
	}
}

func (r *Room) boundLocked() int {
	return r.settings.MaxRounds * len(r.players)
}

func (r *Room) indexLocked(playerID string) int {
	return slices.IndexFunc(r.players, func(p *Player) bool {
		return p.ID == playerID
	})
}

func (r *Room) playerLocked(playerID string) *Player {
	if i := r.indexLocked(playerID); i >= 0 {
		return r.players[i]
	}
	return nil
}

// followingLocked returns the player after playerID in join order, wrapping.
func (r *Room) followingLocked(playerID string) string {
	i := r.indexLocked(playerID)
	if i < 0 || len(r.players) == 0 {
		if len(r.players) > 0 {
			return r.players[0].ID
		}
		return ""
	}
	return r.players[(i+1)%len(r.players)].ID
}
