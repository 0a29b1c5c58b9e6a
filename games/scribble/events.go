/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package scribble

type EventType string

const (
	EventRoomUpdated   EventType = "roomUpdated"
	EventNewMessage    EventType = "newMessage"
	EventTurnAdvanced  EventType = "turnAdvanced"
	EventYourWord      EventType = "yourWord"
	EventTimerTick     EventType = "timerTick"
	EventGameOver      EventType = "gameOver"
	EventStrokeRelayed EventType = "strokeRelayed"
	EventCanvasCleared EventType = "canvasCleared"
	EventRoomClosed    EventType = "roomClosed"
)

// Event is a state change of one room. An empty To addresses every member;
// Except, when set, skips one member.
type Event struct {
	Type   EventType
	Room   string
	To     string
	Except string
	Data   any
}

// Private reports whether the event is addressed to a single player.
func (e Event) Private() bool {
	return e.To != ""
}

// Delivers reports whether the member playerID should receive e.
func (e Event) Delivers(playerID string) bool {
	if e.To != "" {
		return e.To == playerID
	}
	return e.Except == "" || e.Except != playerID
}

// Publisher receives room events in the order the room admitted them.
// Publish is called with the room lock held and must not block.
type Publisher interface {
	Publish(Event)
}

type PublisherFunc func(Event)

func (f PublisherFunc) Publish(e Event) { f(e) }

// Publishers fans an event out to several publishers.
type Publishers []Publisher

func (ps Publishers) Publish(e Event) {
	for _, p := range ps {
		if p != nil {
			p.Publish(e)
		}
	}
}

type discard struct{}

func (discard) Publish(Event) {}

type TurnAdvanced struct {
	DrawerID string `json:"drawerId"`
	Round    int    `json:"round"`
	WordHint string `json:"wordHint"`
	Letters  int    `json:"letters"`
	TimeLeft int    `json:"timeLeft"`
}

type YourWord struct {
	Word string `json:"word"`
}

type TimerTick struct {
	TimeLeft int `json:"timeLeft"`
}

type GameOver struct {
	Reason   EndReason `json:"reason"`
	Snapshot Snapshot  `json:"snapshot"`
}

type RoomClosed struct {
	Reason string `json:"reason"`
}

// Snapshot is a copy of a room as seen by one viewer. Word is only set for
// the current drawer; everyone else gets WordHint.
type Snapshot struct {
	Code         string    `json:"roomCode"`
	State        State     `json:"state"`
	IsGameActive bool      `json:"isGameActive"`
	HostID       string    `json:"hostId"`
	Players      []Player  `json:"players"`
	Round        int       `json:"round"`
	Settings     Settings  `json:"settings"`
	DrawerID     string    `json:"currentDrawerId,omitempty"`
	Word         string    `json:"currentWord,omitempty"`
	WordHint     string    `json:"wordHint,omitempty"`
	TimeLeft     int       `json:"timeLeft"`
	Messages     []Message `json:"messages,omitempty"`
	Strokes      []Segment `json:"strokes,omitempty"`
}

// Player returns the player with the given id from the snapshot.
func (s Snapshot) Player(id string) (Player, bool) {
	for _, p := range s.Players {
		if p.ID == id {
			return p, true
		}
	}
	return Player{}, false
}
