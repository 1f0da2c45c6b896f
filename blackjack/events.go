package blackjack

// EventType represents a game event type with type safety
type EventType string

const (
	EventTypeCardDealt       EventType = "card_dealt"
	EventTypePlayerAction    EventType = "player_action"
	EventTypeHandResolved    EventType = "hand_resolved"
	EventTypeShoeReplenished EventType = "shoe_replenished"
	EventTypePhaseChange     EventType = "phase_change"
)

// String returns the string representation of the event type
func (et EventType) String() string {
	return string(et)
}

// Event is something that happened inside the engine. Events are delivered
// synchronously, in order, to the handler installed with WithEventHandler.
type Event interface {
	EventType() EventType
}

// Seat identifies who a card or hand belongs to
type Seat uint8

const (
	SeatPlayer Seat = iota
	SeatDealer
)

func (s Seat) String() string {
	if s == SeatDealer {
		return "dealer"
	}
	return "player"
}

// CardDealtEvent is published for every card leaving the shoe
type CardDealtEvent struct {
	Seat Seat
	Hand int
	Card Card
}

// PlayerActionEvent is published after a player action is applied
type PlayerActionEvent struct {
	Action Action
	Hand   int
}

// HandResolvedEvent is published when a player hand receives its outcome
type HandResolvedEvent struct {
	Hand    int
	Outcome Outcome
	Bet     float64
	Payout  float64
}

// ShoeReplenishedEvent is published when the shoe is rebuilt before a deal
type ShoeReplenishedEvent struct {
	Decks int
	Cards int
}

// PhaseChangeEvent is published whenever the state moves to another phase
type PhaseChangeEvent struct {
	From Phase
	To   Phase
}

func (CardDealtEvent) EventType() EventType       { return EventTypeCardDealt }
func (PlayerActionEvent) EventType() EventType    { return EventTypePlayerAction }
func (HandResolvedEvent) EventType() EventType    { return EventTypeHandResolved }
func (ShoeReplenishedEvent) EventType() EventType { return EventTypeShoeReplenished }
func (PhaseChangeEvent) EventType() EventType     { return EventTypePhaseChange }
