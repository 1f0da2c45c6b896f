package server

import (
	"encoding/json"
	"time"

	"github.com/lox/blackjack/blackjack"
)

// Message represents the base WebSocket message structure
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(messageType MessageType, data any) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: time.Now(),
	}, nil
}

// Client → Server Messages

type BetData struct {
	Amount float64 `json:"amount"`
}

type ActionData struct {
	Action string `json:"action"`
	Hand   int    `json:"hand"`
}

// Server → Client Messages

type WelcomeData struct {
	SessionID  string  `json:"sessionId"`
	Table      string  `json:"table"`
	PlayerName string  `json:"playerName"`
	MinBet     float64 `json:"minBet"`
	MaxBet     float64 `json:"maxBet"`
}

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type HandData struct {
	Cards   []string `json:"cards"`
	Value   int      `json:"value"`
	Soft    bool     `json:"soft,omitempty"`
	Bet     float64  `json:"bet,omitempty"`
	Outcome string   `json:"outcome,omitempty"`
}

type StateData struct {
	Phase        string     `json:"phase"`
	Bankroll     float64    `json:"bankroll"`
	Bet          float64    `json:"bet,omitempty"`
	Dealer       *HandData  `json:"dealer,omitempty"`
	Hands        []HandData `json:"hands,omitempty"`
	ActiveHand   *int       `json:"activeHand,omitempty"`
	ValidActions []string   `json:"validActions,omitempty"`
}

func handData(h blackjack.Hand, withBet bool) HandData {
	cards := make([]string, len(h.Cards))
	for i, c := range h.Cards {
		cards[i] = c.String()
	}
	data := HandData{Cards: cards, Value: h.BestValue(), Soft: h.IsSoft()}
	if withBet {
		data.Bet = h.Bet
		if h.IsResolved() {
			data.Outcome = h.Outcome.String()
		}
	}
	return data
}

func handsData(hands []blackjack.Hand) []HandData {
	out := make([]HandData, len(hands))
	for i, h := range hands {
		out[i] = handData(h, true)
	}
	return out
}

// NewStateData converts an engine state snapshot into its wire form
func NewStateData(state blackjack.State) StateData {
	data := StateData{Phase: state.Phase().String()}
	switch s := state.(type) {
	case blackjack.WaitingForBet:
		data.Bankroll = s.Bankroll
	case blackjack.WaitingToDeal:
		data.Bankroll, data.Bet = s.Bankroll, s.Bet
	case blackjack.PlayerTurn:
		dealer := handData(s.DealerHand, false)
		active := s.ActiveHand
		data.Bankroll = s.Bankroll
		data.Dealer = &dealer
		data.Hands = handsData(s.PlayerHands)
		data.ActiveHand = &active
		for _, a := range s.ValidActions() {
			data.ValidActions = append(data.ValidActions, a.String())
		}
	case blackjack.DealerTurn:
		dealer := handData(s.DealerHand, false)
		data.Bankroll, data.Dealer, data.Hands = s.Bankroll, &dealer, handsData(s.PlayerHands)
	case blackjack.RoundComplete:
		dealer := handData(s.DealerHand, false)
		data.Bankroll, data.Dealer, data.Hands = s.Bankroll, &dealer, handsData(s.PlayerHands)
	}
	return data
}
