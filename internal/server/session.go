package server

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/lox/blackjack/blackjack"
	"github.com/lox/blackjack/internal/config"
)

// Session is one player's private table. Sessions never share a Game.
type Session struct {
	ID     string
	table  config.TableConfig
	game   *blackjack.Game
	logger *log.Logger
}

// NewSession creates a session with a freshly shuffled game for table
func NewSession(table config.TableConfig, logger *log.Logger, opts ...blackjack.Option) *Session {
	id := uuid.NewString()
	logger = logger.With("session", id)
	opts = append([]blackjack.Option{blackjack.WithLogger(logger)}, opts...)
	s := &Session{
		ID:     id,
		table:  table,
		game:   blackjack.New(table.Settings(), opts...),
		logger: logger,
	}
	s.game.ShuffleShoe()
	return s
}

// Game returns the session's game
func (s *Session) Game() *blackjack.Game {
	return s.game
}

// Welcome returns the greeting sent when the session starts
func (s *Session) Welcome() []*Message {
	return s.replies(MessageTypeWelcome, WelcomeData{
		SessionID:  s.ID,
		Table:      s.table.Name,
		PlayerName: s.table.PlayerName,
		MinBet:     s.table.MinBet,
		MaxBet:     s.table.MaxBet,
	})
}

// Handle applies one client message and returns the replies. Every
// accepted command is answered with the resulting state; rejected ones with
// an error message and the game left as it was.
func (s *Session) Handle(msg *Message) []*Message {
	if err := s.apply(msg); err != nil {
		s.logger.Debug("Rejected message", "type", msg.Type, "error", err)
		return s.errorReply(err)
	}
	return s.stateReply()
}

func (s *Session) apply(msg *Message) error {
	switch msg.Type {
	case MessageTypeBet:
		var data BetData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			return &protocolError{code: ErrorCodeInvalidMessage, msg: "failed to parse bet data"}
		}
		if err := s.table.CheckBet(data.Amount); err != nil {
			return err
		}
		// The finished round stays visible until a bet that will be accepted.
		if _, ok := s.game.State().(blackjack.RoundComplete); ok {
			if data.Amount > s.game.Bankroll() {
				return fmt.Errorf("bet %.2f, bankroll %.2f: %w", data.Amount, s.game.Bankroll(), blackjack.ErrInsufficientFunds)
			}
			s.game.NextRound()
		}
		return s.game.AcceptBet(data.Amount)

	case MessageTypeDeal:
		if err := s.game.DealInitialCards(); err != nil {
			return err
		}

	case MessageTypeAction:
		var data ActionData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			return &protocolError{code: ErrorCodeInvalidMessage, msg: "failed to parse action data"}
		}
		action, err := blackjack.ParseAction(data.Action)
		if err != nil {
			return err
		}
		if err := s.game.ProcessPlayerAction(action, data.Hand); err != nil {
			return err
		}

	case MessageTypeNext:
		if _, ok := s.game.State().(blackjack.RoundComplete); !ok {
			return fmt.Errorf("next: %w", blackjack.ErrWrongPhase)
		}
		s.game.NextRound()
		return nil

	default:
		return &protocolError{code: ErrorCodeUnknownType, msg: fmt.Sprintf("unknown message type %q", msg.Type)}
	}

	return s.runDealer()
}

// runDealer plays the dealer out; a shoe that runs dry voids the round.
func (s *Session) runDealer() error {
	for {
		if _, ok := s.game.State().(blackjack.DealerTurn); !ok {
			return nil
		}
		if err := s.game.NextDealerTurn(); err != nil {
			if errors.Is(err, blackjack.ErrShoeEmpty) {
				_ = s.game.VoidRound()
			}
			return err
		}
	}
}

func (s *Session) stateReply() []*Message {
	return s.replies(MessageTypeState, NewStateData(s.game.State()))
}

func (s *Session) errorReply(err error) []*Message {
	replies := s.replies(MessageTypeError, ErrorData{Code: errorCode(err), Message: err.Error()})
	return append(replies, s.stateReply()...)
}

func (s *Session) replies(t MessageType, data any) []*Message {
	msg, err := NewMessage(t, data)
	if err != nil {
		s.logger.Error("Failed to encode message", "type", t, "error", err)
		return nil
	}
	return []*Message{msg}
}

type protocolError struct {
	code string
	msg  string
}

func (e *protocolError) Error() string { return e.msg }

func errorCode(err error) string {
	var pe *protocolError
	if errors.As(err, &pe) {
		return pe.code
	}
	codes := []struct {
		target error
		code   string
	}{
		{blackjack.ErrWrongPhase, ErrorCodeWrongPhase},
		{blackjack.ErrInvalidBet, ErrorCodeInvalidBet},
		{blackjack.ErrInsufficientFunds, ErrorCodeInsufficientFunds},
		{blackjack.ErrIllegalSplit, ErrorCodeIllegalSplit},
		{blackjack.ErrHandIndex, ErrorCodeHandIndex},
		{blackjack.ErrNotActiveHand, ErrorCodeNotActiveHand},
		{blackjack.ErrUnknownAction, ErrorCodeUnknownAction},
		{blackjack.ErrShoeEmpty, ErrorCodeShoeEmpty},
	}
	for _, c := range codes {
		if errors.Is(err, c.target) {
			return c.code
		}
	}
	return ErrorCodeInternal
}
