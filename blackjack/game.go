package blackjack

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/lox/blackjack/internal/randutil"
)

// seats is the number of player seats at a table; the dealer is extra.
const seats = 1

// Game runs rounds of blackjack for one player against the dealer. It is not
// safe for concurrent use; each table owns its own Game.
type Game struct {
	settings Settings
	shoe     *Shoe
	player   *Player
	dealer   *Player
	state    State
	logger   *log.Logger
	onEvent  func(Event)
}

// New creates a game in the WaitingForBet phase. Settings are not validated
// here; call Settings.Validate first. New panics if DeckCount is below one
// and no shoe is supplied.
func New(settings Settings, opts ...Option) *Game {
	cfg := &gameConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = log.New(io.Discard)
	}
	if cfg.rng == nil {
		cfg.rng = randutil.NewEntropy()
	}
	shoe := cfg.shoe
	if shoe == nil {
		shoe = NewShoe(settings.DeckCount, cfg.rng)
	}

	g := &Game{
		settings: settings,
		shoe:     shoe,
		player:   NewPlayer(settings.Bankroll),
		dealer:   NewPlayer(0),
		logger:   cfg.logger.WithPrefix("blackjack"),
		onEvent:  cfg.onEvent,
	}
	g.state = WaitingForBet{Bankroll: g.player.Bankroll}
	return g
}

// State returns a snapshot of the current round state
func (g *Game) State() State {
	return g.state.clone()
}

// Settings returns the settings the game was created with
func (g *Game) Settings() Settings {
	return g.settings
}

// Shoe returns the game's shoe
func (g *Game) Shoe() *Shoe {
	return g.shoe
}

// Bankroll returns the player's current bankroll
func (g *Game) Bankroll() float64 {
	return g.player.Bankroll
}

// ShuffleShoe shuffles the drawable cards
func (g *Game) ShuffleShoe() {
	g.shoe.Shuffle()
	g.logger.Debug("Shuffled shoe", "remaining", g.shoe.Remaining())
}

// AcceptBet debits the bet from the bankroll and moves to WaitingToDeal. A
// bet larger than the bankroll is rejected with ErrInsufficientFunds and
// nothing changes.
func (g *Game) AcceptBet(bet float64) error {
	if _, ok := g.state.(WaitingForBet); !ok {
		return fmt.Errorf("accept bet in %s: %w", g.state.Phase(), ErrWrongPhase)
	}
	if !validAmount(bet) {
		return fmt.Errorf("bet %v: %w", bet, ErrInvalidBet)
	}
	if err := g.player.Debit(bet); err != nil {
		return fmt.Errorf("bet %.2f: %w", bet, err)
	}
	g.player.Hands[0].Bet = bet
	g.logger.Debug("Bet accepted", "bet", bet, "bankroll", g.player.Bankroll)
	g.setState(WaitingToDeal{Bet: bet, Bankroll: g.player.Bankroll})
	return nil
}

// DealInitialCards deals player, dealer, player, dealer and settles
// naturals. Without a natural the round moves to PlayerTurn on hand 0.
func (g *Game) DealInitialCards() error {
	if _, ok := g.state.(WaitingToDeal); !ok {
		return fmt.Errorf("deal in %s: %w", g.state.Phase(), ErrWrongPhase)
	}
	if g.shoe.EnsureCardsForPlayers(seats) {
		g.logger.Info("Starting a new shoe", "decks", g.shoe.NumDecks(), "cards", g.shoe.Remaining())
		g.emit(ShoeReplenishedEvent{Decks: g.shoe.NumDecks(), Cards: g.shoe.Remaining()})
	}

	for range 2 {
		if err := g.deal(SeatPlayer, g.player, 0); err != nil {
			return err
		}
		if err := g.deal(SeatDealer, g.dealer, 0); err != nil {
			return err
		}
	}

	player, dealer := g.player.Hands[0], g.dealer.Hands[0]
	switch {
	case player.IsNaturalBlackjack() && dealer.IsNaturalBlackjack():
		g.resolve(0, Push)
	case player.IsNaturalBlackjack():
		g.resolve(0, Blackjack)
	case dealer.IsNaturalBlackjack():
		g.resolve(0, Loss)
	default:
		g.setState(g.playerTurn(0))
		return nil
	}
	g.setState(g.roundComplete())
	return nil
}

// ProcessPlayerAction applies action to the hand at handIndex, which must be
// the active hand of the current PlayerTurn.
func (g *Game) ProcessPlayerAction(action Action, handIndex int) error {
	turn, ok := g.state.(PlayerTurn)
	if !ok {
		return fmt.Errorf("%s in %s: %w", action, g.state.Phase(), ErrWrongPhase)
	}
	hand, err := g.player.Hand(handIndex)
	if err != nil {
		return err
	}
	if handIndex != turn.ActiveHand {
		return fmt.Errorf("hand %d, active hand %d: %w", handIndex, turn.ActiveHand, ErrNotActiveHand)
	}

	// Every draw this action could trigger is checked up front so a short
	// shoe leaves the round untouched.
	later := len(g.player.Hands) - 1 - handIndex

	switch action {
	case Hit:
		if err := g.requireCards(1 + later); err != nil {
			return err
		}
		g.emit(PlayerActionEvent{Action: action, Hand: handIndex})
		_ = g.deal(SeatPlayer, g.player, handIndex)
		switch {
		case hand.IsBusted():
			g.resolve(handIndex, Loss)
			return g.advance(handIndex)
		case hand.IsBlackjack():
			return g.advance(handIndex)
		}
		g.setState(g.playerTurn(handIndex))
		return nil

	case Stand:
		if err := g.requireCards(later); err != nil {
			return err
		}
		g.emit(PlayerActionEvent{Action: action, Hand: handIndex})
		return g.advance(handIndex)

	case Double:
		if hand.Bet > g.player.Bankroll {
			return fmt.Errorf("double %.2f: %w", hand.Bet, ErrInsufficientFunds)
		}
		if err := g.requireCards(1 + later); err != nil {
			return err
		}
		g.emit(PlayerActionEvent{Action: action, Hand: handIndex})
		_ = g.player.Debit(hand.Bet)
		hand.Bet *= 2
		_ = g.deal(SeatPlayer, g.player, handIndex)
		return g.advance(handIndex)

	case Split:
		if !hand.CanSplit() {
			return fmt.Errorf("hand %d (%s): %w", handIndex, hand, ErrIllegalSplit)
		}
		if hand.Bet > g.player.Bankroll {
			return fmt.Errorf("split %.2f: %w", hand.Bet, ErrInsufficientFunds)
		}
		if err := g.requireCards(1); err != nil {
			return err
		}
		g.emit(PlayerActionEvent{Action: action, Hand: handIndex})
		_ = g.player.Debit(hand.Bet)
		moved := hand.Cards[1]
		hand.Cards = hand.Cards[:1]
		if err := g.player.insertHandAfter(handIndex, &Hand{Bet: hand.Bet, Cards: []Card{moved}}); err != nil {
			return err
		}
		_ = g.deal(SeatPlayer, g.player, handIndex)
		g.logger.Debug("Split hand", "hand", handIndex, "hands", len(g.player.Hands))
		g.setState(g.playerTurn(handIndex))
		return nil
	}

	return fmt.Errorf("%d: %w", action, ErrUnknownAction)
}

// advance moves play to the next split hand after from, dealing its
// mandatory second card. A hand that reaches 21 on that card stands
// automatically. With no hands left the round moves on to the dealer, or
// straight to RoundComplete when every hand has already lost. A doubled hand
// that busted is left for settle, so the dealer still plays it out.
func (g *Game) advance(from int) error {
	for next := from + 1; next < len(g.player.Hands); next++ {
		if err := g.deal(SeatPlayer, g.player, next); err != nil {
			return err
		}
		if !g.player.Hands[next].IsBlackjack() {
			g.setState(g.playerTurn(next))
			return nil
		}
	}

	for _, h := range g.player.Hands {
		if !h.IsResolved() {
			g.setState(g.dealerTurn())
			return nil
		}
	}
	g.setState(g.roundComplete())
	return nil
}

// NextDealerTurn plays one step of the dealer policy: hit while the dealer
// holds 16 or less, otherwise stand and settle. Outside DealerTurn it does
// nothing.
func (g *Game) NextDealerTurn() error {
	if _, ok := g.state.(DealerTurn); !ok {
		return nil
	}
	dealer := g.dealer.Hands[0]
	if dealer.BestValue() >= 17 {
		g.settle()
		return nil
	}

	if err := g.deal(SeatDealer, g.dealer, 0); err != nil {
		return err
	}
	g.logger.Debug("Dealer hits", "value", dealer.BestValue())
	if dealer.IsBusted() {
		g.settle()
		return nil
	}
	g.setState(g.dealerTurn())
	return nil
}

// settle resolves every live player hand against the dealer's final hand.
func (g *Game) settle() {
	dealer := g.dealer.Hands[0]
	for i, h := range g.player.Hands {
		if h.IsResolved() {
			continue
		}
		switch {
		case h.IsBusted():
			g.resolve(i, Loss)
		case dealer.IsBusted():
			g.resolve(i, Win)
		case h.BestValue() > dealer.BestValue():
			g.resolve(i, Win)
		case h.BestValue() < dealer.BestValue():
			g.resolve(i, Loss)
		default:
			g.resolve(i, Push)
		}
	}
	g.setState(g.roundComplete())
}

// NextRound clears both players' hands and waits for the next bet. The shoe
// is left alone; it replenishes itself at the next deal when low.
func (g *Game) NextRound() {
	g.player.ResetHands()
	g.dealer.ResetHands()
	g.setState(WaitingForBet{Bankroll: g.player.Bankroll})
}

// VoidRound abandons an unsettled round, returning every stake, and waits
// for the next bet. It is the recovery path when the shoe runs dry mid-round.
func (g *Game) VoidRound() error {
	switch g.state.(type) {
	case WaitingToDeal, PlayerTurn, DealerTurn:
	default:
		return fmt.Errorf("void round in %s: %w", g.state.Phase(), ErrWrongPhase)
	}
	var refund float64
	for _, h := range g.player.Hands {
		refund += h.Bet
	}
	g.player.Credit(refund)
	g.logger.Warn("Round voided", "refund", refund)
	g.NextRound()
	return nil
}

// Decider chooses an action for the active hand of a PlayerTurn.
type Decider interface {
	Decide(turn PlayerTurn) Action
}

// Play drives a round from WaitingToDeal to RoundComplete, asking d for
// every player decision and running the dealer to completion. A decision
// the engine rejects as illegal is replaced with Stand.
func (g *Game) Play(d Decider) error {
	if _, ok := g.state.(WaitingToDeal); ok {
		if err := g.DealInitialCards(); err != nil {
			return err
		}
	}
	for {
		switch s := g.state.(type) {
		case PlayerTurn:
			action := d.Decide(s)
			err := g.ProcessPlayerAction(action, s.ActiveHand)
			if errors.Is(err, ErrIllegalSplit) || errors.Is(err, ErrInsufficientFunds) {
				g.logger.Debug("Decision rejected, standing", "action", action, "error", err)
				err = g.ProcessPlayerAction(Stand, s.ActiveHand)
			}
			if err != nil {
				return err
			}
		case DealerTurn:
			if err := g.NextDealerTurn(); err != nil {
				return err
			}
		case RoundComplete:
			return nil
		default:
			return fmt.Errorf("play in %s: %w", s.Phase(), ErrWrongPhase)
		}
	}
}

// ValidActions returns the actions the active hand can take
func (s PlayerTurn) ValidActions() []Action {
	hand := s.Active()
	actions := []Action{Hit, Stand}
	if hand.Bet <= s.Bankroll {
		actions = append(actions, Double)
		if hand.CanSplit() {
			actions = append(actions, Split)
		}
	}
	return actions
}

func (g *Game) requireCards(n int) error {
	if g.shoe.Remaining() < n {
		return fmt.Errorf("need %d cards, %d left: %w", n, g.shoe.Remaining(), ErrShoeEmpty)
	}
	return nil
}

func (g *Game) deal(seat Seat, p *Player, i int) error {
	if _, err := p.Hand(i); err != nil {
		return err
	}
	card, ok := g.shoe.Draw()
	if !ok {
		return ErrShoeEmpty
	}
	_ = p.AddCard(card, i)
	g.emit(CardDealtEvent{Seat: seat, Hand: i, Card: card})
	return nil
}

// resolve assigns an outcome to player hand i and credits its payout.
func (g *Game) resolve(i int, o Outcome) {
	h := g.player.Hands[i]
	if err := h.resolve(o); err != nil {
		g.logger.Error("Hand resolved twice", "hand", i, "outcome", h.Outcome, "attempted", o)
		return
	}
	payout := o.Payout(h.Bet)
	g.player.Credit(payout)
	g.logger.Debug("Hand resolved", "hand", i, "outcome", o, "bet", h.Bet, "payout", payout)
	g.emit(HandResolvedEvent{Hand: i, Outcome: o, Bet: h.Bet, Payout: payout})
}

func (g *Game) setState(s State) {
	from := g.state
	g.state = s
	if from == nil || from.Phase() != s.Phase() {
		prev := PhaseWaitingForBet
		if from != nil {
			prev = from.Phase()
		}
		g.emit(PhaseChangeEvent{From: prev, To: s.Phase()})
	}
}

func (g *Game) emit(e Event) {
	if g.onEvent != nil {
		g.onEvent(e)
	}
}

func (g *Game) playerTurn(active int) PlayerTurn {
	up := Hand{}
	if cards := g.dealer.Hands[0].Cards; len(cards) > 0 {
		up.Cards = []Card{cards[0]}
	}
	return PlayerTurn{
		DealerHand:  up,
		PlayerHands: g.player.snapshot(),
		Bankroll:    g.player.Bankroll,
		ActiveHand:  active,
	}
}

func (g *Game) dealerTurn() DealerTurn {
	return DealerTurn{
		DealerHand:  g.dealer.Hands[0].Clone(),
		PlayerHands: g.player.snapshot(),
		Bankroll:    g.player.Bankroll,
	}
}

func (g *Game) roundComplete() RoundComplete {
	return RoundComplete{
		DealerHand:  g.dealer.Hands[0].Clone(),
		PlayerHands: g.player.snapshot(),
		Bankroll:    g.player.Bankroll,
	}
}
