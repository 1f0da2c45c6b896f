package blackjack

// Phase names the round phase a State belongs to
type Phase uint8

const (
	PhaseWaitingForBet Phase = iota
	PhaseWaitingToDeal
	PhasePlayerTurn
	PhaseDealerTurn
	PhaseRoundComplete
)

func (p Phase) String() string {
	switch p {
	case PhaseWaitingForBet:
		return "waiting-for-bet"
	case PhaseWaitingToDeal:
		return "waiting-to-deal"
	case PhasePlayerTurn:
		return "player-turn"
	case PhaseDealerTurn:
		return "dealer-turn"
	case PhaseRoundComplete:
		return "round-complete"
	default:
		return "unknown"
	}
}

// State is a snapshot of the round. The concrete type identifies the phase
// and carries only the data valid in it. Hands inside a State are copies;
// mutating them has no effect on the game.
type State interface {
	Phase() Phase
	clone() State
}

// WaitingForBet means no round is in progress and no cards are dealt.
type WaitingForBet struct {
	Bankroll float64
}

// WaitingToDeal means the bet was accepted and the deal is pending.
type WaitingToDeal struct {
	Bet      float64
	Bankroll float64
}

// PlayerTurn means the player is deciding on PlayerHands[ActiveHand].
// DealerHand holds only the dealer's face-up card.
type PlayerTurn struct {
	DealerHand  Hand
	PlayerHands []Hand
	Bankroll    float64
	ActiveHand  int
}

// DealerTurn means every player hand is done and the dealer draws by policy.
type DealerTurn struct {
	DealerHand  Hand
	PlayerHands []Hand
	Bankroll    float64
}

// RoundComplete means every player hand carries its outcome and payouts
// have been credited.
type RoundComplete struct {
	DealerHand  Hand
	PlayerHands []Hand
	Bankroll    float64
}

func (WaitingForBet) Phase() Phase { return PhaseWaitingForBet }
func (WaitingToDeal) Phase() Phase { return PhaseWaitingToDeal }
func (PlayerTurn) Phase() Phase    { return PhasePlayerTurn }
func (DealerTurn) Phase() Phase    { return PhaseDealerTurn }
func (RoundComplete) Phase() Phase { return PhaseRoundComplete }

func (s WaitingForBet) clone() State { return s }
func (s WaitingToDeal) clone() State { return s }

func (s PlayerTurn) clone() State {
	s.DealerHand = cloneHand(s.DealerHand)
	s.PlayerHands = cloneHands(s.PlayerHands)
	return s
}

func (s DealerTurn) clone() State {
	s.DealerHand = cloneHand(s.DealerHand)
	s.PlayerHands = cloneHands(s.PlayerHands)
	return s
}

func (s RoundComplete) clone() State {
	s.DealerHand = cloneHand(s.DealerHand)
	s.PlayerHands = cloneHands(s.PlayerHands)
	return s
}

func cloneHand(h Hand) Hand {
	return h.Clone()
}

func cloneHands(hands []Hand) []Hand {
	out := make([]Hand, len(hands))
	for i := range hands {
		out[i] = hands[i].Clone()
	}
	return out
}

// Active returns the hand awaiting a decision
func (s PlayerTurn) Active() Hand {
	return s.PlayerHands[s.ActiveHand]
}

// Net returns total payouts minus total stakes for the round.
func (s RoundComplete) Net() float64 {
	var net float64
	for _, h := range s.PlayerHands {
		net += h.Outcome.Payout(h.Bet) - h.Bet
	}
	return net
}
