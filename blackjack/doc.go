// Package blackjack implements a single-player blackjack round engine.
//
// The main type is Game, which owns a Shoe, the player and the dealer, and
// exposes the round as a state machine. Every operation is synchronous and
// returns errors instead of printing; presentation layers poll State or
// subscribe to events.
//
// # Basic Usage
//
//	settings := blackjack.DefaultSinglePlayer("Alice")
//	if err := settings.Validate(); err != nil {
//	    return err
//	}
//	g := blackjack.New(settings)
//	g.ShuffleShoe()
//	_ = g.AcceptBet(100)
//	_ = g.DealInitialCards()
//	for {
//	    switch s := g.State().(type) {
//	    case blackjack.PlayerTurn:
//	        _ = g.ProcessPlayerAction(blackjack.Stand, s.ActiveHand)
//	    case blackjack.DealerTurn:
//	        _ = g.NextDealerTurn()
//	    case blackjack.RoundComplete:
//	        g.NextRound()
//	        return nil
//	    }
//	}
//
// # Deterministic Testing
//
// Inject a seeded math/rand/v2 source, or build a shoe and stack it:
//
//	shoe := blackjack.NewShoe(1, rand.New(rand.NewPCG(42, 0)))
//	_ = shoe.Stack(blackjack.MustParseCards("10h8s6dKc")...)
//	g := blackjack.New(settings, blackjack.WithShoe(shoe))
//
// # Phases
//
// WaitingForBet → WaitingToDeal → PlayerTurn → DealerTurn → RoundComplete.
// Naturals jump from the deal straight to RoundComplete, as does a player
// whose every hand busted on a hit. A doubled hand that busts still goes
// through DealerTurn and loses at settlement.
package blackjack
