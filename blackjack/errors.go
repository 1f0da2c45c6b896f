package blackjack

import "errors"

var (
	// ErrInvalidSettings is wrapped by every settings validation failure.
	ErrInvalidSettings = errors.New("invalid settings")

	// ErrInsufficientFunds means a bet, double or split exceeds the bankroll.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInvalidBet means the bet amount is negative.
	ErrInvalidBet = errors.New("bet must not be negative")

	// ErrShoeEmpty means a draw found no cards. Replenishment before every
	// deal should make this unreachable.
	ErrShoeEmpty = errors.New("shoe is empty")

	// ErrCardNotInShoe is returned by Shoe.Stack for a card that is not drawable.
	ErrCardNotInShoe = errors.New("card not in shoe")

	// ErrIllegalSplit means the active hand is not exactly two cards of equal rank.
	ErrIllegalSplit = errors.New("hand cannot be split")

	// ErrHandIndex means a hand index is outside the player's hands.
	ErrHandIndex = errors.New("hand index out of range")

	// ErrNotActiveHand means an action targeted a hand other than the active one.
	ErrNotActiveHand = errors.New("hand is not the active hand")

	// ErrWrongPhase means an operation was invoked in a state that does not accept it.
	ErrWrongPhase = errors.New("operation not valid in current phase")

	// ErrUnknownAction is returned by ParseAction for unrecognised tokens.
	ErrUnknownAction = errors.New("unknown action")

	// ErrHandResolved means an outcome was assigned to an already resolved hand.
	ErrHandResolved = errors.New("hand already resolved")
)
