package blackjack

import (
	"fmt"
	"strings"
)

// Action is a player decision on the active hand
type Action uint8

const (
	Hit Action = iota
	Stand
	Double
	Split
)

// Actions lists every action in display order
var Actions = [...]Action{Hit, Stand, Double, Split}

func (a Action) String() string {
	switch a {
	case Hit:
		return "HIT"
	case Stand:
		return "STAND"
	case Double:
		return "DOUBLE"
	case Split:
		return "SPLIT"
	default:
		return "UNKNOWN"
	}
}

// ParseAction parses the short (h, s, d, p) or long (hit, stand, double,
// split) form of an action. Case and surrounding whitespace are ignored.
func ParseAction(s string) (Action, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "h", "hit":
		return Hit, nil
	case "s", "stand":
		return Stand, nil
	case "d", "double":
		return Double, nil
	case "p", "split":
		return Split, nil
	}
	return 0, fmt.Errorf("%q: %w", s, ErrUnknownAction)
}
