// Package tui is an interactive terminal front end for a single blackjack
// table, built on Bubble Tea.
package tui

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/lox/blackjack/blackjack"
	"github.com/lox/blackjack/internal/config"
)

// ErrUnknownCommand is returned by ParseCommand for unrecognised input
var ErrUnknownCommand = errors.New("unknown command")

// CommandKind identifies what a line of input asks for
type CommandKind uint8

const (
	CommandContinue CommandKind = iota // empty input
	CommandBet
	CommandDeal
	CommandAction
	CommandNext
	CommandHelp
	CommandQuit
)

// Command is one parsed line of player input
type Command struct {
	Kind   CommandKind
	Amount float64
	Action blackjack.Action
}

// ParseCommand turns a line of input into a Command
func ParseCommand(input string) (Command, error) {
	parts := strings.Fields(strings.ToLower(input))
	if len(parts) == 0 {
		return Command{Kind: CommandContinue}, nil
	}

	switch parts[0] {
	case "bet", "b":
		if len(parts) != 2 {
			return Command{}, fmt.Errorf("usage: bet <amount>")
		}
		amount, err := strconv.ParseFloat(parts[1], 64)
		if err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) {
			return Command{}, fmt.Errorf("invalid bet amount %q", parts[1])
		}
		return Command{Kind: CommandBet, Amount: amount}, nil
	case "deal":
		return Command{Kind: CommandDeal}, nil
	case "next", "n":
		return Command{Kind: CommandNext}, nil
	case "help", "?":
		return Command{Kind: CommandHelp}, nil
	case "quit", "q", "exit":
		return Command{Kind: CommandQuit}, nil
	}

	if len(parts) == 1 {
		if action, err := blackjack.ParseAction(parts[0]); err == nil {
			return Command{Kind: CommandAction, Action: action}, nil
		}
	}
	return Command{}, fmt.Errorf("%q: %w", input, ErrUnknownCommand)
}

const helpText = "Commands: bet <amount>, deal, hit (h), stand (s), double (d), split (p), next, quit"

// Model is the Bubble Tea model for one blackjack table
type Model struct {
	game   *blackjack.Game
	table  config.TableConfig
	logger *log.Logger

	logViewport viewport.Model
	actionInput textinput.Model

	gameLog     []string
	lastBet     float64
	dealerCards int
	focusedPane int // 0 = log, 1 = input
	quitting    bool

	width  int
	height int
}

// NewModel creates a model playing a fresh game built from table. Extra
// options are passed to the engine.
func NewModel(table config.TableConfig, logger *log.Logger, opts ...blackjack.Option) *Model {
	vp := viewport.New(10, 5)
	vp.SetContent("")

	ti := textinput.New()
	ti.Placeholder = "bet 10"
	ti.Focus()
	ti.CharLimit = 32
	ti.Width = 40
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)
	ti.Prompt = "> "

	m := &Model{
		table:       table,
		logger:      logger.WithPrefix("tui"),
		logViewport: vp,
		actionInput: ti,
		focusedPane: 1,
		lastBet:     table.MinBet,
	}
	opts = append([]blackjack.Option{blackjack.WithLogger(logger)}, opts...)
	opts = append(opts, blackjack.WithEventHandler(m.onEvent))
	m.game = blackjack.New(table.Settings(), opts...)
	m.game.ShuffleShoe()
	m.addLog(fmt.Sprintf("Welcome %s. Bankroll $%.2f, bets $%.2f-$%.2f.",
		table.PlayerName, m.game.Bankroll(), table.MinBet, table.MaxBet))
	m.addLog(helpText)
	return m
}

// Game returns the underlying game
func (m *Model) Game() *blackjack.Game {
	return m.game
}

// Log returns the narration so far
func (m *Model) Log() []string {
	return append([]string(nil), m.gameLog...)
}

// Init initializes the TUI model
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages in the TUI
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "tab":
			if m.focusedPane == 0 {
				m.focusedPane = 1
				m.actionInput.Focus()
			} else {
				m.focusedPane = 0
				m.actionInput.Blur()
			}
		case "enter":
			if m.focusedPane == 1 {
				input := m.actionInput.Value()
				m.actionInput.SetValue("")
				if quit := m.Submit(input); quit {
					m.quitting = true
					return m, tea.Quit
				}
				return m, nil
			}
		}
	}

	var cmd tea.Cmd
	if m.focusedPane == 1 {
		m.actionInput, cmd = m.actionInput.Update(msg)
		cmds = append(cmds, cmd)
	}
	m.logViewport, cmd = m.logViewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// Submit runs one line of input against the game and reports whether the
// player asked to quit.
func (m *Model) Submit(input string) bool {
	cmd, err := ParseCommand(input)
	if err != nil {
		m.addLog(ErrorStyle.Render(err.Error()))
		return false
	}
	if cmd.Kind == CommandQuit {
		return true
	}
	if err := m.execute(cmd); err != nil {
		m.logger.Debug("Command rejected", "input", input, "error", err)
		m.addLog(ErrorStyle.Render(describeError(err)))
	}
	m.runDealer()
	return false
}

func (m *Model) execute(cmd Command) error {
	switch cmd.Kind {
	case CommandHelp:
		m.addLog(helpText)
		return nil

	case CommandContinue:
		switch m.game.State().(type) {
		case blackjack.RoundComplete:
			m.game.NextRound()
			return nil
		case blackjack.WaitingForBet:
			return m.bet(m.lastBet)
		case blackjack.WaitingToDeal:
			return m.game.DealInitialCards()
		}
		return nil

	case CommandBet:
		if _, ok := m.game.State().(blackjack.RoundComplete); ok {
			m.game.NextRound()
		}
		return m.bet(cmd.Amount)

	case CommandDeal:
		return m.game.DealInitialCards()

	case CommandAction:
		turn, ok := m.game.State().(blackjack.PlayerTurn)
		if !ok {
			return fmt.Errorf("%s: %w", cmd.Action, blackjack.ErrWrongPhase)
		}
		return m.game.ProcessPlayerAction(cmd.Action, turn.ActiveHand)

	case CommandNext:
		if _, ok := m.game.State().(blackjack.RoundComplete); !ok {
			return fmt.Errorf("next: %w", blackjack.ErrWrongPhase)
		}
		m.game.NextRound()
		return nil
	}
	return nil
}

func (m *Model) bet(amount float64) error {
	if err := m.table.CheckBet(amount); err != nil {
		return err
	}
	if err := m.game.AcceptBet(amount); err != nil {
		return err
	}
	m.lastBet = amount
	m.dealerCards = 0
	return m.game.DealInitialCards()
}

// runDealer plays the dealer out so the player never has to step it.
func (m *Model) runDealer() {
	for {
		if _, ok := m.game.State().(blackjack.DealerTurn); !ok {
			return
		}
		if err := m.game.NextDealerTurn(); err != nil {
			m.addLog(ErrorStyle.Render(describeError(err)))
			if errors.Is(err, blackjack.ErrShoeEmpty) {
				_ = m.game.VoidRound()
				m.addLog(WarningStyle.Render("Round voided, stakes returned."))
			}
			return
		}
	}
}

func (m *Model) onEvent(e blackjack.Event) {
	switch e := e.(type) {
	case blackjack.ShoeReplenishedEvent:
		m.addLog(InfoStyle.Render(fmt.Sprintf("New shoe: %d decks, %d cards.", e.Decks, e.Cards)))
	case blackjack.CardDealtEvent:
		if e.Seat == blackjack.SeatDealer {
			m.dealerCards++
			if m.dealerCards == 2 {
				m.addLog("Dealer takes a hole card.")
				return
			}
			m.addLog("Dealer draws " + formatCard(e.Card))
			return
		}
		m.addLog(fmt.Sprintf("Hand %d draws %s", e.Hand+1, formatCard(e.Card)))
	case blackjack.PlayerActionEvent:
		m.addLog(ActionsStyle.Render(fmt.Sprintf("You %s hand %d.", e.Action, e.Hand+1)))
	case blackjack.PhaseChangeEvent:
		m.onPhaseChange(e)
	case blackjack.HandResolvedEvent:
		style := SuccessStyle
		if e.Outcome == blackjack.Loss {
			style = ErrorStyle
		}
		m.addLog(style.Render(fmt.Sprintf("Hand %d: %s (%+.2f)", e.Hand+1, e.Outcome, e.Payout-e.Bet)))
	}
}

func (m *Model) onPhaseChange(e blackjack.PhaseChangeEvent) {
	switch e.To {
	case blackjack.PhaseDealerTurn, blackjack.PhaseRoundComplete:
		if e.From == blackjack.PhasePlayerTurn || e.From == blackjack.PhaseWaitingToDeal {
			s := m.game.State()
			var dealer blackjack.Hand
			switch s := s.(type) {
			case blackjack.DealerTurn:
				dealer = s.DealerHand
			case blackjack.RoundComplete:
				dealer = s.DealerHand
			}
			if len(dealer.Cards) >= 2 {
				m.addLog("Dealer reveals " + formatCard(dealer.Cards[1]))
			}
		}
		if e.To == blackjack.PhaseRoundComplete {
			m.addLog(InfoStyle.Render(fmt.Sprintf("Bankroll $%.2f. Enter to continue.", m.game.Bankroll())))
		}
	case blackjack.PhaseWaitingForBet:
		m.addLog(InfoStyle.Render("Place your bet."))
	}
}

func describeError(err error) string {
	switch {
	case errors.Is(err, blackjack.ErrInsufficientFunds):
		return "Not enough money for that."
	case errors.Is(err, blackjack.ErrIllegalSplit):
		return "Only a pair can be split."
	case errors.Is(err, blackjack.ErrWrongPhase):
		return "You can't do that right now."
	case errors.Is(err, blackjack.ErrShoeEmpty):
		return "The shoe is empty."
	}
	return err.Error()
}

func (m *Model) addLog(entry string) {
	m.gameLog = append(m.gameLog, entry)
	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))
	if m.logViewport.Height > 0 && m.logViewport.Width > 0 {
		m.logViewport.GotoBottom()
	}
}

// View renders the TUI
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	table := m.renderTable()
	tableWidth := max(lipgloss.Width(table), 30)
	tablePane := paneStyle.Width(tableWidth).Render(table)

	actionPane := m.renderActionPane()
	actionHeight := lipgloss.Height(actionPane)
	actionStyle := paneStyle
	if m.focusedPane == 1 {
		actionStyle = focusedPaneStyle
	}
	actionPane = actionStyle.Width(max(m.width-2, 1)).Render(actionPane)

	m.logViewport.Width = max(m.width-tableWidth-4, 1)
	m.logViewport.Height = max(m.height-actionHeight-4, 1)
	logStyle := paneStyle
	if m.focusedPane == 0 {
		logStyle = focusedPaneStyle
	}
	logPane := logStyle.
		Width(m.logViewport.Width).
		Height(m.logViewport.Height).
		Render(m.logViewport.View())

	top := lipgloss.JoinHorizontal(lipgloss.Top, logPane, tablePane)
	return lipgloss.JoinVertical(lipgloss.Left, top, actionPane)
}

func (m *Model) renderTable() string {
	var b strings.Builder
	b.WriteString(HeaderStyle.Render(m.table.Name))
	b.WriteString("\n\n")

	var dealer blackjack.Hand
	var hands []blackjack.Hand
	active := -1
	switch s := m.game.State().(type) {
	case blackjack.PlayerTurn:
		dealer, hands, active = s.DealerHand, s.PlayerHands, s.ActiveHand
	case blackjack.DealerTurn:
		dealer, hands = s.DealerHand, s.PlayerHands
	case blackjack.RoundComplete:
		dealer, hands = s.DealerHand, s.PlayerHands
	}

	if len(dealer.Cards) > 0 {
		fmt.Fprintf(&b, "Dealer: %s\n", formatCards(dealer.Cards))
	}
	for i, h := range hands {
		line := fmt.Sprintf("Hand %d: %s (%d) $%.2f", i+1, formatCards(h.Cards), h.BestValue(), h.Bet)
		if h.IsResolved() {
			line += " " + h.Outcome.String()
		}
		if i == active {
			line = ActiveHandStyle.Render("▶ " + line)
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n")
	b.WriteString(WarningStyle.Render(fmt.Sprintf("Bankroll: $%.2f", m.game.Bankroll())))
	return b.String()
}

func (m *Model) renderActionPane() string {
	var b strings.Builder
	switch s := m.game.State().(type) {
	case blackjack.PlayerTurn:
		var actions []string
		for _, a := range s.ValidActions() {
			actions = append(actions, "["+strings.ToLower(a.String())+"]")
		}
		b.WriteString(ActionsStyle.Render("Actions: " + strings.Join(actions, " ")))
		m.actionInput.Placeholder = "hit, stand, double, split"
	case blackjack.WaitingForBet:
		b.WriteString(HandInfoStyle.Render("Place your bet"))
		m.actionInput.Placeholder = fmt.Sprintf("bet %g", m.lastBet)
	default:
		b.WriteString(HandInfoStyle.Render("Round over"))
		m.actionInput.Placeholder = "Enter for next round, 'quit' to exit"
	}
	b.WriteString("\n")
	b.WriteString(m.actionInput.View())
	b.WriteString("\n")
	b.WriteString(InfoStyle.Render("Tab to scroll log • Enter to submit • Ctrl+C to quit"))
	return b.String()
}

func formatCard(c blackjack.Card) string {
	if c.IsRed() {
		return RedCardStyle.Render(c.String())
	}
	return BlackCardStyle.Render(c.String())
}

func formatCards(cards []blackjack.Card) string {
	formatted := make([]string, len(cards))
	for i, c := range cards {
		formatted[i] = formatCard(c)
	}
	return "[" + strings.Join(formatted, " ") + "]"
}
