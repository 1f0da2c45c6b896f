package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/gorilla/websocket"
	"github.com/lox/blackjack/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startTestServer(t *testing.T, opts ...Option) (*Server, *httptest.Server) {
	t.Helper()
	cfg := config.Default()
	cfg.Tables = append(cfg.Tables, config.TableConfig{
		Name: "high", PlayerName: "Player", Decks: 2, Bankroll: 50_000, MinBet: 100, MaxBet: 5_000,
	})
	require.NoError(t, cfg.Validate())

	srv, err := NewServer(cfg, quietLogger, opts...)
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		srv.Stop()
		ts.Close()
	})
	return srv, ts
}

func dial(t *testing.T, ts *httptest.Server, path string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + path
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	_ = resp.Body.Close()
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) *Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))
	return &msg
}

func writeMessage(t *testing.T, conn *websocket.Conn, typ MessageType, data any) {
	t.Helper()
	msg, err := NewMessage(typ, data)
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(msg))
}

func readWelcome(t *testing.T, conn *websocket.Conn) WelcomeData {
	t.Helper()
	msg := readMessage(t, conn)
	require.Equal(t, MessageTypeWelcome, msg.Type)
	var data WelcomeData
	require.NoError(t, json.Unmarshal(msg.Data, &data))
	decodeState(t, readMessage(t, conn))
	return data
}

func TestHealth(t *testing.T) {
	_, ts := startTestServer(t)
	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["ok"])
}

func TestTables(t *testing.T) {
	_, ts := startTestServer(t)
	resp, err := http.Get(ts.URL + "/tables")
	require.NoError(t, err)
	defer resp.Body.Close()

	var tables []config.TableConfig
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&tables))
	require.Len(t, tables, 2)
	assert.Equal(t, "high", tables[1].Name)
}

func TestWebSocketRound(t *testing.T) {
	_, ts := startTestServer(t, WithSeed(42))
	conn := dial(t, ts, "/ws")

	welcome := readWelcome(t, conn)
	assert.Equal(t, "main", welcome.Table)
	assert.NotEmpty(t, welcome.SessionID)

	writeMessage(t, conn, MessageTypeBet, BetData{Amount: 10})
	state := decodeState(t, readMessage(t, conn))
	assert.Equal(t, "waiting-to-deal", state.Phase)

	writeMessage(t, conn, MessageTypeDeal, nil)
	state = decodeState(t, readMessage(t, conn))
	for state.Phase == "player-turn" {
		writeMessage(t, conn, MessageTypeAction, ActionData{Action: "stand", Hand: *state.ActiveHand})
		state = decodeState(t, readMessage(t, conn))
	}
	assert.Equal(t, "round-complete", state.Phase)
	for _, h := range state.Hands {
		assert.NotEmpty(t, h.Outcome)
	}
}

func TestWebSocketNamedTable(t *testing.T) {
	_, ts := startTestServer(t)
	conn := dial(t, ts, "/ws/high")
	welcome := readWelcome(t, conn)
	assert.Equal(t, "high", welcome.Table)
	assert.Equal(t, 100.0, welcome.MinBet)

	writeMessage(t, conn, MessageTypeBet, BetData{Amount: 10})
	msg := readMessage(t, conn)
	assert.Equal(t, ErrorCodeInvalidBet, decodeError(t, msg).Code)
}

func TestWebSocketUnknownTable(t *testing.T) {
	_, ts := startTestServer(t)
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/nope"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSessionsGetSeparateGames(t *testing.T) {
	srv, ts := startTestServer(t)
	a := dial(t, ts, "/ws")
	b := dial(t, ts, "/ws")
	wa, wb := readWelcome(t, a), readWelcome(t, b)
	assert.NotEqual(t, wa.SessionID, wb.SessionID)
	assert.Eventually(t, func() bool { return srv.ActiveSessions() == 2 }, time.Second, 10*time.Millisecond)

	writeMessage(t, a, MessageTypeBet, BetData{Amount: 500})
	assert.Equal(t, 9_500.0, decodeState(t, readMessage(t, a)).Bankroll)

	writeMessage(t, b, MessageTypeBet, BetData{Amount: 1})
	assert.Equal(t, 9_999.0, decodeState(t, readMessage(t, b)).Bankroll)

	_ = a.Close()
	assert.Eventually(t, func() bool { return srv.ActiveSessions() == 1 }, time.Second, 10*time.Millisecond)
}

func TestIdleTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	mockClock := quartz.NewMock(t)
	srv, ts := startTestServer(t, WithClock(mockClock))
	conn := dial(t, ts, "/ws")
	readWelcome(t, conn)

	// Activity resets the timer
	mockClock.Advance(4 * time.Minute).MustWait(ctx)
	writeMessage(t, conn, MessageTypeBet, BetData{Amount: 10})
	decodeState(t, readMessage(t, conn))

	mockClock.Advance(4 * time.Minute).MustWait(ctx)
	writeMessage(t, conn, MessageTypeDeal, nil)
	decodeState(t, readMessage(t, conn))

	mockClock.Advance(config.DefaultIdleTimeout).MustWait(ctx)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, _, err := conn.ReadMessage()
	var closeErr *websocket.CloseError
	require.ErrorAs(t, err, &closeErr)
	assert.Equal(t, websocket.CloseNormalClosure, closeErr.Code)
	assert.Equal(t, "idle timeout", closeErr.Text)
	assert.Eventually(t, func() bool { return srv.ActiveSessions() == 0 }, time.Second, 10*time.Millisecond)
}

func TestNewServerRejectsBadTimeout(t *testing.T) {
	cfg := config.Default()
	cfg.Server.IdleTimeout = "never"
	_, err := NewServer(cfg, nil)
	assert.Error(t, err)
}
