package server

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/pokerrooms/internal/game"
	"github.com/lox/pokerrooms/internal/ids"
	"github.com/lox/pokerrooms/internal/store"
)

// DefaultReconnectTimeout is how long a seat is held for a player whose
// connection dropped mid-hand
const DefaultReconnectTimeout = 30 * time.Second

// Reasons sent with playerLeft
const (
	leaveReasonLeft       = "left"
	leaveReasonDisconnect = "disconnected"
	leaveReasonTimeout    = "timeout"
	leaveReasonBusted     = "busted"
)

// Gateway maps session messages onto room operations
type Gateway struct {
	registry         *Registry
	clock            quartz.Clock
	logger           *log.Logger
	reconnectTimeout time.Duration

	mu       sync.Mutex
	bindings map[Session]binding
}

type binding struct {
	roomID   string
	playerID string
}

// GatewayOption configures a Gateway
type GatewayOption func(*Gateway)

// WithGatewayClock sets the clock for reconnect timers
func WithGatewayClock(clock quartz.Clock) GatewayOption {
	return func(g *Gateway) { g.clock = clock }
}

// WithReconnectTimeout sets how long a dropped seat is held mid-hand
func WithReconnectTimeout(d time.Duration) GatewayOption {
	return func(g *Gateway) { g.reconnectTimeout = d }
}

// NewGateway creates a gateway serving rooms from registry
func NewGateway(registry *Registry, logger *log.Logger, opts ...GatewayOption) *Gateway {
	g := &Gateway{
		registry:         registry,
		clock:            quartz.NewReal(),
		logger:           logger.WithPrefix("gateway"),
		reconnectTimeout: DefaultReconnectTimeout,
		bindings:         make(map[Session]binding),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Registry returns the gateway's room registry
func (g *Gateway) Registry() *Registry { return g.registry }

// HandleMessage processes one inbound message from sess
func (g *Gateway) HandleMessage(ctx context.Context, sess Session, msg *Message) {
	switch msg.Type {
	case MessageTypeJoin:
		var data JoinData
		if err := msg.Decode(&data); err != nil {
			g.sendError(sess, ErrorCodeInvalidMessage, "Failed to parse join data")
			return
		}
		if data.RoomID == "" || data.Name == "" {
			g.sendError(sess, ErrorCodeInvalidMessage, "roomId and name are required")
			return
		}
		g.join(ctx, sess, data)

	case MessageTypeReady:
		g.ready(sess)

	case MessageTypeBet:
		var data BetData
		if err := msg.Decode(&data); err != nil || data.Amount == nil {
			g.sendError(sess, ErrorCodeInvalidMessage, "bet needs an integer amount")
			return
		}
		if *data.Amount < 0 {
			g.sendError(sess, ErrorCodeInvalidBet, "bet amount cannot be negative")
			return
		}
		g.bet(sess, *data.Amount)

	case MessageTypeLeave:
		g.leave(sess)

	default:
		g.sendError(sess, ErrorCodeUnknownType, "Unknown message type: "+msg.Type.String())
	}
}

func (g *Gateway) join(ctx context.Context, sess Session, data JoinData) {
	if _, ok := g.binding(sess); ok {
		g.sendError(sess, ErrorCodeAlreadyJoined, "Leave the current room first")
		return
	}

	rm, err := g.registry.acquire(ctx, data.RoomID)
	if err != nil {
		if errors.Is(err, store.ErrRoomNotFound) || errors.Is(err, store.ErrInvalidRoom) {
			g.sendError(sess, ErrorCodeRoomNotFound, "No room "+data.RoomID)
			return
		}
		g.logger.Error("Failed to load room", "room", data.RoomID, "error", err)
		g.sendError(sess, ErrorCodeInternal, "Room unavailable")
		return
	}
	defer rm.mu.Unlock()

	if existing := rm.playerByName(data.Name); existing != nil {
		if sessionOf(existing) != nil {
			g.sendError(sess, ErrorCodeNameTaken, "Name already seated: "+data.Name)
			return
		}
		g.reconnect(rm, sess, existing)
		return
	}

	p := game.NewPlayer(ids.New(), data.Name, rm.buyIn)
	p.Session = sess
	if err := rm.table.Seat(p); err != nil {
		if errors.Is(err, game.ErrTableFull) {
			g.sendError(sess, ErrorCodeTableFull, "Room is full")
		} else {
			g.internalError(rm, sess, "seat", err)
		}
		if len(rm.table.Players()) == 0 {
			g.registry.release(rm)
		}
		return
	}
	g.bind(sess, rm.id, p.ID)

	rm.logger.Info("Player joined", "player", p.Name, "stack", p.Stack)
	sendMessage(sess, MessageTypeSeated, rm.seatedData(p), rm.logger)
	rm.broadcastExcept(p, MessageTypePlayerJoined, PlayerJoinedData{Name: p.Name, Stack: p.Stack})
}

// reconnect binds a new session to a seat held open after a disconnect
func (g *Gateway) reconnect(rm *room, sess Session, p *game.Player) {
	rm.stopTimer(p.ID)
	p.Session = sess
	g.bind(sess, rm.id, p.ID)

	rm.logger.Info("Player reconnected", "player", p.Name)
	data := rm.seatedData(p)
	data.Reconnected = true
	sendMessage(sess, MessageTypeSeated, data, rm.logger)
	if req, open := rm.table.NextRequiredBet(); open && req.Player == p {
		sendMessage(sess, MessageTypeActionRequired, ActionRequiredData{
			Player: p.Name,
			Amount: req.Amount,
			Stage:  rm.table.Stage().String(),
		}, rm.logger)
	}
}

func (g *Gateway) ready(sess Session) {
	rm, p, ok := g.seat(sess)
	if !ok {
		return
	}
	defer rm.mu.Unlock()

	if err := rm.table.SetReady(p.ID, true); err != nil {
		g.tableError(rm, sess, err)
		return
	}
	rm.broadcast(MessageTypePlayerReady, PlayerReadyData{Name: p.Name})
	g.advance(rm, sess)
}

func (g *Gateway) bet(sess Session, amount int) {
	rm, p, ok := g.seat(sess)
	if !ok {
		return
	}
	defer rm.mu.Unlock()

	if err := rm.table.PlaceBet(p.ID, amount); err != nil {
		g.tableError(rm, sess, err)
		return
	}
	g.advance(rm, sess)
}

func (g *Gateway) leave(sess Session) {
	rm, p, ok := g.seat(sess)
	if !ok {
		return
	}
	defer rm.mu.Unlock()

	g.unbind(sess)
	g.removeSeat(rm, p, leaveReasonLeft)
}

// Disconnect handles a closed session. A player in the running hand keeps
// the seat for the reconnect window; anyone else is removed at once.
func (g *Gateway) Disconnect(sess Session) {
	b, ok := g.binding(sess)
	if !ok {
		return
	}
	g.unbind(sess)

	rm := g.registry.lookup(b.roomID)
	if rm == nil {
		return
	}
	defer rm.mu.Unlock()

	p := rm.table.Player(b.playerID)
	if p == nil || p.Session != sess {
		return
	}
	p.Session = nil

	if !rm.table.InHand(p.ID) {
		g.removeSeat(rm, p, leaveReasonDisconnect)
		return
	}

	rm.logger.Info("Player disconnected mid-hand, holding seat", "player", p.Name, "timeout", g.reconnectTimeout)
	roomID, playerID := rm.id, p.ID
	rm.timers[p.ID] = g.clock.AfterFunc(g.reconnectTimeout, func() {
		g.expire(roomID, playerID)
	}, "gateway", "reconnect")
}

// expire removes a seat whose reconnect window ran out
func (g *Gateway) expire(roomID, playerID string) {
	rm := g.registry.lookup(roomID)
	if rm == nil {
		return
	}
	defer rm.mu.Unlock()

	if _, pending := rm.timers[playerID]; !pending {
		return
	}
	delete(rm.timers, playerID)
	p := rm.table.Player(playerID)
	if p == nil || p.Session != nil {
		return
	}
	rm.logger.Info("Reconnect window expired", "player", p.Name)
	g.removeSeat(rm, p, leaveReasonTimeout)
}

// removeSeat takes p off the table, folding them out of a running hand, and
// drops the room once it is empty. The caller holds rm.mu.
func (g *Gateway) removeSeat(rm *room, p *game.Player, reason string) {
	if !g.dropSeat(rm, p, reason) {
		return
	}
	if len(rm.table.Players()) == 0 {
		g.registry.release(rm)
		return
	}
	g.advance(rm, nil)
}

// dropSeat removes p and tells the room, including p's own session when it
// still has one. It reports whether the seat was removed.
func (g *Gateway) dropSeat(rm *room, p *game.Player, reason string) bool {
	sess := sessionOf(p)
	rm.stopTimer(p.ID)
	if err := rm.table.Remove(p.ID); err != nil {
		rm.logger.Error("Failed to remove player", "player", p.Name, "error", err)
		return false
	}
	p.Session = nil
	rm.logger.Info("Player left", "player", p.Name, "reason", reason)

	data := PlayerLeftData{Name: p.Name, Reason: reason}
	if sess != nil {
		g.unbind(sess)
		sendMessage(sess, MessageTypePlayerLeft, data, rm.logger)
	}
	rm.broadcast(MessageTypePlayerLeft, data)
	return true
}

// advance moves the table forward for as long as it allows. Between hands it
// clears out seats that can never ready up again, which may let the next hand
// start. Only invariant violations are reported, to sess when there is one.
func (g *Gateway) advance(rm *room, sess Session) {
	for {
		for rm.table.CanAdvance() == nil {
			if err := rm.table.Advance(); err != nil {
				rm.logger.Error("Failed to advance table", "stage", rm.table.Stage(), "error", err)
				if sess != nil {
					g.sendError(sess, ErrorCodeInternal, "The table could not continue")
				}
				return
			}
		}
		if rm.table.Stage() != game.StageHoleCardsPending || !g.sweep(rm) {
			return
		}
		if len(rm.table.Players()) == 0 {
			g.registry.release(rm)
			return
		}
	}
}

// sweep removes busted players and seats held for a disconnected player
// whose hand has ended. It reports whether anyone was removed.
func (g *Gateway) sweep(rm *room) bool {
	removed := false
	for _, p := range rm.table.Players() {
		switch {
		case p.Stack <= 0:
			removed = g.dropSeat(rm, p, leaveReasonBusted) || removed
		case sessionOf(p) == nil:
			removed = g.dropSeat(rm, p, leaveReasonDisconnect) || removed
		}
	}
	return removed
}

// seat resolves the session's room and player, locking the room. It reports
// not_joined to the session when there is none.
func (g *Gateway) seat(sess Session) (*room, *game.Player, bool) {
	b, ok := g.binding(sess)
	if !ok {
		g.sendError(sess, ErrorCodeNotJoined, "Join a room first")
		return nil, nil, false
	}
	rm := g.registry.lookup(b.roomID)
	if rm == nil {
		g.unbind(sess)
		g.sendError(sess, ErrorCodeNotJoined, "Join a room first")
		return nil, nil, false
	}
	p := rm.table.Player(b.playerID)
	if p == nil {
		rm.mu.Unlock()
		g.unbind(sess)
		g.sendError(sess, ErrorCodeNotJoined, "Join a room first")
		return nil, nil, false
	}
	return rm, p, true
}

func (g *Gateway) tableError(rm *room, sess Session, err error) {
	switch {
	case errors.Is(err, game.ErrNotYourTurn):
		g.sendError(sess, ErrorCodeNotYourTurn, err.Error())
	case errors.Is(err, game.ErrInsufficientFunds):
		g.sendError(sess, ErrorCodeInsufficientFunds, err.Error())
	case errors.Is(err, game.ErrHandInProgress):
		g.sendError(sess, ErrorCodeHandInProgress, "Wait for the current hand to finish")
	default:
		g.internalError(rm, sess, "table operation", err)
	}
}

func (g *Gateway) internalError(rm *room, sess Session, op string, err error) {
	rm.logger.Error("Room operation failed", "op", op, "error", err)
	g.sendError(sess, ErrorCodeInternal, fmt.Sprintf("%s failed", op))
}

func (g *Gateway) sendError(sess Session, code, message string) {
	sendMessage(sess, MessageTypeError, ErrorData{Code: code, Message: message}, g.logger)
}

func (g *Gateway) binding(sess Session) (binding, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	b, ok := g.bindings[sess]
	return b, ok
}

func (g *Gateway) bind(sess Session, roomID, playerID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.bindings[sess] = binding{roomID: roomID, playerID: playerID}
}

func (g *Gateway) unbind(sess Session) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.bindings, sess)
}
