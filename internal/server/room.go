package server

import (
	"sync"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/pokerrooms/internal/deck"
	"github.com/lox/pokerrooms/internal/game"
	"github.com/lox/pokerrooms/internal/store"
)

// Session is one client connection as seen by the gateway
type Session interface {
	Send(msg *Message) error
}

// room pairs a table with its metadata. mu is held for the whole of every
// operation on the room.
type room struct {
	mu     sync.Mutex
	id     string
	name   string
	buyIn  int
	table  *game.Table
	logger *log.Logger

	// reconnect timers for seats whose session dropped mid-hand
	timers map[string]*quartz.Timer
	// set once the registry has dropped the room; callers must look it up again
	closed bool
}

func newRoom(rec store.Room, logger *log.Logger) *room {
	return &room{
		id:     rec.ID,
		name:   rec.Name,
		buyIn:  rec.BuyIn,
		logger: logger.With("room", rec.ID),
		timers: make(map[string]*quartz.Timer),
	}
}

// OnEvent fans table events out to the seated sessions. It runs on the
// goroutine holding mu.
func (r *room) OnEvent(event game.GameEvent) {
	switch e := event.(type) {
	case game.HandStartedEvent:
		r.broadcast(MessageTypeHandStarted, HandStartedData{
			HandNumber: e.HandNumber,
			Players:    playerNames(e.Players),
		})
	case game.HoleCardsDealtEvent:
		r.sendTo(e.Player, MessageTypeDealt, DealtData{HoleCards: deck.CardStrings(e.Cards)})
	case game.CommunityDealtEvent:
		r.broadcast(MessageTypeCommunityDealt, CommunityDealtData{
			Stage: e.Stage.String(),
			Cards: deck.CardStrings(e.Cards),
			Board: deck.CardStrings(e.Board),
		})
	case game.BetAcceptedEvent:
		data := BetAcceptedData{
			Player:     e.Player.Name,
			Amount:     e.Amount,
			Folded:     e.Folded,
			NextAmount: e.NextAmount,
			Pot:        e.Pot,
		}
		if e.Next != nil {
			data.NextPlayer = e.Next.Name
		}
		r.broadcast(MessageTypeBetAccepted, data)
	case game.ActionRequiredEvent:
		r.broadcast(MessageTypeActionRequired, ActionRequiredData{
			Player: e.Player.Name,
			Amount: e.Amount,
			Stage:  e.Stage.String(),
		})
	case game.ShowdownEvent:
		data := ShowdownData{
			HandNumber:  e.HandNumber,
			Board:       deck.CardStrings(e.Board),
			Pot:         e.Pot,
			Uncontested: e.Uncontested,
			Standings:   make([]StandingData, 0, len(e.Standings)),
		}
		for _, s := range e.Standings {
			name := s.PlayerID
			if p := r.table.Player(s.PlayerID); p != nil {
				name = p.Name
			}
			data.Standings = append(data.Standings, StandingData{
				Player:      name,
				Place:       s.Place,
				Description: s.Description,
				Cards:       deck.CardStrings(s.Cards),
			})
		}
		r.broadcast(MessageTypeShowdown, data)
	case game.HandResetEvent:
		r.broadcast(MessageTypeHandReset, HandResetData{
			HandNumber: e.HandNumber,
			Players:    playerNames(e.Players),
		})
	}
}

func (r *room) broadcast(mt MessageType, data any) {
	msg, err := NewMessage(mt, data)
	if err != nil {
		r.logger.Error("Failed to encode message", "type", mt, "error", err)
		return
	}
	count := 0
	for _, p := range r.table.Players() {
		if sess := sessionOf(p); sess != nil {
			if err := sess.Send(msg); err != nil {
				r.logger.Debug("Failed to send message", "player", p.Name, "type", mt, "error", err)
				continue
			}
			count++
		}
	}
	r.logger.Debug("Broadcasted message", "type", mt, "recipients", count)
}

// broadcastExcept sends to every seated session but skip
func (r *room) broadcastExcept(skip *game.Player, mt MessageType, data any) {
	msg, err := NewMessage(mt, data)
	if err != nil {
		r.logger.Error("Failed to encode message", "type", mt, "error", err)
		return
	}
	for _, p := range r.table.Players() {
		if p == skip {
			continue
		}
		if sess := sessionOf(p); sess != nil {
			_ = sess.Send(msg)
		}
	}
}

func (r *room) sendTo(p *game.Player, mt MessageType, data any) {
	sess := sessionOf(p)
	if sess == nil {
		return
	}
	sendMessage(sess, mt, data, r.logger)
}

// seatedData describes the room to the player who just sat down
func (r *room) seatedData(p *game.Player) SeatedData {
	snap := r.table.Snapshot()
	data := SeatedData{
		RoomID:     r.id,
		RoomName:   r.name,
		PlayerID:   p.ID,
		BuyIn:      r.buyIn,
		Stage:      snap.Stage,
		HandNumber: snap.HandNumber,
		Pot:        snap.Pot,
		Board:      snap.Board,
		Players:    make([]PlayerState, 0, len(snap.Players)),
		HoleCards:  p.HoleCards(),
		NextPlayer: snap.NextPlayer,
		NextAmount: snap.NextAmount,
	}
	for _, ps := range snap.Players {
		data.Players = append(data.Players, PlayerState{
			Name:      ps.Name,
			Stack:     ps.Stack,
			Ready:     ps.Ready,
			InHand:    ps.InHand,
			Committed: ps.Committed,
		})
	}
	return data
}

func (r *room) playerByName(name string) *game.Player {
	for _, p := range r.table.Players() {
		if p.Name == name {
			return p
		}
	}
	return nil
}

func (r *room) stopTimer(playerID string) {
	if t, ok := r.timers[playerID]; ok {
		t.Stop()
		delete(r.timers, playerID)
	}
}

func sessionOf(p *game.Player) Session {
	if p == nil {
		return nil
	}
	sess, _ := p.Session.(Session)
	return sess
}

func playerNames(players []*game.Player) []string {
	names := make([]string, len(players))
	for i, p := range players {
		names[i] = p.Name
	}
	return names
}

func sendMessage(sess Session, mt MessageType, data any, logger *log.Logger) {
	msg, err := NewMessage(mt, data)
	if err != nil {
		logger.Error("Failed to encode message", "type", mt, "error", err)
		return
	}
	if err := sess.Send(msg); err != nil {
		logger.Debug("Failed to send message", "type", mt, "error", err)
	}
}
