// Package game implements the per-room Texas Hold'em state machine.
//
// A Table owns the deck, the board, the seating order and one Ledger per
// betting street. Callers drive it with Seat, SetReady, PlaceBet and Advance
// and observe it through events published on its EventBus:
//
//	t := game.NewTable("42", nil, game.DefaultConfig(),
//	    game.WithEventBus(bus),
//	    game.WithDeckSaver(writer))
//	_ = t.Seat(game.NewPlayer("p1", "alice", 100))
//	_ = t.Seat(game.NewPlayer("p2", "bob", 100))
//	_ = t.SetReady("p1", true)
//	_ = t.SetReady("p2", true)
//	err := t.Advance() // deals hole cards
//
// # Streets
//
// Stages run holeCardsPending, holeCards, flop, turn, river and back to
// holeCardsPending. Advance only moves forward once CanAdvance returns nil:
// between hands that needs enough seated players who are all ready, during a
// hand it needs the active ledger to report the street closed.
//
// Seating rotates by one at every reset so the first player to act changes
// from hand to hand. Each reset also starts from a freshly shuffled deck.
//
// # Showdown
//
// Winner determination is delegated to a ShowdownResolver. The table reports
// standings on the ShowdownEvent and never moves chips out of the pot.
package game
