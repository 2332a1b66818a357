package game

import "errors"

var (
	// ErrInsufficientFunds is returned when a bet exceeds the player's stack
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrNotYourTurn is returned when a player bets out of turn or while the
	// table is readying up
	ErrNotYourTurn = errors.New("not your turn")
	// ErrStreetNotClosed is returned by Advance while players still owe a bet
	ErrStreetNotClosed = errors.New("street not closed")
	// ErrPlayerNotFound is returned when a player is not seated or not in the
	// active ledger
	ErrPlayerNotFound = errors.New("player not found")
	// ErrNotEnoughPlayers is returned by Advance before the minimum number of
	// players is seated
	ErrNotEnoughPlayers = errors.New("not enough players")
	// ErrPlayersNotReady is returned by Advance while a seated player has not
	// readied up
	ErrPlayersNotReady = errors.New("players not ready")
	// ErrTableFull is returned when seating beyond the maximum
	ErrTableFull = errors.New("table is full")
	// ErrAlreadySeated is returned when a player id is seated twice
	ErrAlreadySeated = errors.New("player already seated")
	// ErrHandInProgress is returned when readying up while a hand is played
	ErrHandInProgress = errors.New("hand in progress")
)
