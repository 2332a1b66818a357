package evaluator

import (
	"fmt"
	"sort"

	"github.com/lox/pokerrooms/internal/deck"
	"github.com/lox/pokerrooms/internal/game"
)

// Resolver ranks showdown hands for a table. It satisfies
// game.ShowdownResolver.
type Resolver struct{}

// NewResolver creates a showdown resolver
func NewResolver() *Resolver {
	return &Resolver{}
}

var _ game.ShowdownResolver = (*Resolver)(nil)

// Resolve scores each contender's hole cards with the board and returns
// standings best first. Equal scores share a place and the following place
// is skipped, so two players tied for first are followed by third.
func (r *Resolver) Resolve(board []deck.Card, contenders []game.Contender) ([]game.Standing, error) {
	standings := make([]game.Standing, 0, len(contenders))
	for _, c := range contenders {
		full, err := c.Hand.With(board...)
		if err != nil {
			return nil, fmt.Errorf("showdown hand for %s: %w", c.PlayerID, err)
		}
		cards := full.Cards()
		score, err := Evaluate(cards)
		if err != nil {
			return nil, fmt.Errorf("showdown hand for %s: %w", c.PlayerID, err)
		}
		standings = append(standings, game.Standing{
			PlayerID:    c.PlayerID,
			Score:       int(score),
			Description: Describe(cards),
			Cards:       cards,
		})
	}

	sort.SliceStable(standings, func(i, j int) bool {
		return standings[i].Score > standings[j].Score
	})
	for i := range standings {
		if i > 0 && standings[i].Score == standings[i-1].Score {
			standings[i].Place = standings[i-1].Place
		} else {
			standings[i].Place = i + 1
		}
	}
	return standings, nil
}
