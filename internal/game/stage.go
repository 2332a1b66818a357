package game

// Stage is the table's position in the street sequence
type Stage int

const (
	// StageHoleCardsPending is the ready-up state between hands
	StageHoleCardsPending Stage = iota
	// StageHoleCards is the pre-flop street, after hole cards are dealt
	StageHoleCards
	StageFlop
	StageTurn
	StageRiver
)

func (s Stage) String() string {
	switch s {
	case StageHoleCardsPending:
		return "holeCardsPending"
	case StageHoleCards:
		return "holeCards"
	case StageFlop:
		return "flop"
	case StageTurn:
		return "turn"
	case StageRiver:
		return "river"
	default:
		return "unknown"
	}
}

// communityCardsFor returns how many board cards are dealt on entering s
func communityCardsFor(s Stage) int {
	switch s {
	case StageFlop:
		return 3
	case StageTurn, StageRiver:
		return 1
	default:
		return 0
	}
}
