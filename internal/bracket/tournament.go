package bracket

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type TournamentStatus string

const (
	TournamentActive    TournamentStatus = "active"
	TournamentCompleted TournamentStatus = "completed"
)

const DefaultTournamentName = "Knockout Tournament"

type Tournament struct {
	ID           uuid.UUID
	Name         string
	Status       TournamentStatus
	Rounds       int
	CurrentRound int
	Participants []Participant
	Bracket      *Bracket
	CreatedAt    time.Time
}

// BracketSize is the number of round 1 slots, always 2^Rounds.
func (t *Tournament) BracketSize() int {
	return 1 << t.Rounds
}

func (t *Tournament) Byes() int {
	return t.BracketSize() - len(t.Participants)
}

// Bracket owns the matches of a tournament in round, then order, sequence
// with an index from match ID to position.
type Bracket struct {
	matches []Match
	index   map[string]int
}

func NewBracket(matches []Match) (*Bracket, error) {
	b := &Bracket{
		matches: matches,
		index:   make(map[string]int, len(matches)),
	}
	for i, m := range matches {
		if _, exists := b.index[m.ID]; exists {
			return nil, fmt.Errorf("duplicate match id %s", m.ID)
		}
		b.index[m.ID] = i
	}
	return b, nil
}

func (b *Bracket) Len() int {
	return len(b.matches)
}

// Match returns the stored match so the owner can update it in place, or nil
// if the ID is unknown.
func (b *Bracket) Match(id string) *Match {
	i, ok := b.index[id]
	if !ok {
		return nil
	}
	return &b.matches[i]
}

// Matches returns a copy of every match.
func (b *Bracket) Matches() []Match {
	out := make([]Match, len(b.matches))
	copy(out, b.matches)
	return out
}

func (b *Bracket) Round(round int) []Match {
	var out []Match
	for _, m := range b.matches {
		if m.Round == round {
			out = append(out, m)
		}
	}
	return out
}

func RoundName(round, rounds int) string {
	switch round {
	case rounds:
		return "Final"
	case rounds - 1:
		return "Semi-Final"
	case rounds - 2:
		return "Quarter-Final"
	default:
		return fmt.Sprintf("Round %d", round)
	}
}
