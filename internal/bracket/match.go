package bracket

import "fmt"

type MatchStatus string

const (
	MatchPending   MatchStatus = "pending"
	MatchCompleted MatchStatus = "completed"
)

// Slot identifies a side of a match. NoSlot means no winner yet.
type Slot int

const (
	NoSlot Slot = iota
	Slot1
	Slot2
)

type Match struct {
	ID string

	// Position in the bracket for reconstructing the view
	Round int
	Order int
	// First bracket slot (1-indexed) feeding this match, round 1 only
	Position int

	Participant1 *Participant
	Participant2 *Participant

	Winner Slot
	Status MatchStatus

	// Empty for the final
	NextMatchID string
}

// MatchID names the match by round and order, e.g. R2M3.
func MatchID(round, order int) string {
	return fmt.Sprintf("R%dM%d", round, order)
}

// NextMatchID is the match the winner of (round, order) advances into, or ""
// when round is the last one.
func NextMatchID(round, order, rounds int) string {
	if round >= rounds {
		return ""
	}
	return MatchID(round+1, (order+1)/2)
}

func (m *Match) Participant(slot Slot) *Participant {
	switch slot {
	case Slot1:
		return m.Participant1
	case Slot2:
		return m.Participant2
	default:
		return nil
	}
}

func (m *Match) WinnerParticipant() *Participant {
	if m.Status != MatchCompleted {
		return nil
	}
	return m.Participant(m.Winner)
}

func (m *Match) IsWinner(slot Slot) bool {
	return m.Status == MatchCompleted && m.Winner != NoSlot && m.Winner == slot
}

func (m *Match) IsLoser(slot Slot) bool {
	return m.Status == MatchCompleted && m.Winner != NoSlot && m.Winner != slot
}

// IsBye reports whether exactly one side is a bye.
func (m *Match) IsBye() bool {
	bye1 := m.Participant1 != nil && m.Participant1.IsBye()
	bye2 := m.Participant2 != nil && m.Participant2.IsBye()
	return bye1 != bye2
}

// EmptySlot returns the first unfilled side, or NoSlot when both are set.
func (m *Match) EmptySlot() Slot {
	if m.Participant1 == nil {
		return Slot1
	}
	if m.Participant2 == nil {
		return Slot2
	}
	return NoSlot
}

func (m *Match) SetParticipant(slot Slot, p *Participant) {
	switch slot {
	case Slot1:
		m.Participant1 = p
	case Slot2:
		m.Participant2 = p
	}
}
