package views

import (
	"github.com/AdamBeresnev/knockout-fixture/internal/bracket"
)

type FormData struct {
	Name            string
	Participants    string
	Error           string
	MaxParticipants int
}

var matchSlots = []bracket.Slot{bracket.Slot1, bracket.Slot2}

func slotName(m bracket.Match, slot bracket.Slot) string {
	p := m.Participant(slot)
	if p == nil {
		return "TBD"
	}
	return p.String()
}

// CSS class for one side of a match box
func slotClass(m bracket.Match, slot bracket.Slot) string {
	p := m.Participant(slot)
	switch {
	case m.IsWinner(slot):
		return "slot winner"
	case p == nil:
		return "slot tbd"
	case p.IsBye():
		return "slot bye"
	default:
		return "slot"
	}
}
