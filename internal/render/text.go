package render

import (
	"fmt"
	"strings"

	"github.com/AdamBeresnev/knockout-fixture/internal/bracket"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	roundStyle   = lipgloss.NewStyle().Bold(true).Underline(true)
	idStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Width(7)
	winnerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// Text lists the bracket round by round for a terminal.
func Text(t *bracket.Tournament) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render(t.Name))
	fmt.Fprintf(&sb, "\n%d participants, bracket of %d, %d byes, %d rounds\n",
		len(t.Participants), t.BracketSize(), t.Byes(), t.Rounds)

	for r := 1; r <= t.Rounds; r++ {
		sb.WriteString("\n")
		sb.WriteString(roundStyle.Render(bracket.RoundName(r, t.Rounds)))
		sb.WriteString("\n")

		for _, m := range t.Bracket.Round(r) {
			sb.WriteString("  ")
			sb.WriteString(idStyle.Render(m.ID))
			sb.WriteString(" ")
			sb.WriteString(textSide(m, bracket.Slot1))
			sb.WriteString(" vs ")
			sb.WriteString(textSide(m, bracket.Slot2))

			if m.IsBye() {
				sb.WriteString(pendingStyle.Render(" (bye)"))
			}
			if m.NextMatchID != "" {
				sb.WriteString(pendingStyle.Render(" -> " + m.NextMatchID))
			}
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

func textSide(m bracket.Match, slot bracket.Slot) string {
	label := slotLabel(m.Participant(slot))
	if m.IsWinner(slot) {
		return winnerStyle.Render(label)
	}
	return label
}
