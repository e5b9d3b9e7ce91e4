// Package render turns a built tournament into the shapes its consumers need:
// a serialisable view for JSON and YAML, a spreadsheet, a PDF sheet and
// terminal text.
package render

import (
	"encoding/json"
	"io"
	"time"

	"github.com/AdamBeresnev/knockout-fixture/internal/bracket"
	"gopkg.in/yaml.v3"
)

type ParticipantView struct {
	ID   int    `json:"id,omitempty" yaml:"id,omitempty"`
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
	Bye  bool   `json:"bye,omitempty" yaml:"bye,omitempty"`
}

type MatchView struct {
	MatchID      string           `json:"matchId" yaml:"matchId"`
	Round        int              `json:"round" yaml:"round"`
	RoundName    string           `json:"roundName" yaml:"roundName"`
	Position     int              `json:"position,omitempty" yaml:"position,omitempty"`
	Participant1 *ParticipantView `json:"participant1" yaml:"participant1"`
	Participant2 *ParticipantView `json:"participant2" yaml:"participant2"`
	Winner       *ParticipantView `json:"winner" yaml:"winner"`
	WinnerSlot   int              `json:"winnerSlot" yaml:"winnerSlot"`
	NextMatchID  *string          `json:"nextMatchId" yaml:"nextMatchId"`
	Status       string           `json:"status" yaml:"status"`
}

type TournamentView struct {
	ID               string            `json:"id" yaml:"id"`
	Name             string            `json:"name" yaml:"name"`
	Status           string            `json:"status" yaml:"status"`
	Rounds           int               `json:"rounds" yaml:"rounds"`
	CurrentRound     int               `json:"currentRound" yaml:"currentRound"`
	ParticipantCount int               `json:"participantCount" yaml:"participantCount"`
	BracketSize      int               `json:"bracketSize" yaml:"bracketSize"`
	Byes             int               `json:"byes" yaml:"byes"`
	CreatedAt        string            `json:"createdAt" yaml:"createdAt"`
	Participants     []ParticipantView `json:"participants" yaml:"participants"`
	Bracket          []MatchView       `json:"bracket" yaml:"bracket"`
}

func NewView(t *bracket.Tournament) TournamentView {
	view := TournamentView{
		ID:               t.ID.String(),
		Name:             t.Name,
		Status:           string(t.Status),
		Rounds:           t.Rounds,
		CurrentRound:     t.CurrentRound,
		ParticipantCount: len(t.Participants),
		BracketSize:      t.BracketSize(),
		Byes:             t.Byes(),
		CreatedAt:        t.CreatedAt.UTC().Format(time.RFC3339),
		Participants:     make([]ParticipantView, 0, len(t.Participants)),
		Bracket:          make([]MatchView, 0, t.Bracket.Len()),
	}

	for _, p := range t.Participants {
		view.Participants = append(view.Participants, *participantView(&p))
	}

	for _, m := range t.Bracket.Matches() {
		mv := MatchView{
			MatchID:      m.ID,
			Round:        m.Round,
			RoundName:    bracket.RoundName(m.Round, t.Rounds),
			Position:     m.Position,
			Participant1: participantView(m.Participant1),
			Participant2: participantView(m.Participant2),
			Winner:       participantView(m.WinnerParticipant()),
			WinnerSlot:   int(m.Winner),
			Status:       string(m.Status),
		}
		if m.NextMatchID != "" {
			next := m.NextMatchID
			mv.NextMatchID = &next
		}
		view.Bracket = append(view.Bracket, mv)
	}

	return view
}

func participantView(p *bracket.Participant) *ParticipantView {
	if p == nil {
		return nil
	}
	if p.IsBye() {
		return &ParticipantView{Bye: true}
	}
	return &ParticipantView{ID: p.ID, Name: p.Name}
}

func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func WriteYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
