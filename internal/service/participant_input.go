package service

import (
	"encoding/json"
	"strings"

	"github.com/AdamBeresnev/knockout-fixture/internal/bracket"
	"github.com/AdamBeresnev/knockout-fixture/internal/utils"
)

const (
	DefaultMaxParticipants = 128
	MaxNameLength          = 50
	MinTournamentName      = 3
	MaxTournamentName      = 100
	MaxPDFTitle            = 100
)

// ParticipantInput is one entry as callers send it: either a bare name or an
// object with a name and an optional positive id.
type ParticipantInput struct {
	ID   *int   `json:"id,omitempty" yaml:"id,omitempty" validate:"omitempty,gt=0"`
	Name string `json:"name" yaml:"name" validate:"required,max=50"`
}

func (p *ParticipantInput) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		*p = ParticipantInput{Name: name}
		return nil
	}

	type plain ParticipantInput
	var obj plain
	if err := json.Unmarshal(data, &obj); err != nil {
		return bracket.InvalidInput("participant must be a name or an object with a name")
	}
	*p = ParticipantInput(obj)
	return nil
}

// ParseParticipantLines reads one participant per line. Blank lines and lines
// starting with # are skipped.
func ParseParticipantLines(text string) []ParticipantInput {
	var inputs []ParticipantInput

	for _, line := range strings.Split(text, "\n") {
		name := utils.StringOrNil(line)
		if name == nil || strings.HasPrefix(*name, "#") {
			continue
		}
		inputs = append(inputs, ParticipantInput{Name: *name})
	}

	return inputs
}

// NormalizeParticipants validates inputs and turns them into participants in
// the same order. Missing ids default to the 1-based input position.
func NormalizeParticipants(inputs []ParticipantInput, maxParticipants int) ([]bracket.Participant, error) {
	req, err := NormalizeRequest(FixtureRequest{Participants: inputs, MaxParticipants: maxParticipants})
	if err != nil {
		return nil, err
	}

	participants := make([]bracket.Participant, len(req.Participants))
	for i, input := range req.Participants {
		participants[i] = bracket.NewParticipant(input.id(i), input.Name)
	}
	return participants, nil
}

// NormalizeTournamentName trims the name and falls back to the default when
// none was given.
func NormalizeTournamentName(name string) (string, error) {
	trimmed := utils.StringOrNil(name)
	if trimmed == nil {
		return bracket.DefaultTournamentName, nil
	}
	if err := validate.Var(*trimmed, tournamentNameRule); err != nil {
		return "", tournamentNameError()
	}
	return *trimmed, nil
}

// NormalizePDFTitle trims a PDF title override. An empty result means the
// tournament name is used.
func NormalizePDFTitle(title string) (string, error) {
	trimmed := strings.TrimSpace(title)
	if err := validate.Var(trimmed, pdfTitleRule); err != nil {
		return "", pdfTitleError()
	}
	return trimmed, nil
}

// id is the participant id, defaulting to the 1-based position.
func (p ParticipantInput) id(index int) int {
	if p.ID == nil {
		return index + 1
	}
	return utils.OrZero(p.ID)
}
