package service

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/AdamBeresnev/knockout-fixture/internal/bracket"
	"github.com/go-playground/validator/v10"
)

const (
	tournamentNameRule = "min=3,max=100"
	pdfTitleRule       = "omitempty,max=100"

	tagMaxCount = "maxcount"
	tagUnique   = "unique"
)

var validate = newValidator()

// FixtureRequest is everything a caller supplies for one tournament. The
// participant limit travels with the request so the struct level check can
// enforce it.
type FixtureRequest struct {
	Name            string             `validate:"omitempty,min=3,max=100"`
	Participants    []ParticipantInput `validate:"required,min=2,dive"`
	MaxParticipants int                `validate:"-"`
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterStructValidation(validateFixtureRequest, FixtureRequest{})
	return v
}

// NormalizeRequest trims every name in req and validates the result. Errors
// wrap bracket.ErrInvalidInput and name the first offending field.
func NormalizeRequest(req FixtureRequest) (FixtureRequest, error) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Participants != nil {
		trimmed := make([]ParticipantInput, len(req.Participants))
		for i, p := range req.Participants {
			trimmed[i] = ParticipantInput{ID: p.ID, Name: strings.TrimSpace(p.Name)}
		}
		req.Participants = trimmed
	}

	if err := validate.Struct(req); err != nil {
		return req, invalidInput(err)
	}
	return req, nil
}

// validateFixtureRequest covers the rules tags cannot express: the configured
// participant limit and uniqueness of ids and case-folded names.
func validateFixtureRequest(sl validator.StructLevel) {
	req := sl.Current().Interface().(FixtureRequest)

	if req.MaxParticipants > 0 && len(req.Participants) > req.MaxParticipants {
		sl.ReportError(req.Participants, "Participants", "Participants", tagMaxCount, strconv.Itoa(req.MaxParticipants))
		return
	}

	seenIDs := make(map[int]bool, len(req.Participants))
	seenNames := make(map[string]bool, len(req.Participants))
	for i, p := range req.Participants {
		field := fmt.Sprintf("Participants[%d]", i)

		id := p.id(i)
		if seenIDs[id] {
			sl.ReportError(id, field+".ID", "ID", tagUnique, "")
		}
		seenIDs[id] = true

		key := strings.ToLower(p.Name)
		if key != "" && seenNames[key] {
			sl.ReportError(p.Name, field+".Name", "Name", tagUnique, "")
		}
		seenNames[key] = true
	}
}

// invalidInput maps the first validation failure to a caller-facing message.
func invalidInput(err error) error {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return fmt.Errorf("validate request: %w", err)
	}

	fe := errs[0]
	field, index := fieldPath(fe.Namespace())

	switch {
	case field == "Participants":
		switch fe.Tag() {
		case "required":
			return bracket.InvalidInput("participants are required")
		case "min":
			return bracket.InvalidInput("at least %s participants are required", fe.Param())
		case tagMaxCount:
			return bracket.InvalidInput("maximum %s participants allowed", fe.Param())
		}
	case field == "Name" && index < 0:
		return tournamentNameError()
	case field == "Name":
		switch fe.Tag() {
		case "required":
			return bracket.InvalidInput("participant %d has no name", index+1)
		case "max":
			return bracket.InvalidInput("participant name %q exceeds %s characters", fe.Value(), fe.Param())
		case tagUnique:
			return bracket.InvalidInput("duplicate participant name %q", fe.Value())
		}
	case field == "ID":
		switch fe.Tag() {
		case "gt":
			return bracket.InvalidInput("participant %d has a non-positive id", index+1)
		case tagUnique:
			return bracket.InvalidInput("duplicate participant id %v", fe.Value())
		}
	}

	return bracket.InvalidInput("%s failed on %s", fe.Namespace(), fe.Tag())
}

// fieldPath splits a namespace such as FixtureRequest.Participants[3].Name into
// its last field and the participant index, or -1 outside the list.
func fieldPath(namespace string) (string, int) {
	field := namespace[strings.LastIndex(namespace, ".")+1:]

	open := strings.Index(namespace, "[")
	end := strings.Index(namespace, "]")
	if open < 0 || end < open {
		return field, -1
	}
	index, err := strconv.Atoi(namespace[open+1 : end])
	if err != nil {
		return field, -1
	}
	return field, index
}

func tournamentNameError() error {
	return bracket.InvalidInput("tournament name must be between %d and %d characters", MinTournamentName, MaxTournamentName)
}

func pdfTitleError() error {
	return bracket.InvalidInput("pdf title must be between 1 and %d characters", MaxPDFTitle)
}
