package service

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/AdamBeresnev/knockout-fixture/internal/bracket"
	"github.com/AdamBeresnev/knockout-fixture/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParticipantInput_UnmarshalJSON(t *testing.T) {
	var inputs []ParticipantInput
	err := json.Unmarshal([]byte(`["Arsenal", {"name": "Chelsea"}, {"id": 7, "name": "Liverpool"}]`), &inputs)
	require.NoError(t, err)

	require.Len(t, inputs, 3)
	assert.Equal(t, ParticipantInput{Name: "Arsenal"}, inputs[0])
	assert.Equal(t, ParticipantInput{Name: "Chelsea"}, inputs[1])
	assert.Equal(t, ParticipantInput{ID: utils.Ptr(7), Name: "Liverpool"}, inputs[2])
}

func TestParticipantInput_UnmarshalJSON_Invalid(t *testing.T) {
	testCases := []struct {
		name string
		body string
	}{
		{name: "number", body: `[1, 2]`},
		{name: "fractional id", body: `[{"id": 1.5, "name": "A"}]`},
		{name: "nested array", body: `[["A"]]`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var inputs []ParticipantInput
			err := json.Unmarshal([]byte(tc.body), &inputs)
			assert.Error(t, err)
		})
	}
}

func TestParseParticipantLines(t *testing.T) {
	text := "Arsenal\r\n  Chelsea  \n\n# benched\nLiverpool\n   \n"

	inputs := ParseParticipantLines(text)

	assert.Equal(t, []ParticipantInput{
		{Name: "Arsenal"},
		{Name: "Chelsea"},
		{Name: "Liverpool"},
	}, inputs)
	assert.Nil(t, ParseParticipantLines("\n  \n"))
}

func TestNormalizeParticipants(t *testing.T) {
	testCases := []struct {
		name          string
		inputs        []ParticipantInput
		max           int
		expected      []bracket.Participant
		expectedError string
	}{
		{
			name:   "plain names get positional ids",
			inputs: []ParticipantInput{{Name: "A"}, {Name: "B"}, {Name: "C"}},
			max:    DefaultMaxParticipants,
			expected: []bracket.Participant{
				bracket.NewParticipant(1, "A"),
				bracket.NewParticipant(2, "B"),
				bracket.NewParticipant(3, "C"),
			},
		},
		{
			name:   "explicit ids are kept",
			inputs: []ParticipantInput{{ID: utils.Ptr(40), Name: "A"}, {Name: " B "}},
			max:    DefaultMaxParticipants,
			expected: []bracket.Participant{
				bracket.NewParticipant(40, "A"),
				bracket.NewParticipant(2, "B"),
			},
		},
		{
			name:          "missing list",
			inputs:        nil,
			expectedError: "participants are required",
		},
		{
			name:          "too few",
			inputs:        []ParticipantInput{{Name: "A"}},
			expectedError: "at least 2 participants are required",
		},
		{
			name:          "too many",
			inputs:        []ParticipantInput{{Name: "A"}, {Name: "B"}, {Name: "C"}},
			max:           2,
			expectedError: "maximum 2 participants allowed",
		},
		{
			name:          "blank name",
			inputs:        []ParticipantInput{{Name: "A"}, {Name: "   "}},
			expectedError: "participant 2 has no name",
		},
		{
			name:          "name too long",
			inputs:        []ParticipantInput{{Name: "A"}, {Name: strings.Repeat("x", MaxNameLength+1)}},
			expectedError: "exceeds 50 characters",
		},
		{
			name:          "non-positive id",
			inputs:        []ParticipantInput{{ID: utils.Ptr(0), Name: "A"}, {Name: "B"}},
			expectedError: "non-positive id",
		},
		{
			name:          "duplicate id",
			inputs:        []ParticipantInput{{Name: "A"}, {ID: utils.Ptr(1), Name: "B"}},
			expectedError: "duplicate participant id 1",
		},
		{
			name:          "duplicate name ignoring case",
			inputs:        []ParticipantInput{{Name: "Arsenal"}, {Name: "ARSENAL "}},
			expectedError: "duplicate participant name",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			participants, err := NormalizeParticipants(tc.inputs, tc.max)

			if tc.expectedError != "" {
				require.Error(t, err)
				assert.ErrorIs(t, err, bracket.ErrInvalidInput)
				assert.Contains(t, err.Error(), tc.expectedError)
				assert.Nil(t, participants)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, participants)
		})
	}
}

func TestNormalizeParticipants_MultibyteNames(t *testing.T) {
	name := strings.Repeat("é", MaxNameLength)

	participants, err := NormalizeParticipants([]ParticipantInput{{Name: name}, {Name: "B"}}, 0)
	require.NoError(t, err)
	assert.Equal(t, name, participants[0].Name)
}

func TestNormalizeTournamentName(t *testing.T) {
	name, err := NormalizeTournamentName("")
	require.NoError(t, err)
	assert.Equal(t, bracket.DefaultTournamentName, name)

	name, err = NormalizeTournamentName("  Spring Cup ")
	require.NoError(t, err)
	assert.Equal(t, "Spring Cup", name)

	_, err = NormalizeTournamentName("ab")
	assert.ErrorIs(t, err, bracket.ErrInvalidInput)

	_, err = NormalizeTournamentName(strings.Repeat("x", MaxTournamentName+1))
	assert.ErrorIs(t, err, bracket.ErrInvalidInput)
}
