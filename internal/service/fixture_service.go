package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/AdamBeresnev/knockout-fixture/internal/bracket"
	"github.com/AdamBeresnev/knockout-fixture/internal/seeding"
	"github.com/google/uuid"
)

// FixtureRecorder receives one call per fixture request. Implemented by the
// metrics package.
type FixtureRecorder interface {
	FixtureBuilt(participants, byes, rounds int)
	FixtureRejected()
}

type FixtureService struct {
	logger          *slog.Logger
	recorder        FixtureRecorder
	maxParticipants int
	now             func() time.Time
}

// NewFixtureService builds a service. A nil logger uses slog.Default, a nil
// recorder records nothing and maxParticipants <= 0 means no upper bound.
func NewFixtureService(logger *slog.Logger, recorder FixtureRecorder, maxParticipants int) *FixtureService {
	if logger == nil {
		logger = slog.Default()
	}
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &FixtureService{
		logger:          logger,
		recorder:        recorder,
		maxParticipants: maxParticipants,
		now:             time.Now,
	}
}

// CreateFixture validates raw caller input and builds the tournament from it.
func (s *FixtureService) CreateFixture(ctx context.Context, name string, inputs []ParticipantInput) (*bracket.Tournament, error) {
	tournamentName, err := NormalizeTournamentName(name)
	if err != nil {
		s.reject(ctx, err)
		return nil, err
	}

	participants, err := NormalizeParticipants(inputs, s.maxParticipants)
	if err != nil {
		s.reject(ctx, err)
		return nil, err
	}

	return s.BuildFixture(ctx, tournamentName, participants)
}

// BuildFixture turns an ordered participant list into a complete single
// elimination bracket. Round 1 matches decided by a bye are completed and their
// winner already sits in the round 2 match.
func (s *FixtureService) BuildFixture(ctx context.Context, name string, participants []bracket.Participant) (*bracket.Tournament, error) {
	if err := checkParticipants(participants); err != nil {
		s.reject(ctx, err)
		return nil, err
	}

	slots, err := seeding.Arrange(participants)
	if err != nil {
		s.reject(ctx, err)
		return nil, err
	}
	rounds := seeding.Rounds(len(participants))

	matches := createFirstRoundMatches(slots, rounds)
	matches = append(matches, createSubsequentRounds(rounds)...)

	b, err := bracket.NewBracket(matches)
	if err != nil {
		return nil, err
	}
	if err := propagateByes(b); err != nil {
		return nil, err
	}

	if strings.TrimSpace(name) == "" {
		name = bracket.DefaultTournamentName
	}

	tournament := &bracket.Tournament{
		ID:           newTournamentID(),
		Name:         name,
		Status:       bracket.TournamentActive,
		Rounds:       rounds,
		CurrentRound: 1,
		Participants: append([]bracket.Participant(nil), participants...),
		Bracket:      b,
		CreatedAt:    s.now().UTC(),
	}

	s.logger.InfoContext(ctx, "fixture built",
		"tournament_id", tournament.ID,
		"participants", len(participants),
		"bracket_size", tournament.BracketSize(),
		"byes", tournament.Byes(),
		"rounds", rounds,
	)
	s.recorder.FixtureBuilt(len(participants), tournament.Byes(), rounds)

	return tournament, nil
}

func (s *FixtureService) reject(ctx context.Context, err error) {
	s.logger.DebugContext(ctx, "fixture rejected", "error", err)
	s.recorder.FixtureRejected()
}

func checkParticipants(participants []bracket.Participant) error {
	if participants == nil {
		return bracket.InvalidInput("participants are required")
	}
	if len(participants) < 2 {
		return bracket.InvalidInput("at least 2 participants are required")
	}
	for i, p := range participants {
		if !p.IsReal() {
			return bracket.InvalidInput("participant %d is a bye", i+1)
		}
		if strings.TrimSpace(p.Name) == "" {
			return bracket.InvalidInput("participant %d has no name", i+1)
		}
	}
	return nil
}

// Pairs slots (1,2), (3,4), ... and settles every match where one side is a bye
func createFirstRoundMatches(slots []bracket.Participant, rounds int) []bracket.Match {
	matches := make([]bracket.Match, 0, len(slots)-1)

	for i := 0; i < len(slots); i += 2 {
		order := i/2 + 1
		p1 := slots[i]
		p2 := slots[i+1]

		m := bracket.Match{
			ID:           bracket.MatchID(1, order),
			Round:        1,
			Order:        order,
			Position:     i + 1,
			Participant1: &p1,
			Participant2: &p2,
			Status:       bracket.MatchPending,
			NextMatchID:  bracket.NextMatchID(1, order, rounds),
		}

		// Check for byes immediately
		if p1.IsReal() && p2.IsBye() {
			m.Winner = bracket.Slot1
			m.Status = bracket.MatchCompleted
		} else if p1.IsBye() && p2.IsReal() {
			m.Winner = bracket.Slot2
			m.Status = bracket.MatchCompleted
		}

		matches = append(matches, m)
	}

	return matches
}

// Empty matches for rounds 2..rounds, waiting on the winners below them
func createSubsequentRounds(rounds int) []bracket.Match {
	var matches []bracket.Match

	for r := 2; r <= rounds; r++ {
		matchesInRound := 1 << (rounds - r)
		for order := 1; order <= matchesInRound; order++ {
			matches = append(matches, bracket.Match{
				ID:          bracket.MatchID(r, order),
				Round:       r,
				Order:       order,
				Status:      bracket.MatchPending,
				NextMatchID: bracket.NextMatchID(r, order, rounds),
			})
		}
	}

	return matches
}

// Moves every bye winner into the first free slot of its round 2 match.
// Byes only exist in round 1 so one pass is enough.
func propagateByes(b *bracket.Bracket) error {
	for _, m := range b.Round(1) {
		if !m.IsBye() {
			continue
		}

		winner := m.WinnerParticipant()
		next := b.Match(m.NextMatchID)
		if winner == nil || next == nil {
			continue
		}

		slot := next.EmptySlot()
		if slot == bracket.NoSlot {
			return fmt.Errorf("match %s has no free slot for the winner of %s", next.ID, m.ID)
		}

		advanced := *winner
		next.SetParticipant(slot, &advanced)
	}
	return nil
}

// UUIDv7 is a millisecond timestamp followed by random bits
func newTournamentID() uuid.UUID {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New()
	}
	return id
}

type nopRecorder struct{}

func (nopRecorder) FixtureBuilt(int, int, int) {}
func (nopRecorder) FixtureRejected()           {}
