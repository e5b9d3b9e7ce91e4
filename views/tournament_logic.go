package views

import (
	"sort"

	"github.com/AdamBeresnev/knockout-fixture/internal/bracket"
)

// BracketData is a tournament laid out for the bracket page: one column per
// round, matches top to bottom.
type BracketData struct {
	Tournament *bracket.Tournament
	Rounds     map[int][]bracket.Match
	RoundNums  []int
}

func PrepareBracketData(t *bracket.Tournament) BracketData {
	rounds := make(map[int][]bracket.Match)
	var roundNums []int

	for _, m := range t.Bracket.Matches() {
		if _, exists := rounds[m.Round]; !exists {
			roundNums = append(roundNums, m.Round)
		}
		rounds[m.Round] = append(rounds[m.Round], m)
	}

	sort.Ints(roundNums)
	sortRounds(rounds, roundNums)

	return BracketData{
		Tournament: t,
		Rounds:     rounds,
		RoundNums:  roundNums,
	}
}

func sortRounds(rounds map[int][]bracket.Match, roundNums []int) {
	for _, r := range roundNums {
		sort.Slice(rounds[r], func(i, j int) bool {
			return rounds[r][i].Order < rounds[r][j].Order
		})
	}
}

func (d BracketData) RoundName(round int) string {
	return bracket.RoundName(round, d.Tournament.Rounds)
}
