// Package seeding decides which round 1 bracket slots hold a participant and
// which hold a bye.
package seeding

import (
	"math"
	"sort"

	"github.com/AdamBeresnev/knockout-fixture/internal/bracket"
)

// Positions holds 1-indexed bracket slots. Together they cover every slot of
// the bracket exactly once.
type Positions struct {
	TeamSlots []int
	ByeSlots  []int
}

// Gets the nearest power of 2 while rounding up, so with input 5 it returns 8 and so on
func BracketSize(count int) int {
	if count <= 0 {
		return 0
	}

	// Log2 -> Ceil -> 2^^log2 to round up
	log2 := math.Ceil(math.Log2(float64(count)))
	return int(math.Pow(2, log2))
}

// Rounds is ceil(log2(count)), the number of rounds a bracket of count
// participants needs.
func Rounds(count int) int {
	if count <= 1 {
		return 0
	}
	return int(math.Ceil(math.Log2(float64(count))))
}

// Calculate spreads bracketSize-numParticipants byes over the bracket. Every
// bye lands on the second slot of a round 1 match, so no match gets two.
func Calculate(numParticipants, bracketSize int) (Positions, error) {
	if numParticipants < 2 {
		return Positions{}, bracket.InvalidInput("at least 2 participants are required, got %d", numParticipants)
	}
	if bracketSize != BracketSize(numParticipants) {
		return Positions{}, bracket.InvalidInput("bracket size %d does not fit %d participants", bracketSize, numParticipants)
	}

	byes := byePositions(bracketSize, bracketSize-numParticipants)

	isBye := make(map[int]bool, len(byes))
	for _, pos := range byes {
		isBye[pos] = true
	}

	teams := make([]int, 0, numParticipants)
	for pos := 1; pos <= bracketSize; pos++ {
		if !isBye[pos] {
			teams = append(teams, pos)
		}
	}

	return Positions{TeamSlots: teams, ByeSlots: byes}, nil
}

// byePositions seeds the last slot, then keeps halving the bracket into
// sections and takes the odd section boundaries of each level in order.
// Boundaries are always even while a section spans at least one match.
func byePositions(bracketSize, count int) []int {
	positions := []int{}
	if count == 0 {
		return positions
	}

	positions = append(positions, bracketSize)
	for sections := 2; len(positions) < count && sections < bracketSize; sections *= 2 {
		sectionSize := bracketSize / sections
		for i := 1; i < sections && len(positions) < count; i += 2 {
			positions = append(positions, i*sectionSize)
		}
	}

	sort.Sort(sort.Reverse(sort.IntSlice(positions)))
	return positions
}

// Arrange lays the participants out over a full bracket in slot order,
// consuming them in input order and filling the remaining slots with byes.
func Arrange(participants []bracket.Participant) ([]bracket.Participant, error) {
	size := BracketSize(len(participants))
	positions, err := Calculate(len(participants), size)
	if err != nil {
		return nil, err
	}

	slots := make([]bracket.Participant, size)
	for i, pos := range positions.TeamSlots {
		slots[pos-1] = participants[i]
	}
	for _, pos := range positions.ByeSlots {
		slots[pos-1] = bracket.Bye()
	}
	return slots, nil
}
