package bracket

type ParticipantKind int

const (
	RealParticipant ParticipantKind = iota
	ByeParticipant
)

// Participant fills one side of a match. A nil *Participant on a match means
// the slot is still waiting on the winner of an earlier match.
type Participant struct {
	Kind ParticipantKind
	ID   int
	Name string
}

func NewParticipant(id int, name string) Participant {
	return Participant{Kind: RealParticipant, ID: id, Name: name}
}

// Bye pads the bracket to a power of two. It never plays.
func Bye() Participant {
	return Participant{Kind: ByeParticipant}
}

func (p Participant) IsBye() bool {
	return p.Kind == ByeParticipant
}

func (p Participant) IsReal() bool {
	return p.Kind == RealParticipant
}

func (p Participant) String() string {
	if p.IsBye() {
		return "BYE"
	}
	return p.Name
}
