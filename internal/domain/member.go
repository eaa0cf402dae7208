package domain

// Member is a connection's participation record within one room: the
// transport-assigned connection id plus the display name the user picked
// at join time. Names are self-reported and never verified.
type Member struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func NewMember(id, name string) Member {
	return Member{
		ID:   id,
		Name: name,
	}
}
