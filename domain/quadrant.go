package domain

// Quadrant is one of the four fixed urgency/importance categories.
type Quadrant string

const (
	UrgentImportant       Quadrant = "urgent-important"
	NotUrgentImportant    Quadrant = "not-urgent-important"
	UrgentNotImportant    Quadrant = "urgent-not-important"
	NotUrgentNotImportant Quadrant = "not-urgent-not-important"
)

// Quadrants lists every quadrant in canonical order. Lookups scan in this order.
var Quadrants = [4]Quadrant{
	UrgentImportant,
	NotUrgentImportant,
	UrgentNotImportant,
	NotUrgentNotImportant,
}

// Index returns the canonical position of q, or -1 for an unknown value.
func (q Quadrant) Index() int {
	for i, c := range Quadrants {
		if c == q {
			return i
		}
	}
	return -1
}

// Valid reports whether q is one of the four quadrants.
func (q Quadrant) Valid() bool {
	return q.Index() >= 0
}

func (q Quadrant) String() string {
	return string(q)
}

// ParseQuadrant converts s into a Quadrant.
func ParseQuadrant(s string) (Quadrant, error) {
	q := Quadrant(s)
	if !q.Valid() {
		return "", ErrUnknownQuadrant
	}
	return q, nil
}
