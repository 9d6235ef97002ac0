package domain

// Snapshot is the persisted shape of the matrix: every quadrant mapped to its
// ordered todos.
type Snapshot map[Quadrant][]Todo

// EmptySnapshot returns a snapshot with an empty sequence for each quadrant.
func EmptySnapshot() Snapshot {
	s := make(Snapshot, len(Quadrants))
	for _, q := range Quadrants {
		s[q] = []Todo{}
	}
	return s
}

// Normalize drops unknown keys and replaces missing or nil sequences with
// empty ones so the result always carries exactly the four quadrants.
func (s Snapshot) Normalize() Snapshot {
	out := EmptySnapshot()
	for _, q := range Quadrants {
		if todos := s[q]; len(todos) > 0 {
			out[q] = todos
		}
	}
	return out
}

// Len returns the total number of todos across all quadrants.
func (s Snapshot) Len() int {
	n := 0
	for _, todos := range s {
		n += len(todos)
	}
	return n
}

// MaxID returns the largest todo id present, or zero.
func (s Snapshot) MaxID() int64 {
	var maxID int64
	for _, todos := range s {
		for _, t := range todos {
			if t.ID > maxID {
				maxID = t.ID
			}
		}
	}
	return maxID
}
