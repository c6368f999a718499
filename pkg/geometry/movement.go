package geometry

// Direction is a set of held movement directions
type Direction uint8

const (
	DirectionBackward Direction = 1 << iota
	DirectionLeft
	DirectionDown
	DirectionForward
	DirectionRight
	DirectionUp
)

// Has reports whether every direction in flag is held
func (d Direction) Has(flag Direction) bool {
	return d&flag == flag
}

// With returns d with flag set or cleared
func (d Direction) With(flag Direction, held bool) Direction {
	if held {
		return d | flag
	}
	return d &^ flag
}

// axis returns 1 when positive is held, -1 when negative is held, and 0 for neither or both
func (d Direction) axis(positive, negative Direction) float64 {
	var v float64
	if d.Has(positive) {
		v++
	}
	if d.Has(negative) {
		v--
	}
	return v
}
