package models

// VoteDirection identifies which tally a vote lands on.
type VoteDirection string

// Vote direction constants
const (
	VoteUp   VoteDirection = "up"
	VoteDown VoteDirection = "down"
)

// Valid reports whether the direction is one of the two known values.
func (d VoteDirection) Valid() bool {
	return d == VoteUp || d == VoteDown
}
