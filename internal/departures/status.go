package departures

type Status string

const (
	StatusOpen     Status = "open"
	StatusClosed   Status = "closed"
	StatusFull     Status = "full"
	StatusDeparted Status = "departed"
)

// IsValid checks if the departure status is valid
func (s Status) IsValid() bool {
	switch s {
	case StatusOpen, StatusClosed, StatusFull, StatusDeparted:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// AcceptsReservations reports whether seats can still be reserved
func (s Status) AcceptsReservations() bool {
	return s == StatusOpen
}

// HasDeparted reports whether the trip is already under way
func (s Status) HasDeparted() bool {
	return s == StatusDeparted
}
