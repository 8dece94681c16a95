package rooming

import "umrahcore/internal/bookings"

// Pairing is the two passenger rows after a pair or unpair
type Pairing struct {
	A bookings.PassengerResponse `json:"a"`
	B bookings.PassengerResponse `json:"b"`
}

type RoomResponse struct {
	RoomAssignment
	Available int `json:"available"`
}

func (r *RoomAssignment) ToResponse() RoomResponse {
	available := r.Capacity - len(r.Occupants)
	if available < 0 {
		available = 0
	}
	return RoomResponse{RoomAssignment: *r, Available: available}
}
