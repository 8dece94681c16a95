package bookings

type CreateBookingRequest struct {
	DepartureID string             `json:"departure_id" binding:"required,uuid"`
	CustomerID  string             `json:"customer_id" binding:"required,uuid"`
	AgentID     string             `json:"agent_id" binding:"omitempty,uuid"`
	Notes       string             `json:"notes" binding:"max=2000"`
	Passengers  []PassengerRequest `json:"passengers" binding:"required,min=1,max=60,dive"`
}

type PassengerRequest struct {
	CustomerID     string         `json:"customer_id" binding:"required,uuid"`
	RoomPreference RoomPreference `json:"room_preference" binding:"omitempty,oneof=single double sharing triple quad"`
}

type TransitionRequest struct {
	Reason string `json:"reason" binding:"max=1000"`
}

type BookingListQuery struct {
	DepartureID   string `form:"departure_id" validate:"omitempty,uuid"`
	CustomerID    string `form:"customer_id" validate:"omitempty,uuid"`
	AgentID       string `form:"agent_id" validate:"omitempty,uuid"`
	BookingStatus string `form:"booking_status" validate:"omitempty,oneof=pending confirmed processing completed cancelled refunded"`
	PaymentStatus string `form:"payment_status" validate:"omitempty,oneof=pending partial paid refunded failed"`
	DateFrom      string `form:"date_from" validate:"omitempty,datetime=2006-01-02"`
	DateTo        string `form:"date_to" validate:"omitempty,datetime=2006-01-02"`
	Page          int    `form:"page" validate:"omitempty,min=1"`
	Limit         int    `form:"limit" validate:"omitempty,min=1,max=100"`
}
