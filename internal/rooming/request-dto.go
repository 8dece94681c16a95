package rooming

type PairRequest struct {
	PassengerA string  `json:"passenger_a" validate:"required,uuid"`
	PassengerB string  `json:"passenger_b" validate:"required,uuid,nefield=PassengerA"`
	RoomNumber *string `json:"room_number" validate:"omitempty,max=20"`
}

type CreateRoomRequest struct {
	DepartureID string   `json:"departure_id" validate:"required,uuid"`
	HotelID     string   `json:"hotel_id" validate:"required,uuid"`
	RoomNumber  string   `json:"room_number" validate:"required,max=20"`
	RoomType    RoomType `json:"room_type" validate:"required,oneof=single double triple quad"`
}

type AssignRequest struct {
	CustomerID string `json:"customer_id" validate:"required,uuid"`
}

type ListRoomsQuery struct {
	DepartureID string `form:"departure_id" validate:"required,uuid"`
	HotelID     string `form:"hotel_id" validate:"omitempty,uuid"`
}
