package bookings

type BookingStatus string

const (
	BookingPending    BookingStatus = "pending"
	BookingConfirmed  BookingStatus = "confirmed"
	BookingProcessing BookingStatus = "processing"
	BookingCompleted  BookingStatus = "completed"
	BookingCancelled  BookingStatus = "cancelled"
	BookingRefunded   BookingStatus = "refunded"
)

// IsValid checks if the booking status is valid
func (s BookingStatus) IsValid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingProcessing,
		BookingCompleted, BookingCancelled, BookingRefunded:
		return true
	}
	return false
}

// String returns the string representation of BookingStatus
func (s BookingStatus) String() string {
	return string(s)
}

// IsTerminal reports whether the booking is closed to payments and staff
// transitions. completed still admits a refund.
func (s BookingStatus) IsTerminal() bool {
	return s == BookingCompleted || s == BookingCancelled || s == BookingRefunded
}

// IsActive reports whether the booking holds travelling passengers
func (s BookingStatus) IsActive() bool {
	return s == BookingConfirmed || s == BookingProcessing || s == BookingCompleted
}

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPartial  PaymentStatus = "partial"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
	PaymentFailed   PaymentStatus = "failed"
)

// IsValid checks if the payment status is valid
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentPending, PaymentPartial, PaymentPaid, PaymentRefunded, PaymentFailed:
		return true
	}
	return false
}

func (s PaymentStatus) String() string {
	return string(s)
}

type RoomPreference string

const (
	RoomSingle  RoomPreference = "single"
	RoomDouble  RoomPreference = "double"
	RoomSharing RoomPreference = "sharing"
	RoomTriple  RoomPreference = "triple"
	RoomQuad    RoomPreference = "quad"
)

func (p RoomPreference) IsValid() bool {
	switch p {
	case RoomSingle, RoomDouble, RoomSharing, RoomTriple, RoomQuad:
		return true
	}
	return false
}

// Pairable reports whether passengers with this preference are matched
// with a roommate
func (p RoomPreference) Pairable() bool {
	return p == RoomDouble || p == RoomSharing
}

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

func (g Gender) IsValid() bool {
	return g == GenderMale || g == GenderFemale
}
