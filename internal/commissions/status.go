package commissions

type Status string

const (
	StatusPending Status = "pending"
	StatusPaid    Status = "paid"
	StatusVoided  Status = "voided"
)

// IsValid checks if the commission status is valid
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusVoided:
		return true
	}
	return false
}

func (s Status) String() string {
	return string(s)
}

// Payable reports whether the commission still counts toward what is owed
func (s Status) Payable() bool {
	return s == StatusPending
}
