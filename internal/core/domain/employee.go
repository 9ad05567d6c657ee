package domain

import (
	"encoding/json"
	"time"
)

// EmployeeID is an optional reference to an employee record. Not every user
// is staff, so absence is a normal state, not an error; Present distinguishes
// "no employee record" from employee id zero.
type EmployeeID struct {
	ID      int32
	Present bool
}

// SomeEmployeeID returns a present EmployeeID wrapping id.
func SomeEmployeeID(id int32) EmployeeID {
	return EmployeeID{ID: id, Present: true}
}

// IsZero reports absence; it makes the `omitzero` JSON tag drop the field
// entirely instead of emitting null.
func (e EmployeeID) IsZero() bool { return !e.Present }

func (e EmployeeID) MarshalJSON() ([]byte, error) {
	if !e.Present {
		return []byte("null"), nil
	}
	return json.Marshal(e.ID)
}

func (e *EmployeeID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*e = EmployeeID{}
		return nil
	}
	var id int32
	if err := json.Unmarshal(data, &id); err != nil {
		return err
	}
	*e = SomeEmployeeID(id)
	return nil
}

// Employee is a staff record. UserID links it to the account that logs in;
// at most one employee row references a given user id.
type Employee struct {
	ID        int32     `json:"empId"`
	UserID    int64     `json:"userId"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email,omitempty"`
	Branch    string    `json:"branch,omitempty"`
	Position  string    `json:"position,omitempty"`
	HiredAt   time.Time `json:"hiredAt"`
}

// Customer is a bank customer profile maintained by back-office staff.
type Customer struct {
	ID          int64     `json:"id"`
	Name        string    `json:"custName"`
	Email       string    `json:"email"`
	DateOfBirth time.Time `json:"dob"`
	Phone       string    `json:"phone"`
	Address     string    `json:"address"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CustomerUpdate carries the mutable profile fields of a customer.
type CustomerUpdate struct {
	Name        string
	Email       string
	DateOfBirth time.Time
	Phone       string
	Address     string
}
