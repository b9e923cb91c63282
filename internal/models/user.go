package models

type Role string

const (
	RoleCustomer  Role = "Customer"
	RoleOrganizer Role = "Organizer"
	RoleAdmin     Role = "Admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleOrganizer, RoleAdmin:
		return true
	}

	return false
}

type User struct {
	ID           int64  `json:"id" db:"customer_id"`
	Email        string `json:"email" db:"email"`
	PasswordHash []byte `json:"-" db:"password"`
	Role         Role   `json:"role" db:"role"`
}

// Identity is the caller decoded from a verified token.
type Identity struct {
	ID   int64
	Role Role
}

func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}
