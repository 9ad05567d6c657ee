package domain

import "time"

const (
	RoleCustomer = "ROLE_CUSTOMER"
	RoleEmployee = "ROLE_EMPLOYEE"
	RoleAdmin    = "ROLE_ADMIN"
)

// User models an authenticated account: the credential row plus profile
// metadata. Role assignments and the optional employee record live in their
// own collections and are resolved separately at login.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email,omitempty"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// AuthSession is the outcome of a successful login: the signed bearer plus
// everything a client needs to render the authenticated identity.
// TokenType is always the literal "Bearer".
type AuthSession struct {
	Token      string
	TokenType  string
	UserID     int64
	Username   string
	EmployeeID EmployeeID
	Roles      []string
}

// Principal is the identity rehydrated from a verified bearer on each
// request. It lives for the request only; nothing about it is persisted.
type Principal struct {
	UserID     int64
	Username   string
	EmployeeID EmployeeID
	Roles      []string
}

// HasRole reports whether the principal carries the given role name.
func (p Principal) HasRole(role string) bool {
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}
