package domain

import "errors"

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleSeller   Role = "seller"
	RoleCustomer Role = "customer"
)

func ToRole(s string) (Role, error) {
	switch role := Role(s); role {
	case RoleAdmin, RoleSeller, RoleCustomer:
		return role, nil
	}

	return "", errors.New("invalid role")
}

// Actor is the authenticated caller as resolved by the outer request layer.
type Actor struct {
	ID   string
	Role Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}
