package models

import (
	"encoding/json"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

type Role string

type ApplicationStatus string

const (
	RoleAdmin    Role = "admin"
	RoleSeller   Role = "seller"
	RoleCustomer Role = "customer"

	ApplicationPending  ApplicationStatus = "pending"
	ApplicationApproved ApplicationStatus = "approved"
	ApplicationRejected ApplicationStatus = "rejected"
)

// ParseRole rejects anything outside the closed role set so an unknown
// value coming off the wire fails closed instead of granting access.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleSeller, RoleCustomer:
		return Role(s), nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

type User struct {
	ID                string            `json:"id"`
	Name              string            `json:"name"`
	Email             string            `json:"email"`
	UserType          Role              `json:"userType"`
	ApplicationStatus ApplicationStatus `json:"applicationStatus,omitempty"`
}

// Older backend revisions send the role under "role" instead of
// "userType". Accept both, with "userType" winning when present.
func (u *User) UnmarshalJSON(data []byte) error {

	type alias User

	aux := struct {
		*alias
		LegacyRole string `json:"role"`
	}{alias: (*alias)(u)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	raw := string(u.UserType)
	if raw == "" {
		raw = aux.LegacyRole
	}

	role, err := ParseRole(raw)
	if err != nil {
		return err
	}

	u.UserType = role

	return nil
}

// SellerAccount is the admin's view of a seller application. It is a
// distinct wire type: the backend's seller DTO carries shop details
// and no role field.
type SellerAccount struct {
	ID                string            `json:"id"`
	Name              string            `json:"name"`
	Email             string            `json:"email"`
	ShopName          string            `json:"shopName,omitempty"`
	PhoneNumber       string            `json:"phoneNumber,omitempty"`
	Address           string            `json:"address,omitempty"`
	ApplicationStatus ApplicationStatus `json:"applicationStatus"`
}

// JWT claims structure

type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}
