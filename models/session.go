package models

import (
	"fmt"
	"time"
)

// Role is the actor role an operation is performed as.
type Role string

const (
	RoleUser     Role = "user"
	RoleProvider Role = "provider"
	RoleAdmin    Role = "admin"
)

// ParseRole converts a wire value into a Role.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleUser, RoleProvider, RoleAdmin:
		return Role(s), nil
	default:
		return "", fmt.Errorf("unknown role: %q", s)
	}
}

// RoleFor derives the actor role from the backend's user flags.
func RoleFor(u UserRecord) Role {
	switch {
	case u.IsAdmin:
		return RoleAdmin
	case u.IsProvider:
		return RoleProvider
	default:
		return RoleUser
	}
}

// Session is the signed-in actor. It is replaced as a whole, never mutated in place.
type Session struct {
	ActorID  string     `json:"actorId"`
	Role     Role       `json:"role"`
	Token    string     `json:"token"`
	User     UserRecord `json:"user"`
	IssuedAt time.Time  `json:"issuedAt"`
}

// Anonymous reports whether the session carries no token.
func (s *Session) Anonymous() bool {
	return s == nil || s.Token == ""
}
