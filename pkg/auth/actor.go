package auth

import (
	"github.com/google/uuid"

	"github.com/akashch1512/crystalreadymades.com/pkg/enums"
)

// Actor is the authenticated caller extracted from a verified token.
type Actor struct {
	UserID uuid.UUID
	Phone  string
	Role   enums.UserRole
}

// IsAdmin reports whether the actor may use the admin surface.
func (a Actor) IsAdmin() bool {
	return a.Role == enums.UserRoleAdmin
}

// ActorFromClaims maps verified claims onto an Actor.
func ActorFromClaims(claims *AccessTokenClaims) Actor {
	if claims == nil {
		return Actor{}
	}
	return Actor{
		UserID: claims.UserID,
		Phone:  claims.Phone,
		Role:   claims.Role,
	}
}
