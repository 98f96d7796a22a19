package auth

import (
	"github.com/golang-jwt/jwt/v5"
)

// OperatorClaims is the token minted by the identity service for back-office
// operators. The subject carries the operator id.
type OperatorClaims struct {
	Name string `json:"name,omitempty"`
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// OperatorID returns the subject claim.
func (c *OperatorClaims) OperatorID() string {
	if c == nil {
		return ""
	}
	return c.Subject
}
