package jwt

import "github.com/golang-jwt/jwt"

// Payload defines the claims carried by library session tokens.
type Payload struct {
	// StandardClaims embeds Exp (Expiration), Iat (Issued At) and Iss (Issuer).
	jwt.StandardClaims

	// UserID is the backend identifier of the token holder.
	UserID int64 `json:"user_id"`

	// Username is the login name of the token holder.
	Username string `json:"username"`

	// Role is either "student" or "librarian".
	Role string `json:"role"`
}
