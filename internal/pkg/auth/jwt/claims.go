package jwt

import "github.com/golang-jwt/jwt"

// Payload defines the structure of the JSON Web Token (JWT) claims for LexDraft.
// The token binds a browser to its server-side session; the authoritative user
// state always lives in the session manager, never in the token itself.
type Payload struct {
	// StandardClaims embeds the necessary JWT standard fields such as Exp (Expiration),
	// Iat (Issued At), and Iss (Issuer). These are crucial for token validity checks.
	jwt.StandardClaims `json:"standard_claims"`

	// SessionID is the opaque identifier of the server-side session created at sign-in.
	SessionID string `json:"session_id"`

	// UserID is the identity provider's user id at the time the token was minted.
	UserID string `json:"user_id"`

	// Email is the account email at the time the token was minted, carried for logging
	// and display purposes only.
	Email string `json:"email"`
}
