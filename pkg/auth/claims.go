package auth

import (
	"github.com/angelmondragon/webtheme-backend/pkg/enums"
	"github.com/golang-jwt/jwt/v5"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID  string
	BrandID string
	Role    enums.EditorRole
	JTI     string
}

// AccessTokenClaims represents the typed JWT presented by editor clients.
type AccessTokenClaims struct {
	UserID  string           `json:"user_id"`
	BrandID string           `json:"brand_id"`
	Role    enums.EditorRole `json:"role"`
	jwt.RegisteredClaims
}
