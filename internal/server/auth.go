package server

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"scribe/internal/cache"
	"scribe/internal/middleware"
	"scribe/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	tokenIssuer   = "scribe-api"
	tokenAudience = "scribe-client"
	tokenLifetime = 7 * 24 * time.Hour
)

// bearerToken returns the token from an "Authorization: Bearer <token>" header.
func bearerToken(c *fiber.Ctx) string {
	parts := strings.Split(c.Get("Authorization"), " ")
	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}
	return ""
}

// parseToken validates tokenString and returns its user ID and claims.
// Revoked tokens are rejected when Redis is available.
func (s *Server) parseToken(ctx context.Context, tokenString string) (uint, jwt.MapClaims, *models.AppError) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
		}
		return []byte(s.config.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return 0, nil, models.NewUnauthorizedError("Invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, nil, models.NewUnauthorizedError("Invalid token claims")
	}
	if issuer, issuerOk := claims["iss"].(string); !issuerOk || issuer != tokenIssuer {
		return 0, nil, models.NewUnauthorizedError("Invalid token issuer")
	}
	if audience, audienceOk := claims["aud"].(string); !audienceOk || audience != tokenAudience {
		return 0, nil, models.NewUnauthorizedError("Invalid token audience")
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return 0, nil, models.NewUnauthorizedError("Invalid subject claim")
	}
	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil || userID == 0 {
		return 0, nil, models.NewUnauthorizedError("Invalid user ID in token")
	}

	if jti, exists := claims["jti"].(string); exists && jti != "" && s.redis != nil {
		revoked, err := s.redis.Exists(ctx, cache.RevokedKey(jti)).Result()
		if err == nil && revoked > 0 {
			return 0, nil, models.NewUnauthorizedError("Token has been revoked")
		}
	}

	return uint(userID), claims, nil
}

// AuthRequired rejects requests without a valid bearer token and stores the
// caller in locals "userID", "jti" and "exp".
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := bearerToken(c)
		if tokenString == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authorization required"))
		}

		userID, claims, appErr := s.parseToken(c.UserContext(), tokenString)
		if appErr != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized, appErr)
		}

		c.Locals("userID", userID)
		if jti, ok := claims["jti"].(string); ok {
			c.Locals("jti", jti)
		}
		if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
			c.Locals("exp", exp.Time)
		}
		// Sync to UserContext for logging and downstream services
		ctx := context.WithValue(c.UserContext(), middleware.UserIDKey, userID)
		c.SetUserContext(ctx)

		return c.Next()
	}
}

// optionalUserID attempts to extract userID from Authorization header but does not enforce it.
func (s *Server) optionalUserID(c *fiber.Ctx) (uint, bool) {
	tokenString := bearerToken(c)
	if tokenString == "" {
		return 0, false
	}
	userID, _, appErr := s.parseToken(c.UserContext(), tokenString)
	if appErr != nil {
		return 0, false
	}
	return userID, true
}

// currentUserID reads the user stored by AuthRequired.
func currentUserID(c *fiber.Ctx) uint {
	userID, _ := c.Locals("userID").(uint)
	return userID
}

// generateToken creates a JWT token for the given user ID and username
func (s *Server) generateToken(userID uint, username string) (string, error) {
	if s.config.JWTSecret == "" {
		return "", fmt.Errorf("JWT secret not configured")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      strconv.FormatUint(uint64(userID), 10),
		"username": username,
		"iss":      tokenIssuer,
		"aud":      tokenAudience,
		"exp":      now.Add(tokenLifetime).Unix(),
		"iat":      now.Unix(),
		"nbf":      now.Unix(),
		"jti":      uuid.NewString(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}

// revokeCurrentToken blacklists the caller's token until it would have
// expired anyway.
func (s *Server) revokeCurrentToken(c *fiber.Ctx) error {
	if s.redis == nil {
		return fmt.Errorf("token revocation unavailable: redis not configured")
	}
	jti, _ := c.Locals("jti").(string)
	if jti == "" {
		return nil
	}
	ttl := tokenLifetime
	if exp, ok := c.Locals("exp").(time.Time); ok {
		ttl = time.Until(exp)
	}
	if ttl <= 0 {
		return nil
	}
	return s.redis.Set(c.UserContext(), cache.RevokedKey(jti), "1", ttl).Err()
}
