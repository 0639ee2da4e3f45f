package httpstore

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// warnIfExpired inspects a JWT-shaped bearer token without verifying its
// signature and logs a warning when its expiry claim has passed. Opaque
// non-JWT tokens are accepted silently — the server is the authority on
// credential validity either way; this only makes the resulting 401 easier
// to diagnose from client logs.
func (c *Client) warnIfExpired(token string) {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return
	}

	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return
	}

	if exp.Before(time.Now()) {
		c.log.Warn().
			Time("expired_at", exp.Time).
			Msg("bearer token is expired, requests will likely be rejected")
	}
}
