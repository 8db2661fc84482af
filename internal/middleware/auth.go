package middleware

import (
	"crypto/subtle"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/sweets9/SOC-ThreatViz/internal/config"
	"github.com/sweets9/SOC-ThreatViz/internal/util"
)

// VerifyToken checks the Authorization header on webhook requests. The bearer
// value may be the static API token (compared constant-time, or against an
// argon2id digest when the config carries one) or a JWT issued by the token
// exchange endpoint.
func VerifyToken(sec config.SecurityConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error":   "Unauthorized",
				"message": "No authorization header provided",
			})
		}

		splits := strings.Split(authHeader, " ")
		if len(splits) != 2 || splits[0] != "Bearer" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error":   "Unauthorized",
				"message": "Invalid authorization header format. Expected: Bearer <token>",
			})
		}

		if !tokenMatches(sec, splits[1]) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error":   "Unauthorized",
				"message": "Invalid API token",
			})
		}

		return c.Next()
	}
}

// VerifyStaticToken is VerifyToken without the JWT path, for the endpoint
// that exchanges the static token for a JWT in the first place.
func VerifyStaticToken(sec config.SecurityConfig) fiber.Handler {
	stripped := sec
	stripped.JWTSecret = ""
	return VerifyToken(stripped)
}

// VerifyIP rejects requests from clients outside the allowlist
func VerifyIP(sec config.SecurityConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !IPAllowed(c.IP(), sec.AllowedIPs) {
			util.PrintWarning("Blocked request from unauthorized IP: " + c.IP())
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error":   "Forbidden",
				"message": "Your IP address is not authorized to access this endpoint",
			})
		}
		return c.Next()
	}
}

// Authenticate is the middleware chain for webhook endpoints: IP allowlist
// first, then the token check. Register both on the route or group.
func Authenticate(sec config.SecurityConfig) []fiber.Handler {
	return []fiber.Handler{VerifyIP(sec), VerifyToken(sec)}
}

func tokenMatches(sec config.SecurityConfig, token string) bool {
	if sec.APITokenHash != "" {
		match, err := CompareTokenAndHash(token, sec.APITokenHash)
		if err == nil && match {
			return true
		}
	} else if sec.APIToken != "" {
		if subtle.ConstantTimeCompare([]byte(token), []byte(sec.APIToken)) == 1 {
			return true
		}
	}

	if sec.JWTSecret != "" {
		if _, err := VerifyJWTToken(token, sec.JWTSecret); err == nil {
			return true
		}
	}
	return false
}

// IPAllowed reports whether the client IP is on the allowlist. Supports exact
// matches, the localhost spellings, and /8, /16, /24 CIDR prefixes. IPv6
// mapped IPv4 addresses are normalized first.
func IPAllowed(clientIP string, allowed []string) bool {
	if clientIP == "" {
		return false
	}
	ip := strings.TrimPrefix(clientIP, "::ffff:")

	for _, allowedIP := range allowed {
		if ip == allowedIP {
			return true
		}

		// localhost variations
		if allowedIP == "127.0.0.1" && (ip == "::1" || ip == "localhost") {
			return true
		}
		if allowedIP == "::1" && (ip == "127.0.0.1" || ip == "localhost") {
			return true
		}

		if strings.Contains(allowedIP, "/") && cidrMatch(ip, allowedIP) {
			return true
		}
	}
	return false
}

func cidrMatch(ip, cidr string) bool {
	parts := strings.SplitN(cidr, "/", 2)
	network := parts[0]
	maskBits, err := strconv.Atoi(parts[1])
	if err != nil {
		return false
	}
	if maskBits != 8 && maskBits != 16 && maskBits != 24 {
		return false
	}

	networkParts := strings.Split(network, ".")
	ipParts := strings.Split(ip, ".")
	if len(networkParts) != 4 || len(ipParts) != 4 {
		return false
	}

	for i := 0; i < maskBits/8; i++ {
		if networkParts[i] != ipParts[i] {
			return false
		}
	}
	return true
}
