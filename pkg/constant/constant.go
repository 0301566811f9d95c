package constant

import "golang.org/x/crypto/bcrypt"

const (
	// BcryptCost is the fixed work factor for password hashing. It is a
	// process-wide constant, never caller-supplied.
	BcryptCost = bcrypt.DefaultCost

	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"

	// Per-route limiter budgets, requests per window.
	GlobalRateLimit    = 100
	GlobalRateWindow   = 60
	LoginRateLimit     = 5
	LoginRateWindow    = 60
	RegisterRateLimit  = 3
	RegisterRateWindow = 60
)
