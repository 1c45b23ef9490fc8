package auth

import (
	"strconv"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the token payload issued on login. The UserId claim is carried as
// a string on the wire, matching what existing clients of the previous
// backend already decode.
type Claims struct {
	UserID string `json:"UserId"`
	jwt.RegisteredClaims
}

// UserIDInt parses the UserId claim as an integer. The second return is false
// when the claim is absent or not numeric.
func (c *Claims) UserIDInt() (int64, bool) {
	if c == nil || c.UserID == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(c.UserID, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// BelongsTo reports whether the token was issued for the given user.
func (c *Claims) BelongsTo(userID int64) bool {
	id, ok := c.UserIDInt()
	return ok && id == userID
}
