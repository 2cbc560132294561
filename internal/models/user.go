package models

// Account tiers. Premium and admin users may override alert thresholds.
const (
	RoleUser    = "user"
	RolePremium = "premium"
	RoleAdmin   = "admin"
)

type User struct {
	ID           int    `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"` // don’t expose hash
	Role         string `json:"role"`
}

// CanOverrideThresholds reports whether the account tier allows custom thresholds.
func (u User) CanOverrideThresholds() bool {
	return u.Role == RolePremium || u.Role == RoleAdmin
}
