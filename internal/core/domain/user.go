package domain

import (
	"fmt"
	"strings"
	"time"
)

// Role gates what a user can see and change.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// IsValid reports whether r is one of the two known roles.
func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleUser
}

// ParseRole converts a raw string into a Role.
func ParseRole(value string) (Role, error) {
	r := Role(value)
	if !r.IsValid() {
		return "", fmt.Errorf("invalid role %q", value)
	}
	return r, nil
}

// SubscriptionPlan is the billing tier attached to an account.
type SubscriptionPlan string

const (
	PlanFree SubscriptionPlan = "Free Plan"
	PlanPro  SubscriptionPlan = "Pro Plan"
)

// IsValid reports whether p is a known plan.
func (p SubscriptionPlan) IsValid() bool {
	return p == PlanFree || p == PlanPro
}

// User models an account of the invoicing dashboard.
type User struct {
	ID               string           `json:"id"`
	Email            string           `json:"email"`
	Name             string           `json:"name"`
	Username         string           `json:"username"`
	FullName         string           `json:"full_name"`
	Address          string           `json:"address"`
	Mobile           string           `json:"mobile"`
	Role             Role             `json:"role"`
	SubscriptionPlan SubscriptionPlan `json:"subscription_plan"`
	IsEmailVerified  bool             `json:"is_email_verified"`
	Avatar           string           `json:"avatar,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
	PasswordHash     string           `json:"-"`
}

// EffectiveRole returns the stored role, treating an empty one as RoleUser.
func (u *User) EffectiveRole() Role {
	if u == nil || u.Role == "" {
		return RoleUser
	}
	return u.Role
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.EffectiveRole() == RoleAdmin
}

// Sanitized returns a copy of u without credential material.
func (u User) Sanitized() User {
	u.PasswordHash = ""
	return u
}

// DisplayName derives the short display name from a full name: its first word.
func DisplayName(fullName string) string {
	fields := strings.Fields(fullName)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// UserPatch is a partial update. Nil fields are left untouched.
type UserPatch struct {
	Email            *string
	Name             *string
	Username         *string
	FullName         *string
	Address          *string
	Mobile           *string
	Role             *Role
	SubscriptionPlan *SubscriptionPlan
	IsEmailVerified  *bool
	Avatar           *string
	PasswordHash     *string
}

// Apply merges the non-nil fields of p into u.
func (p UserPatch) Apply(u *User) {
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Username != nil {
		u.Username = *p.Username
	}
	if p.FullName != nil {
		u.FullName = *p.FullName
	}
	if p.Address != nil {
		u.Address = *p.Address
	}
	if p.Mobile != nil {
		u.Mobile = *p.Mobile
	}
	if p.Role != nil {
		u.Role = *p.Role
	}
	if p.SubscriptionPlan != nil {
		u.SubscriptionPlan = *p.SubscriptionPlan
	}
	if p.IsEmailVerified != nil {
		u.IsEmailVerified = *p.IsEmailVerified
	}
	if p.Avatar != nil {
		u.Avatar = *p.Avatar
	}
	if p.PasswordHash != nil {
		u.PasswordHash = *p.PasswordHash
	}
}

// UserStats summarises the user collection for the admin dashboard.
type UserStats struct {
	Total  int `json:"total"`
	Admins int `json:"admins"`
	Users  int `json:"users"`
}

// ComputeUserStats counts users per role in a single pass.
func ComputeUserStats(users []User) UserStats {
	stats := UserStats{Total: len(users)}
	for _, u := range users {
		switch u.Role {
		case RoleAdmin:
			stats.Admins++
		case RoleUser:
			stats.Users++
		}
	}
	return stats
}

// MatchesSearch reports whether term occurs, case-insensitively, in the
// user's name, email, username or full name. An empty term matches everything.
func (u User) MatchesSearch(term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	for _, field := range []string{u.Name, u.Email, u.Username, u.FullName} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}
