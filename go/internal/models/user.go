package models

// UserRole distinguishes plain members from group admins. Stored but not
// currently enforced anywhere.
type UserRole string

const (
	RoleMember UserRole = "member"
	RoleAdmin  UserRole = "admin"
)

// User is a member of exactly one group at a time; joining another group
// overwrites the assignment (last join wins).
type User struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	GroupID      string       `json:"groupId"`
	Role         UserRole     `json:"role"`
	LastLocation *Coordinates `json:"lastLocation,omitempty"`
	// LastUpdated is the ms-epoch timestamp of the most recent join or
	// location update; liveness is derived from it at read time.
	LastUpdated int64 `json:"lastUpdated"`
	IsOnline    bool  `json:"isOnline"`
}
