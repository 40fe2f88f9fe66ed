package domain

import "time"

// Role classifies platform users. Roles are mutually exclusive and fixed at
// registration.
type Role string

const (
	RoleDonor     Role = "DONOR"
	RoleRecipient Role = "RECIPIENT"
	RoleAdmin     Role = "ADMIN"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	switch r {
	case RoleDonor, RoleRecipient, RoleAdmin:
		return true
	}
	return false
}

// BloodGroup enumerates the eight ABO/Rh groups.
type BloodGroup string

const (
	BloodGroupAPositive  BloodGroup = "A+"
	BloodGroupANegative  BloodGroup = "A-"
	BloodGroupBPositive  BloodGroup = "B+"
	BloodGroupBNegative  BloodGroup = "B-"
	BloodGroupABPositive BloodGroup = "AB+"
	BloodGroupABNegative BloodGroup = "AB-"
	BloodGroupOPositive  BloodGroup = "O+"
	BloodGroupONegative  BloodGroup = "O-"
)

// BloodGroups lists all valid groups in display order.
var BloodGroups = []BloodGroup{
	BloodGroupAPositive, BloodGroupANegative,
	BloodGroupBPositive, BloodGroupBNegative,
	BloodGroupABPositive, BloodGroupABNegative,
	BloodGroupOPositive, BloodGroupONegative,
}

// Valid reports whether the blood group is one of the eight known values.
func (b BloodGroup) Valid() bool {
	for _, group := range BloodGroups {
		if b == group {
			return true
		}
	}
	return false
}

// User is the directory record for donors, recipients and admins.
// BloodGroup is nil for admins. IsVerified is admin-granted for donors and
// always true for recipients; IsAvailable is donor-controlled.
type User struct {
	ID               string
	Name             string
	Email            string
	PasswordHash     string
	Role             Role
	Location         string
	BloodGroup       *BloodGroup
	IsVerified       bool
	IsAvailable      bool
	LastDonationDate *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// IsSearchableDonor reports whether the user appears in donor search results.
func (u *User) IsSearchableDonor() bool {
	return u.Role == RoleDonor && u.IsVerified && u.IsAvailable
}
