package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Admin roles. A super admin can manage the team, knowledge, and raw
// collections; a moderator only gets the feedback surfaces.
const (
	RoleSuperAdmin = "super_admin"
	RoleModerator  = "moderator"
)

// ValidRole reports whether role is one of the known admin roles.
func ValidRole(role string) bool {
	return role == RoleSuperAdmin || role == RoleModerator
}

// AdminUser is a dashboard operator document from the admin_users collection.
// Identity is the email address; there is no password, sign-in goes through
// Google.
type AdminUser struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Email     string        `bson:"email" json:"email"`
	Role      string        `bson:"role" json:"role"`
	AddedBy   string        `bson:"addedBy" json:"addedBy"`
	CreatedAt time.Time     `bson:"createdAt" json:"createdAt"`
}
