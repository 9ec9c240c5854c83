package models

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

var ErrNoTenant = errors.New("member has no linked admin")

type User struct {
	ID               primitive.ObjectID  `bson:"_id,omitempty" json:"_id"`
	Name             string              `bson:"name" json:"name"`
	Email            string              `bson:"email" json:"email"`
	Password         string              `bson:"password" json:"-"`
	ProfileImageURL  string              `bson:"profileImageUrl,omitempty" json:"profileImageUrl,omitempty"`
	Role             string              `bson:"role" json:"role"`
	AdminInviteToken string              `bson:"adminInviteToken,omitempty" json:"adminInviteToken,omitempty"`
	AdminID          *primitive.ObjectID `bson:"adminId,omitempty" json:"adminId,omitempty"`
	CreatedAt        time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// TenantID resolves the admin identity that scopes every task and comment
// query for this user: admins own their tenant, members inherit the tenant
// of the admin that invited them.
func (u *User) TenantID() (primitive.ObjectID, error) {
	if u.Role == RoleAdmin {
		return u.ID, nil
	}
	if u.AdminID == nil {
		return primitive.NilObjectID, ErrNoTenant
	}
	return *u.AdminID, nil
}

// UserRef is the public projection used when resolving assignees, comment
// authors and reaction users.
type UserRef struct {
	ID              primitive.ObjectID `bson:"_id" json:"_id"`
	Name            string             `bson:"name" json:"name"`
	Email           string             `bson:"email,omitempty" json:"email,omitempty"`
	ProfileImageURL string             `bson:"profileImageUrl,omitempty" json:"profileImageUrl,omitempty"`
}
