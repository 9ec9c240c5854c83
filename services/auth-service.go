package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ars-patel/TaskHub-Backend/models"
	"github.com/ars-patel/TaskHub-Backend/utils"
)

// AuthService covers registration, login and profile management.
type AuthService struct {
	Users *mongo.Collection
}

func NewAuthService(users *mongo.Collection) *AuthService {
	return &AuthService{Users: users}
}

type RegisterInput struct {
	Name             string
	Email            string
	Password         string
	ProfileImageURL  string
	AdminInviteToken string
}

// Register creates a new account. Without an invite token the account becomes
// an admin with a freshly generated invite token; with a valid token it
// becomes a member of the admin owning that token.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	var existing models.User
	err := s.Users.FindOne(ctx, bson.M{"email": in.Email}).Decode(&existing)
	if err == nil {
		return nil, ErrEmailTaken
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("failed to query store: %v", err)
	}

	hashed, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &models.User{
		ID:              primitive.NewObjectID(),
		Name:            in.Name,
		Email:           in.Email,
		Password:        hashed,
		ProfileImageURL: in.ProfileImageURL,
		Role:            models.RoleMember,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if in.AdminInviteToken == "" {
		user.Role = models.RoleAdmin
		token, err := utils.GenerateInviteToken()
		if err != nil {
			return nil, err
		}
		user.AdminInviteToken = token
	} else {
		var admin models.User
		err := s.Users.FindOne(ctx, bson.M{"role": models.RoleAdmin, "adminInviteToken": in.AdminInviteToken}).Decode(&admin)
		if err != nil {
			return nil, lookupErr(err, ErrInvalidInviteToken)
		}
		user.AdminID = &admin.ID
	}

	if _, err := s.Users.InsertOne(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to save user: %v", err)
	}

	return user, nil
}

// Login verifies the credentials. The error never distinguishes an unknown
// email from a wrong password.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, error) {
	var user models.User
	if err := s.Users.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		return nil, lookupErr(err, ErrInvalidCredentials)
	}
	if !utils.CheckPassword(user.Password, password) {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

func (s *AuthService) GetProfile(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	var user models.User
	if err := s.Users.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		return nil, lookupErr(err, ErrUserNotFound)
	}
	return &user, nil
}

type ProfileUpdate struct {
	Name            string
	Email           string
	ProfileImageURL string
	Password        string
	OldPassword     string
}

// UpdateProfile applies a field-level patch. Changing the password requires
// re-verification of the old one.
func (s *AuthService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, upd ProfileUpdate) (*models.User, error) {
	var user models.User
	if err := s.Users.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		return nil, lookupErr(err, ErrUserNotFound)
	}

	if upd.Name != "" {
		user.Name = upd.Name
	}
	if upd.Email != "" {
		user.Email = upd.Email
	}
	if upd.ProfileImageURL != "" {
		user.ProfileImageURL = upd.ProfileImageURL
	}

	if upd.Password != "" {
		if upd.OldPassword == "" {
			return nil, ErrOldPasswordRequired
		}
		if !utils.CheckPassword(user.Password, upd.OldPassword) {
			return nil, ErrOldPasswordIncorrect
		}
		hashed, err := utils.HashPassword(upd.Password)
		if err != nil {
			return nil, err
		}
		user.Password = hashed
	}

	user.UpdatedAt = time.Now()

	update := bson.M{"$set": bson.M{
		"name":            user.Name,
		"email":           user.Email,
		"profileImageUrl": user.ProfileImageURL,
		"password":        user.Password,
		"updatedAt":       user.UpdatedAt,
	}}
	if _, err := s.Users.UpdateOne(ctx, bson.M{"_id": userID}, update); err != nil {
		return nil, fmt.Errorf("failed to update profile: %v", err)
	}

	return &user, nil
}
