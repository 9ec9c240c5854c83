package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ars-patel/TaskHub-Backend/middleware"
	"github.com/ars-patel/TaskHub-Backend/models"
	"github.com/ars-patel/TaskHub-Backend/services"
	"github.com/ars-patel/TaskHub-Backend/utils"
)

// AuthProvider is the slice of the auth service the handler depends on.
type AuthProvider interface {
	Register(ctx context.Context, in services.RegisterInput) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.User, error)
	GetProfile(ctx context.Context, userID primitive.ObjectID) (*models.User, error)
	UpdateProfile(ctx context.Context, userID primitive.ObjectID, upd services.ProfileUpdate) (*models.User, error)
}

var _ AuthProvider = (*services.AuthService)(nil)

type AuthHandler struct {
	Service AuthProvider
}

func NewAuthHandler(service AuthProvider) *AuthHandler {
	return &AuthHandler{Service: service}
}

type authResponse struct {
	ID               primitive.ObjectID  `json:"_id"`
	Name             string              `json:"name"`
	Email            string              `json:"email"`
	Role             string              `json:"role"`
	AdminID          *primitive.ObjectID `json:"adminId,omitempty"`
	AdminInviteToken string              `json:"adminInviteToken,omitempty"`
	ProfileImageURL  string              `json:"profileImageUrl,omitempty"`
	Token            string              `json:"token"`
}

func authResponseFor(user *models.User) (*authResponse, error) {
	token, err := utils.GenerateToken(user.ID.Hex(), user.Role, user.Name)
	if err != nil {
		return nil, err
	}
	resp := &authResponse{
		ID:              user.ID,
		Name:            user.Name,
		Email:           user.Email,
		Role:            user.Role,
		AdminID:         user.AdminID,
		ProfileImageURL: user.ProfileImageURL,
		Token:           token,
	}
	// Only admins ever see the invite token.
	if user.Role == models.RoleAdmin {
		resp.AdminInviteToken = user.AdminInviteToken
	}
	return resp, nil
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name             string `json:"name"`
		Email            string `json:"email"`
		Password         string `json:"password"`
		ProfileImageURL  string `json:"profileImageUrl"`
		AdminInviteToken string `json:"adminInviteToken"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		writeMessage(w, http.StatusBadRequest, "Name, email and password are required")
		return
	}

	user, err := h.Service.Register(r.Context(), services.RegisterInput{
		Name:             req.Name,
		Email:            req.Email,
		Password:         req.Password,
		ProfileImageURL:  req.ProfileImageURL,
		AdminInviteToken: req.AdminInviteToken,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	resp, err := authResponseFor(user)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	user, err := h.Service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	resp, err := authResponseFor(user)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetProfile handles GET /api/auth/profile.
func (h *AuthHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	profile, err := h.Service.GetProfile(r.Context(), user.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// UpdateProfile handles PUT /api/auth/profile.
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req struct {
		Name            string `json:"name"`
		Email           string `json:"email"`
		ProfileImageURL string `json:"profileImageUrl"`
		Password        string `json:"password"`
		OldPassword     string `json:"oldPassword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	updated, err := h.Service.UpdateProfile(r.Context(), user.ID, services.ProfileUpdate{
		Name:            req.Name,
		Email:           req.Email,
		ProfileImageURL: req.ProfileImageURL,
		Password:        req.Password,
		OldPassword:     req.OldPassword,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	resp, err := authResponseFor(updated)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
