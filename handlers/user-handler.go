package handlers

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ars-patel/TaskHub-Backend/middleware"
	"github.com/ars-patel/TaskHub-Backend/models"
	"github.com/ars-patel/TaskHub-Backend/services"
)

// UserProvider is the slice of the user service the handler depends on.
type UserProvider interface {
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetMembers(ctx context.Context, adminID primitive.ObjectID) ([]services.MemberWithCounts, error)
	DeleteUserFromTasksOnly(ctx context.Context, adminID, userID primitive.ObjectID) error
}

var _ UserProvider = (*services.UserService)(nil)

type UserHandler struct {
	Service UserProvider
}

func NewUserHandler(service UserProvider) *UserHandler {
	return &UserHandler{Service: service}
}

// GetMembers handles GET /api/users. Admin-only.
func (h *UserHandler) GetMembers(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok || user.Role != models.RoleAdmin {
		writeMessage(w, http.StatusForbidden, "Not authorized")
		return
	}

	members, err := h.Service.GetMembers(r.Context(), user.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, members)
}

// GetUserByID handles GET /api/users/{id}.
func (h *UserHandler) GetUserByID(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		writeMessage(w, http.StatusNotFound, "User not found")
		return
	}

	user, err := h.Service.GetUserByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// DeleteUser handles DELETE /api/users/{id}: removes the user from every task
// assignment in the admin's tenant, then deletes the user. Admin-only.
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok || user.Role != models.RoleAdmin {
		writeMessage(w, http.StatusForbidden, "Not authorized")
		return
	}

	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		writeMessage(w, http.StatusNotFound, "User not found")
		return
	}

	if err := h.Service.DeleteUserFromTasksOnly(r.Context(), user.ID, id); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "User removed and tasks updated. Tasks without members remain unassigned.")
}
