package handlers

import (
	"context"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ars-patel/TaskHub-Backend/services"
)

// DashboardProvider is the slice of the dashboard service the handler depends on.
type DashboardProvider interface {
	ForAdmin(ctx context.Context, adminID primitive.ObjectID) (*services.DashboardData, error)
	ForMember(ctx context.Context, tenantID, userID primitive.ObjectID) (*services.DashboardData, error)
}

var _ DashboardProvider = (*services.DashboardService)(nil)

type DashboardHandler struct {
	Service DashboardProvider
}

func NewDashboardHandler(service DashboardProvider) *DashboardHandler {
	return &DashboardHandler{Service: service}
}

// AdminDashboard handles GET /api/dashboard/admin. Always scoped to the
// caller as the literal tenant admin.
func (h *DashboardHandler) AdminDashboard(w http.ResponseWriter, r *http.Request) {
	user, ok := requestUser(w, r)
	if !ok {
		return
	}

	data, err := h.Service.ForAdmin(r.Context(), user.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, data)
}

// MemberDashboard handles GET /api/dashboard/member. Scoped to the caller's
// tenant and their own assignments.
func (h *DashboardHandler) MemberDashboard(w http.ResponseWriter, r *http.Request) {
	user, ok := requestUser(w, r)
	if !ok {
		return
	}

	tenant, err := user.TenantID()
	if err != nil {
		writeError(w, err)
		return
	}

	data, err := h.Service.ForMember(r.Context(), tenant, user.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, data)
}
