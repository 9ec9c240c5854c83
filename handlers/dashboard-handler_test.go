package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ars-patel/TaskHub-Backend/handlers"
	"github.com/ars-patel/TaskHub-Backend/models"
	"github.com/ars-patel/TaskHub-Backend/services"
)

type MockDashboardService struct {
	mock.Mock
}

func (m *MockDashboardService) ForAdmin(ctx context.Context, adminID primitive.ObjectID) (*services.DashboardData, error) {
	args := m.Called(ctx, adminID)
	if v := args.Get(0); v != nil {
		return v.(*services.DashboardData), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDashboardService) ForMember(ctx context.Context, tenantID, userID primitive.ObjectID) (*services.DashboardData, error) {
	args := m.Called(ctx, tenantID, userID)
	if v := args.Get(0); v != nil {
		return v.(*services.DashboardData), args.Error(1)
	}
	return nil, args.Error(1)
}

func setupDashboardTest() (*mux.Router, *MockDashboardService) {
	mockService := new(MockDashboardService)
	dashboardHandler := handlers.NewDashboardHandler(mockService)

	r := mux.NewRouter()
	r.HandleFunc("/api/dashboard/admin", dashboardHandler.AdminDashboard).Methods(http.MethodGet)
	r.HandleFunc("/api/dashboard/member", dashboardHandler.MemberDashboard).Methods(http.MethodGet)
	return r, mockService
}

func sampleDashboard() *services.DashboardData {
	return &services.DashboardData{
		Statistics: services.DashboardStatistics{
			TotalTasks:     6,
			PendingTasks:   2,
			CompletedTasks: 3,
			OverdueTasks:   1,
		},
		Charts: services.DashboardCharts{
			TaskDistribution:   map[string]int64{"Pending": 2, "InProgress": 1, "Completed": 3, "All": 6},
			TaskPriorityLevels: map[string]int64{"Low": 1, "Medium": 3, "High": 2},
		},
		RecentTasks: []services.RecentTask{
			{ID: primitive.NewObjectID(), Title: "Latest", Status: models.StatusPending, Priority: models.PriorityHigh},
		},
	}
}

func TestAdminDashboard(t *testing.T) {
	router, mockService := setupDashboardTest()
	user := adminUser()

	mockService.On("ForAdmin", mock.Anything, user.ID).Return(sampleDashboard(), nil)

	resp := serveAs(router, user, http.MethodGet, "/api/dashboard/admin", nil)

	assert.Equal(t, http.StatusOK, resp.Code)

	var body struct {
		Statistics struct {
			TotalTasks   int64 `json:"totalTasks"`
			OverdueTasks int64 `json:"overdueTasks"`
		} `json:"statistics"`
		Charts struct {
			TaskDistribution map[string]int64 `json:"taskDistribution"`
		} `json:"charts"`
		RecentTasks []struct {
			Title string `json:"title"`
		} `json:"recentTasks"`
	}
	assert.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, int64(6), body.Statistics.TotalTasks)
	assert.Equal(t, int64(1), body.Statistics.OverdueTasks)
	assert.Equal(t, int64(6), body.Charts.TaskDistribution["All"])
	assert.Len(t, body.RecentTasks, 1)
	assert.Equal(t, "Latest", body.RecentTasks[0].Title)
}

func TestMemberDashboard_ScopedToTenant(t *testing.T) {
	router, mockService := setupDashboardTest()
	adminID := primitive.NewObjectID()
	user := memberUser(adminID)

	mockService.On("ForMember", mock.Anything, adminID, user.ID).Return(sampleDashboard(), nil)

	resp := serveAs(router, user, http.MethodGet, "/api/dashboard/member", nil)

	assert.Equal(t, http.StatusOK, resp.Code)
	mockService.AssertExpectations(t)
}

func TestMemberDashboard_NoTenant(t *testing.T) {
	router, mockService := setupDashboardTest()
	user := &models.User{ID: primitive.NewObjectID(), Name: "Orphan", Role: models.RoleMember}

	resp := serveAs(router, user, http.MethodGet, "/api/dashboard/member", nil)

	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	mockService.AssertNotCalled(t, "ForMember")
}
