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

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserService) GetMembers(ctx context.Context, adminID primitive.ObjectID) ([]services.MemberWithCounts, error) {
	args := m.Called(ctx, adminID)
	if v := args.Get(0); v != nil {
		return v.([]services.MemberWithCounts), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserService) DeleteUserFromTasksOnly(ctx context.Context, adminID, userID primitive.ObjectID) error {
	args := m.Called(ctx, adminID, userID)
	return args.Error(0)
}

func setupUserTest() (*mux.Router, *MockUserService) {
	mockService := new(MockUserService)
	userHandler := handlers.NewUserHandler(mockService)

	r := mux.NewRouter()
	r.HandleFunc("/api/users", userHandler.GetMembers).Methods(http.MethodGet)
	r.HandleFunc("/api/users/{id}", userHandler.GetUserByID).Methods(http.MethodGet)
	r.HandleFunc("/api/users/{id}", userHandler.DeleteUser).Methods(http.MethodDelete)
	return r, mockService
}

func TestGetMembers_WithTaskCounts(t *testing.T) {
	router, mockService := setupUserTest()
	user := adminUser()

	members := []services.MemberWithCounts{
		{
			User:            models.User{ID: primitive.NewObjectID(), Name: "Bob", Role: models.RoleMember},
			PendingTasks:    2,
			InProgressTasks: 1,
			CompletedTasks:  4,
		},
	}
	mockService.On("GetMembers", mock.Anything, user.ID).Return(members, nil)

	resp := serveAs(router, user, http.MethodGet, "/api/users", nil)

	assert.Equal(t, http.StatusOK, resp.Code)

	var body []struct {
		Name           string `json:"name"`
		PendingTasks   int64  `json:"pendingTasks"`
		CompletedTasks int64  `json:"completedTasks"`
	}
	assert.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Len(t, body, 1)
	assert.Equal(t, "Bob", body[0].Name)
	assert.Equal(t, int64(2), body[0].PendingTasks)
	assert.Equal(t, int64(4), body[0].CompletedTasks)
}

func TestGetMembers_MemberForbidden(t *testing.T) {
	router, mockService := setupUserTest()
	user := memberUser(primitive.NewObjectID())

	resp := serveAs(router, user, http.MethodGet, "/api/users", nil)

	assert.Equal(t, http.StatusForbidden, resp.Code)
	mockService.AssertNotCalled(t, "GetMembers")
}

func TestGetUserByID_HidesPassword(t *testing.T) {
	router, mockService := setupUserTest()
	target := &models.User{
		ID:       primitive.NewObjectID(),
		Name:     "Bob",
		Email:    "bob@example.com",
		Password: "$2a$10$secret",
		Role:     models.RoleMember,
	}
	mockService.On("GetUserByID", mock.Anything, target.ID).Return(target, nil)

	resp := serveAs(router, adminUser(), http.MethodGet, "/api/users/"+target.ID.Hex(), nil)

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.NotContains(t, resp.Body.String(), "secret")
	assert.Contains(t, resp.Body.String(), "bob@example.com")
}

func TestDeleteUser_PullsAssignments(t *testing.T) {
	router, mockService := setupUserTest()
	user := adminUser()
	targetID := primitive.NewObjectID()

	mockService.On("DeleteUserFromTasksOnly", mock.Anything, user.ID, targetID).Return(nil)

	resp := serveAs(router, user, http.MethodDelete, "/api/users/"+targetID.Hex(), nil)

	assert.Equal(t, http.StatusOK, resp.Code)

	var body map[string]string
	assert.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, "User removed and tasks updated. Tasks without members remain unassigned.", body["message"])
}

func TestDeleteUser_MemberForbidden(t *testing.T) {
	router, mockService := setupUserTest()
	user := memberUser(primitive.NewObjectID())
	targetID := primitive.NewObjectID()

	resp := serveAs(router, user, http.MethodDelete, "/api/users/"+targetID.Hex(), nil)

	assert.Equal(t, http.StatusForbidden, resp.Code)
	mockService.AssertNotCalled(t, "DeleteUserFromTasksOnly")
}
