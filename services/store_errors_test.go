package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ars-patel/TaskHub-Backend/models"
)

func TestLookupErr(t *testing.T) {
	assert.ErrorIs(t, lookupErr(mongo.ErrNoDocuments, ErrTaskNotFound), ErrTaskNotFound)
	assert.ErrorIs(t, lookupErr(mongo.ErrNoDocuments, ErrUserNotFound), ErrUserNotFound)

	dialErr := errors.New("server selection error: context deadline exceeded")
	mapped := lookupErr(dialErr, ErrTaskNotFound)
	assert.NotErrorIs(t, mapped, ErrTaskNotFound)
	assert.Contains(t, mapped.Error(), "failed to query store")
}

// unreachableCollection returns a collection handle whose every operation fails
// with a server selection error instead of a missing-document result.
func unreachableCollection(t *testing.T, name string) *mongo.Collection {
	t.Helper()

	opts := options.Client().
		ApplyURI("mongodb://127.0.0.1:1").
		SetServerSelectionTimeout(200 * time.Millisecond)
	client, err := mongo.Connect(context.Background(), opts)
	assert.NoError(t, err)
	t.Cleanup(func() { client.Disconnect(context.Background()) })

	return client.Database("taskhub_test").Collection(name)
}

func TestGetTask_StoreUnreachable(t *testing.T) {
	service := NewTaskService(unreachableCollection(t, "tasks"), unreachableCollection(t, "users"))
	user := &models.User{ID: primitive.NewObjectID(), Role: models.RoleAdmin}

	_, err := service.GetTask(context.Background(), primitive.NewObjectID(), user)

	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrTaskNotFound)
}

func TestLogin_StoreUnreachable(t *testing.T) {
	service := NewAuthService(unreachableCollection(t, "users"))

	_, err := service.Login(context.Background(), "alice@example.com", "password123")

	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegister_StoreUnreachable(t *testing.T) {
	service := NewAuthService(unreachableCollection(t, "users"))

	_, err := service.Register(context.Background(), RegisterInput{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "password123",
	})

	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrEmailTaken)
}

func TestGetUserByID_StoreUnreachable(t *testing.T) {
	service := NewUserService(unreachableCollection(t, "users"), unreachableCollection(t, "tasks"))

	_, err := service.GetUserByID(context.Background(), primitive.NewObjectID())

	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrUserNotFound)
}

func TestAddComment_StoreUnreachable(t *testing.T) {
	service := NewCommentService(
		unreachableCollection(t, "comments"),
		unreachableCollection(t, "tasks"),
		unreachableCollection(t, "users"),
	)

	_, err := service.AddComment(context.Background(), primitive.NewObjectID(), primitive.NewObjectID(), "hello")

	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrTaskNotFound)
}
