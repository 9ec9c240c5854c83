package services

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ars-patel/TaskHub-Backend/models"
)

// UserService manages an admin's member roster.
type UserService struct {
	Users *mongo.Collection
	Tasks *mongo.Collection
}

func NewUserService(users, tasks *mongo.Collection) *UserService {
	return &UserService{Users: users, Tasks: tasks}
}

// GetUserByID is also used by the auth middleware to load the request identity.
func (s *UserService) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	if err := s.Users.FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		return nil, lookupErr(err, ErrUserNotFound)
	}
	return &user, nil
}

// MemberWithCounts decorates a member with task counts per status bucket.
type MemberWithCounts struct {
	models.User     `bson:",inline"`
	PendingTasks    int64 `json:"pendingTasks"`
	InProgressTasks int64 `json:"inProgressTasks"`
	CompletedTasks  int64 `json:"completedTasks"`
}

// GetMembers lists the members of the given admin's tenant, each with the
// number of pending, in-progress and completed tasks assigned to them.
func (s *UserService) GetMembers(ctx context.Context, adminID primitive.ObjectID) ([]MemberWithCounts, error) {
	cursor, err := s.Users.Find(ctx, bson.M{"role": models.RoleMember, "adminId": adminID})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch members: %v", err)
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode members: %v", err)
	}

	countByStatus := func(userID primitive.ObjectID, status models.TaskStatus) (int64, error) {
		return s.Tasks.CountDocuments(ctx, bson.M{"admin": adminID, "assignedTo": userID, "status": status})
	}

	members := make([]MemberWithCounts, 0, len(users))
	for _, user := range users {
		member := MemberWithCounts{User: user}

		var err error
		if member.PendingTasks, err = countByStatus(user.ID, models.StatusPending); err != nil {
			return nil, fmt.Errorf("failed to count tasks: %v", err)
		}
		if member.InProgressTasks, err = countByStatus(user.ID, models.StatusInProgress); err != nil {
			return nil, fmt.Errorf("failed to count tasks: %v", err)
		}
		if member.CompletedTasks, err = countByStatus(user.ID, models.StatusCompleted); err != nil {
			return nil, fmt.Errorf("failed to count tasks: %v", err)
		}

		members = append(members, member)
	}

	return members, nil
}

// DeleteUserFromTasksOnly pulls the user out of every task assignment in the
// admin's tenant and then deletes the user record. Tasks are never deleted,
// even when they end up unassigned.
func (s *UserService) DeleteUserFromTasksOnly(ctx context.Context, adminID, userID primitive.ObjectID) error {
	filter := bson.M{"admin": adminID, "assignedTo": userID}
	if _, err := s.Tasks.UpdateMany(ctx, filter, bson.M{"$pull": bson.M{"assignedTo": userID}}); err != nil {
		return fmt.Errorf("failed to unassign user from tasks: %v", err)
	}

	result, err := s.Users.DeleteOne(ctx, bson.M{"_id": userID})
	if err != nil {
		return fmt.Errorf("failed to delete user: %v", err)
	}
	if result.DeletedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}
