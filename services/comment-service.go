package services

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ars-patel/TaskHub-Backend/models"
)

// CommentService implements threaded comments on tasks with toggleable
// emoji reactions.
type CommentService struct {
	Comments *mongo.Collection
	Tasks    *mongo.Collection
	Users    *mongo.Collection
}

func NewCommentService(comments, tasks, users *mongo.Collection) *CommentService {
	return &CommentService{Comments: comments, Tasks: tasks, Users: users}
}

// ReactionWithUser is a reaction with its user resolved to display fields.
type ReactionWithUser struct {
	Emoji string         `json:"emoji"`
	User  models.UserRef `json:"user"`
}

// CommentWithUsers is the response projection: author and reaction users
// resolved to {name, profileImageUrl}.
type CommentWithUsers struct {
	models.Comment
	Author    models.UserRef     `json:"author"`
	Reactions []ReactionWithUser `json:"reactions"`
}

// ListComments returns a task's comments newest-first, with author and
// reaction identities resolved.
func (s *CommentService) ListComments(ctx context.Context, taskID primitive.ObjectID) ([]CommentWithUsers, error) {
	cursor, err := s.Comments.Find(ctx, bson.M{"task": taskID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve comments: %v", err)
	}
	defer cursor.Close(ctx)

	var comments []models.Comment
	if err := cursor.All(ctx, &comments); err != nil {
		return nil, fmt.Errorf("failed to decode comments: %v", err)
	}

	return s.withUsers(ctx, comments)
}

// AddComment creates a comment on an existing task. Any authenticated user
// may comment; there is deliberately no tenant check here.
func (s *CommentService) AddComment(ctx context.Context, taskID, authorID primitive.ObjectID, text string) (*CommentWithUsers, error) {
	var task models.Task
	if err := s.Tasks.FindOne(ctx, bson.M{"_id": taskID}).Decode(&task); err != nil {
		return nil, lookupErr(err, ErrTaskNotFound)
	}

	now := time.Now()
	comment := models.Comment{
		ID:        primitive.NewObjectID(),
		Text:      text,
		Task:      taskID,
		Author:    authorID,
		Reactions: []models.Reaction{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := s.Comments.InsertOne(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %v", err)
	}

	return s.one(ctx, comment)
}

// EditComment changes the text of a comment. Author-only; marks it edited.
func (s *CommentService) EditComment(ctx context.Context, taskID, commentID, userID primitive.ObjectID, text string) (*CommentWithUsers, error) {
	comment, err := s.taskComment(ctx, taskID, commentID)
	if err != nil {
		return nil, err
	}
	if comment.Author != userID {
		return nil, ErrNotAuthorized
	}

	comment.Text = text
	comment.IsEdited = true
	comment.UpdatedAt = time.Now()

	update := bson.M{"$set": bson.M{"text": comment.Text, "isEdited": true, "updatedAt": comment.UpdatedAt}}
	if _, err := s.Comments.UpdateOne(ctx, bson.M{"_id": commentID}, update); err != nil {
		return nil, fmt.Errorf("failed to update comment: %v", err)
	}

	return s.one(ctx, *comment)
}

// DeleteComment removes a single comment. Author-only.
func (s *CommentService) DeleteComment(ctx context.Context, taskID, commentID, userID primitive.ObjectID) error {
	comment, err := s.taskComment(ctx, taskID, commentID)
	if err != nil {
		return err
	}
	if comment.Author != userID {
		return ErrNotAuthorized
	}

	if _, err := s.Comments.DeleteOne(ctx, bson.M{"_id": commentID}); err != nil {
		return fmt.Errorf("failed to delete comment: %v", err)
	}
	return nil
}

// DeleteAllComments bulk-deletes every comment on a task. Only the task's
// owning admin may do this. Returns the number of deleted comments.
func (s *CommentService) DeleteAllComments(ctx context.Context, taskID, userID primitive.ObjectID) (int64, error) {
	var task models.Task
	if err := s.Tasks.FindOne(ctx, bson.M{"_id": taskID}).Decode(&task); err != nil {
		return 0, lookupErr(err, ErrTaskNotFound)
	}
	if task.Admin != userID {
		return 0, ErrNotAuthorized
	}

	result, err := s.Comments.DeleteMany(ctx, bson.M{"task": taskID})
	if err != nil {
		return 0, fmt.Errorf("failed to delete comments: %v", err)
	}
	return result.DeletedCount, nil
}

// ToggleReaction adds the (user, emoji) reaction, or removes it if already
// present. Applying it twice is a no-op overall.
func (s *CommentService) ToggleReaction(ctx context.Context, taskID, commentID, userID primitive.ObjectID, emoji string) (*CommentWithUsers, error) {
	comment, err := s.taskComment(ctx, taskID, commentID)
	if err != nil {
		return nil, err
	}

	comment.ToggleReaction(userID, emoji)
	comment.UpdatedAt = time.Now()

	update := bson.M{"$set": bson.M{"reactions": comment.Reactions, "updatedAt": comment.UpdatedAt}}
	if _, err := s.Comments.UpdateOne(ctx, bson.M{"_id": commentID}, update); err != nil {
		return nil, fmt.Errorf("failed to update reactions: %v", err)
	}

	return s.one(ctx, *comment)
}

// taskComment loads a comment and verifies it belongs to the given task.
func (s *CommentService) taskComment(ctx context.Context, taskID, commentID primitive.ObjectID) (*models.Comment, error) {
	var comment models.Comment
	if err := s.Comments.FindOne(ctx, bson.M{"_id": commentID}).Decode(&comment); err != nil {
		return nil, lookupErr(err, ErrCommentNotFound)
	}
	if comment.Task != taskID {
		return nil, ErrCommentTaskMismatch
	}
	return &comment, nil
}

func (s *CommentService) one(ctx context.Context, comment models.Comment) (*CommentWithUsers, error) {
	resolved, err := s.withUsers(ctx, []models.Comment{comment})
	if err != nil {
		return nil, err
	}
	return &resolved[0], nil
}

// withUsers resolves authors and reaction users in one batched query.
func (s *CommentService) withUsers(ctx context.Context, comments []models.Comment) ([]CommentWithUsers, error) {
	ids := make([]primitive.ObjectID, 0)
	seen := make(map[primitive.ObjectID]bool)
	collect := func(id primitive.ObjectID) {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	for _, comment := range comments {
		collect(comment.Author)
		for _, r := range comment.Reactions {
			collect(r.User)
		}
	}

	refs, err := resolveUserRefs(ctx, s.Users, ids)
	if err != nil {
		return nil, err
	}

	resolved := make([]CommentWithUsers, 0, len(comments))
	for _, comment := range comments {
		reactions := make([]ReactionWithUser, 0, len(comment.Reactions))
		for _, r := range comment.Reactions {
			reactions = append(reactions, ReactionWithUser{Emoji: r.Emoji, User: refs[r.User]})
		}
		resolved = append(resolved, CommentWithUsers{
			Comment:   comment,
			Author:    refs[comment.Author],
			Reactions: reactions,
		})
	}
	return resolved, nil
}
