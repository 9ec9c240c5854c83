package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ars-patel/TaskHub-Backend/services"
)

// CommentProvider is the slice of the comment service the handler depends on.
type CommentProvider interface {
	ListComments(ctx context.Context, taskID primitive.ObjectID) ([]services.CommentWithUsers, error)
	AddComment(ctx context.Context, taskID, authorID primitive.ObjectID, text string) (*services.CommentWithUsers, error)
	EditComment(ctx context.Context, taskID, commentID, userID primitive.ObjectID, text string) (*services.CommentWithUsers, error)
	DeleteComment(ctx context.Context, taskID, commentID, userID primitive.ObjectID) error
	DeleteAllComments(ctx context.Context, taskID, userID primitive.ObjectID) (int64, error)
	ToggleReaction(ctx context.Context, taskID, commentID, userID primitive.ObjectID, emoji string) (*services.CommentWithUsers, error)
}

var _ CommentProvider = (*services.CommentService)(nil)

type CommentHandler struct {
	Service CommentProvider
}

func NewCommentHandler(service CommentProvider) *CommentHandler {
	return &CommentHandler{Service: service}
}

func commentPathIDs(w http.ResponseWriter, r *http.Request) (taskID, commentID primitive.ObjectID, ok bool) {
	vars := mux.Vars(r)
	taskID, err := primitive.ObjectIDFromHex(vars["taskId"])
	if err != nil {
		writeMessage(w, http.StatusNotFound, "Task not found")
		return primitive.NilObjectID, primitive.NilObjectID, false
	}
	if hex, present := vars["commentId"]; present {
		commentID, err = primitive.ObjectIDFromHex(hex)
		if err != nil {
			writeMessage(w, http.StatusNotFound, "Comment not found")
			return primitive.NilObjectID, primitive.NilObjectID, false
		}
	}
	return taskID, commentID, true
}

// ListComments handles GET /api/tasks/{taskId}/comments.
func (h *CommentHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	taskID, _, ok := commentPathIDs(w, r)
	if !ok {
		return
	}

	comments, err := h.Service.ListComments(r.Context(), taskID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, comments)
}

// AddComment handles POST /api/tasks/{taskId}/comments.
func (h *CommentHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	user, ok := requestUser(w, r)
	if !ok {
		return
	}
	taskID, _, ok := commentPathIDs(w, r)
	if !ok {
		return
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Text == "" {
		writeMessage(w, http.StatusBadRequest, "Comment text is required")
		return
	}

	comment, err := h.Service.AddComment(r.Context(), taskID, user.ID, req.Text)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, comment)
}

// EditComment handles PUT /api/tasks/{taskId}/comments/{commentId}.
func (h *CommentHandler) EditComment(w http.ResponseWriter, r *http.Request) {
	user, ok := requestUser(w, r)
	if !ok {
		return
	}
	taskID, commentID, ok := commentPathIDs(w, r)
	if !ok {
		return
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Text == "" {
		writeMessage(w, http.StatusBadRequest, "Comment text is required")
		return
	}

	comment, err := h.Service.EditComment(r.Context(), taskID, commentID, user.ID, req.Text)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, comment)
}

// DeleteComment handles DELETE /api/tasks/{taskId}/comments/{commentId}.
func (h *CommentHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	user, ok := requestUser(w, r)
	if !ok {
		return
	}
	taskID, commentID, ok := commentPathIDs(w, r)
	if !ok {
		return
	}

	if err := h.Service.DeleteComment(r.Context(), taskID, commentID, user.ID); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Comment deleted successfully")
}

// DeleteAllComments handles DELETE /api/tasks/{taskId}/comments.
func (h *CommentHandler) DeleteAllComments(w http.ResponseWriter, r *http.Request) {
	user, ok := requestUser(w, r)
	if !ok {
		return
	}
	taskID, _, ok := commentPathIDs(w, r)
	if !ok {
		return
	}

	deleted, err := h.Service.DeleteAllComments(r.Context(), taskID, user.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, fmt.Sprintf("Deleted %d comments successfully", deleted))
}

// AddReaction handles POST /api/tasks/{taskId}/comments/{commentId}/reactions.
// Reactions toggle: posting the same (user, emoji) pair twice removes it.
func (h *CommentHandler) AddReaction(w http.ResponseWriter, r *http.Request) {
	user, ok := requestUser(w, r)
	if !ok {
		return
	}
	taskID, commentID, ok := commentPathIDs(w, r)
	if !ok {
		return
	}

	var req struct {
		Emoji string `json:"emoji"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Emoji == "" {
		writeMessage(w, http.StatusBadRequest, "Emoji is required")
		return
	}

	comment, err := h.Service.ToggleReaction(r.Context(), taskID, commentID, user.ID, req.Emoji)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, comment)
}
