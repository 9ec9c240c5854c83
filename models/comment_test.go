package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ars-patel/TaskHub-Backend/models"
)

func TestToggleReaction_AddsWhenAbsent(t *testing.T) {
	userID := primitive.NewObjectID()
	comment := models.Comment{Reactions: []models.Reaction{}}

	comment.ToggleReaction(userID, "👍")

	assert.Len(t, comment.Reactions, 1)
	assert.Equal(t, "👍", comment.Reactions[0].Emoji)
	assert.Equal(t, userID, comment.Reactions[0].User)
}

func TestToggleReaction_RemovesWhenPresent(t *testing.T) {
	userID := primitive.NewObjectID()
	comment := models.Comment{Reactions: []models.Reaction{{Emoji: "👍", User: userID}}}

	comment.ToggleReaction(userID, "👍")

	assert.Empty(t, comment.Reactions)
}

// Toggling twice must return the reaction set to its original state.
func TestToggleReaction_SelfInverse(t *testing.T) {
	alice := primitive.NewObjectID()
	bob := primitive.NewObjectID()
	original := []models.Reaction{
		{Emoji: "🎉", User: alice},
		{Emoji: "👍", User: bob},
	}

	comment := models.Comment{Reactions: append([]models.Reaction(nil), original...)}
	comment.ToggleReaction(alice, "👀")
	comment.ToggleReaction(alice, "👀")

	assert.Equal(t, original, comment.Reactions)
}

func TestToggleReaction_SameEmojiDifferentUsers(t *testing.T) {
	alice := primitive.NewObjectID()
	bob := primitive.NewObjectID()

	comment := models.Comment{Reactions: []models.Reaction{{Emoji: "👍", User: alice}}}
	comment.ToggleReaction(bob, "👍")

	assert.Len(t, comment.Reactions, 2)

	// Removing bob's reaction leaves alice's untouched.
	comment.ToggleReaction(bob, "👍")
	assert.Equal(t, []models.Reaction{{Emoji: "👍", User: alice}}, comment.Reactions)
}
