package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Mention struct {
	User   primitive.ObjectID `bson:"user" json:"user"`
	Offset int                `bson:"offset" json:"offset"`
	Length int                `bson:"length" json:"length"`
}

type Reaction struct {
	Emoji string             `bson:"emoji" json:"emoji"`
	User  primitive.ObjectID `bson:"user" json:"user"`
}

type Comment struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Text        string             `bson:"text" json:"text"`
	Task        primitive.ObjectID `bson:"task" json:"task"`
	Author      primitive.ObjectID `bson:"author" json:"author"`
	Mentions    []Mention          `bson:"mentions,omitempty" json:"mentions,omitempty"`
	Reactions   []Reaction         `bson:"reactions" json:"reactions"`
	Attachments []Attachment       `bson:"attachments,omitempty" json:"attachments,omitempty"`
	IsEdited    bool               `bson:"isEdited" json:"isEdited"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ToggleReaction removes the (user, emoji) reaction when present and appends
// it otherwise. Applying it twice restores the original reaction set.
func (c *Comment) ToggleReaction(userID primitive.ObjectID, emoji string) {
	for i, r := range c.Reactions {
		if r.User == userID && r.Emoji == emoji {
			c.Reactions = append(c.Reactions[:i], c.Reactions[i+1:]...)
			return
		}
	}
	c.Reactions = append(c.Reactions, Reaction{Emoji: emoji, User: userID})
}
