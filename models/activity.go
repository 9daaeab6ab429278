package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	ActivityPostCreated     = "post_created"
	ActivityPostUpdated     = "post_updated"
	ActivityPostDeleted     = "post_deleted"
	ActivityCommentAdded    = "comment_added"
	ActivityCommentReceived = "comment_received"
	ActivityLikeGiven       = "like_given"
	ActivityLikeReceived    = "like_received"
	ActivityProfileUpdated  = "profile_updated"
)

type ActivityMetadata struct {
	Title      string              `bson:"title,omitempty" json:"title,omitempty"`
	PostTitle  string              `bson:"postTitle,omitempty" json:"postTitle,omitempty"`
	TargetUser *primitive.ObjectID `bson:"targetUser,omitempty" json:"targetUser,omitempty"`
}

// Activity is an append-only event record. Rows are never mutated or
// deleted individually, only bulk-cleared by the acting user.
type Activity struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	User      primitive.ObjectID  `bson:"user" json:"user"`
	Type      string              `bson:"type" json:"type"`
	Post      *primitive.ObjectID `bson:"post,omitempty" json:"post,omitempty"`
	Comment   *primitive.ObjectID `bson:"comment,omitempty" json:"comment,omitempty"`
	Metadata  ActivityMetadata    `bson:"metadata,omitempty" json:"metadata"`
	CreatedAt time.Time           `bson:"createdAt" json:"createdAt"`
}
