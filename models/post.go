package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

const MaxCommentLength = 1000

type Category struct {
	Name string `bson:"name" json:"name"`
	Slug string `bson:"slug" json:"slug"`
}

type Comment struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	User      primitive.ObjectID `bson:"user" json:"user"`
	Content   string             `bson:"content" json:"content"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

type Post struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Title         string               `bson:"title" json:"title"`
	Slug          string               `bson:"slug" json:"slug"`
	Content       string               `bson:"content" json:"content"`
	Excerpt       string               `bson:"excerpt,omitempty" json:"excerpt"`
	FeaturedImage string               `bson:"featuredImage,omitempty" json:"featuredImage,omitempty"`
	Category      Category             `bson:"category" json:"category"`
	Tags          []string             `bson:"tags" json:"tags"`
	Status        string               `bson:"status" json:"status"`
	Author        primitive.ObjectID   `bson:"author" json:"author"`
	Likes         []primitive.ObjectID `bson:"likes" json:"likes"`
	Comments      []Comment            `bson:"comments" json:"comments"`
	Views         int64                `bson:"views" json:"views"`
	CreatedAt     time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// LikedBy reports whether userID is already in the like set.
func (p *Post) LikedBy(userID primitive.ObjectID) bool {
	for _, id := range p.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

// FindComment returns the embedded comment with the given id, addressing
// by identifier rather than array position.
func (p *Post) FindComment(commentID primitive.ObjectID) *Comment {
	for i := range p.Comments {
		if p.Comments[i].ID == commentID {
			return &p.Comments[i]
		}
	}
	return nil
}
