package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type StatCounter struct {
	Count       int64     `bson:"count" json:"count"`
	LastUpdated time.Time `bson:"lastUpdated" json:"lastUpdated"`
}

type StatPercentage struct {
	Percentage  float64   `bson:"percentage" json:"percentage"`
	LastUpdated time.Time `bson:"lastUpdated" json:"lastUpdated"`
}

// Stats is a singleton document, lazily created on first read of the
// public stats endpoint. User and post counts are recomputed live on
// every read; the rest is manual.
type Stats struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ActiveUsers      StatCounter        `bson:"activeUsers" json:"activeUsers"`
	PublishedPosts   StatCounter        `bson:"publishedPosts" json:"publishedPosts"`
	CountriesReached StatCounter        `bson:"countriesReached" json:"countriesReached"`
	Uptime           StatPercentage     `bson:"uptime" json:"uptime"`
}
