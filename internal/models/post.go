package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post represents a social media post stored in MongoDB. Likes holds the ids
// of every user that currently likes the post; the like toggle mutates it in
// place and bumps UpdatedAt. Comments holds comment ids in insertion order.
type Post struct {
	ID        primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	Content   string               `json:"content" bson:"content"`
	Image     string               `json:"image,omitempty" bson:"image,omitempty"`
	Author    primitive.ObjectID   `json:"author" bson:"author"`
	Likes     []primitive.ObjectID `json:"likes" bson:"likes"`
	Comments  []primitive.ObjectID `json:"comments" bson:"comments"`
	Hashtags  []string             `json:"hashtags,omitempty" bson:"hashtags,omitempty"`
	CreatedAt time.Time            `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time            `json:"updated_at" bson:"updated_at"`
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	Content string `json:"content" validate:"required,min=1,max=500"`
	Image   string `json:"image,omitempty" validate:"omitempty,url"`
}

// Hashtag is a tag with its usage count, as returned by the trending endpoint
type Hashtag struct {
	Tag   string `json:"tag" bson:"_id"`
	Count int64  `json:"count" bson:"count"`
}
