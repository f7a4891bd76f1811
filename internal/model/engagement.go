package model

import (
	"time"

	"github.com/google/uuid"
)

// Comment is a user comment on a product.
type Comment struct {
	ID        uuid.UUID     `json:"id" db:"id"`
	ProductID uuid.UUID     `json:"productId" db:"product_id"`
	UserID    uuid.UUID     `json:"userId" db:"user_id"`
	Content   string        `json:"content" db:"content"`
	CreatedAt time.Time     `json:"createdAt" db:"created_at"`
	User      CommentAuthor `json:"user"`
}

// CommentAuthor is the public part of a comment's author.
type CommentAuthor struct {
	Name  string `json:"name"`
	Image string `json:"image"`
}

// CommentRequest is the payload for posting a comment.
type CommentRequest struct {
	Content string `json:"content"`
}

// LikeStatus is the like count of a product and whether the caller liked it.
type LikeStatus struct {
	Likes int  `json:"likes"`
	Liked bool `json:"liked"`
}

// ViewCount is the number of recorded views of a product.
type ViewCount struct {
	Views int `json:"views"`
}
