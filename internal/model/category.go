package model

import (
	"time"

	"github.com/google/uuid"
)

// Category groups products under a routable slug.
type Category struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Title        string    `json:"title" db:"title"`
	Slug         string    `json:"slug" db:"slug"`
	Desc         string    `json:"desc" db:"description"`
	Color        string    `json:"color" db:"color"`
	Img          string    `json:"img" db:"img"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	ProductCount int       `json:"productCount"`
}

// CategoryRequest is the payload for creating or replacing a category.
type CategoryRequest struct {
	Title string `json:"title"`
	Slug  string `json:"slug"`
	Desc  string `json:"desc"`
	Color string `json:"color"`
	Img   string `json:"img"`
}

// CategoryPage is a page of categories with the total match count.
type CategoryPage struct {
	Categories []Category `json:"categories"`
	Total      int        `json:"total"`
	Page       int        `json:"page"`
}
