// Package library holds each user's book collection and its reading state:
// status, page progress, rating and review.
package library

import (
	"errors"
	"fmt"
	"time"
)

var ErrNotFound = errors.New("library item not found")

const (
	StatusUnread   = "UNREAD"
	StatusReading  = "READING"
	StatusFinished = "FINISHED"
)

func ValidateStatus(status string) error {
	switch status {
	case StatusUnread, StatusReading, StatusFinished:
		return nil
	default:
		return fmt.Errorf("invalid status: %s", status)
	}
}

// Item is one book in a user's library: the book fields captured from a
// search result plus the reading state the user maintains.
type Item struct {
	ID            string    `json:"id"`
	UserID        string    `json:"-"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	Cover         string    `json:"cover"`
	Description   string    `json:"description"`
	Publisher     string    `json:"publisher"`
	PublishedDate string    `json:"published_date"`
	PageCount     int       `json:"page_count"`
	Categories    []string  `json:"categories"`
	ISBN          string    `json:"isbn"`
	Source        string    `json:"source"`
	Status        string    `json:"status"`
	CurrentPage   int       `json:"current_page"`
	Progress      int       `json:"progress"`
	Rating        int       `json:"rating"`
	Review        string    `json:"review,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Stats summarizes a library for profile pages.
type Stats struct {
	Total     int `json:"total"`
	Unread    int `json:"unread"`
	Reading   int `json:"reading"`
	Finished  int `json:"finished"`
	PagesRead int `json:"pages_read"`
}
