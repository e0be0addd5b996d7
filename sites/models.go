package sites

import (
	"fmt"
	"time"
)

// Site is a website registered for the comment service.
type Site struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Domain      string    `json:"domain"`
	APIKey      string    `json:"apiKey"`
	IsActive    bool      `json:"isActive"`
	CORSOrigins []string  `json:"corsOrigins"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (s Site) clone() Site {
	s.CORSOrigins = append([]string(nil), s.CORSOrigins...)
	return s
}

// SiteCreateInput is the payload for registering a site.
type SiteCreateInput struct {
	Name        string   `json:"name"`
	Domain      string   `json:"domain"`
	CORSOrigins []string `json:"corsOrigins"`
}

// SiteUpdateInput changes a site. Nil fields are left untouched; domain and API key
// cannot be changed.
type SiteUpdateInput struct {
	Name        *string  `json:"name,omitempty"`
	IsActive    *bool    `json:"isActive,omitempty"`
	CORSOrigins []string `json:"corsOrigins,omitempty"`
}

// SiteStats are the usage counters of a site.
type SiteStats struct {
	PostCount           int `json:"postCount"`
	CommentCount        int `json:"commentCount"`
	DeletedCommentCount int `json:"deletedCommentCount"`
}

// SitePost is a page of a site that has comments.
type SitePost struct {
	ID                  int64     `json:"id"`
	SiteID              int64     `json:"siteId"`
	URL                 string    `json:"url"`
	Title               *string   `json:"title,omitempty"`
	ActiveCommentCount  int       `json:"activeCommentCount"`
	DeletedCommentCount int       `json:"deletedCommentCount"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

// View paths used as cache keys. They match the console routes that render them.
const ListPath = "/sites"

// DetailPath is the view path of a single site.
func DetailPath(id int64) string {
	return fmt.Sprintf("/sites/%d", id)
}

func apiPath(id int64) string {
	return fmt.Sprintf("/admin/sites/%d", id)
}
