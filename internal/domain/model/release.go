package model

import "time"

// Release is a published version of the application.
type Release struct {
	TagName     string
	Name        string
	HTMLURL     string
	Body        string
	PublishedAt time.Time
}
