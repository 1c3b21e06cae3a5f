package models

import (
	"time"

	"spacetraveling/richtext"
)

// PostSummary is a post as shown in the home listing.
// FirstPublicationDate is nil for documents that were never published.
type PostSummary struct {
	UID                  string     `json:"uid,omitempty"`
	FirstPublicationDate *time.Time `json:"first_publication_date"`
	Title                string     `json:"title"`
	Subtitle             string     `json:"subtitle"`
	Author               string     `json:"author"`
}

// PostDetail is a fully loaded post for its own page.
type PostDetail struct {
	UID                  string     `json:"uid,omitempty"`
	FirstPublicationDate *time.Time `json:"first_publication_date"`
	Title                string     `json:"title"`
	Subtitle             string     `json:"subtitle"`
	BannerURL            string     `json:"banner_url"`
	Author               string     `json:"author"`
	Content              []Section  `json:"content"`
}

// Section is one heading of a post body. Sections keep the CMS order.
type Section struct {
	Heading string           `json:"heading"`
	Body    []richtext.Block `json:"body"`
}
