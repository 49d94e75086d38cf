package clicks

import "time"

// TopicLinkVisited carries one event per resolved visit.
const TopicLinkVisited = "link.visited"

// VisitEvent represents a visit to a short link. It is published from the
// redirect path without awaiting delivery; the counter settles
// asynchronously.
type VisitEvent struct {
	Slug      string    `json:"slug"`
	VisitedAt time.Time `json:"visitedAt"`
	ClientIP  string    `json:"clientIp,omitempty"`
	UserAgent string    `json:"userAgent,omitempty"`
	Referrer  string    `json:"referrer,omitempty"`
}
