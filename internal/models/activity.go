package models

import "time"

// Activity event kinds
const (
	ActivityLike    = "like"
	ActivityComment = "comment"
	ActivityFollow  = "follow"
	ActivityMention = "mention"
)

// ActivityEvent is one entry of a user's recent-activity feed. Events are
// built fresh per request from current store state and never persisted, so
// the id is synthetic: composites like "<postID>-<likerID>" keep per-like
// events distinguishable without a dedicated collection.
type ActivityEvent struct {
	ID             string      `json:"id"`
	Kind           string      `json:"kind"`
	Actor          UserCompact `json:"actor"`
	RelatedContent string      `json:"related_content,omitempty"`
	OccurredAt     time.Time   `json:"occurred_at"`
}
