package models

import "time"

// ModerationAction is what auto-moderation decided for a post.
type ModerationAction string

const (
	ModerationNone   ModerationAction = "none"
	ModerationFlag   ModerationAction = "flag"
	ModerationRemove ModerationAction = "remove"
)

// SeverityCounts holds active report counts per severity.
type SeverityCounts map[Severity]int64

// ModerationDecision is the outcome of evaluating a post's active reports.
type ModerationDecision struct {
	PostID   uint             `json:"post_id"`
	Action   ModerationAction `json:"action"`
	Severity Severity         `json:"severity,omitempty"`
	Counts   SeverityCounts   `json:"counts"`
}

// ModerationEvent is emitted when a moderation action changed a post.
type ModerationEvent struct {
	PostID     uint             `json:"post_id"`
	AuthorID   uint             `json:"author_id"`
	Action     ModerationAction `json:"action"`
	Severity   Severity         `json:"severity"`
	Source     string           `json:"source"`
	OccurredAt time.Time        `json:"occurred_at"`
}

// Moderation event sources.
const (
	ModerationSourceAuto   = "auto"
	ModerationSourceReview = "review"
)
