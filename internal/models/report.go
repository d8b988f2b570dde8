package models

import "time"

// ReportReason is why a user reported a post.
type ReportReason string

const (
	ReasonSpam             ReportReason = "spam"
	ReasonHarassment       ReportReason = "harassment"
	ReasonHateSpeech       ReportReason = "hate_speech"
	ReasonViolence         ReportReason = "violence"
	ReasonNudity           ReportReason = "nudity"
	ReasonFalseInformation ReportReason = "false_information"
	ReasonCopyright        ReportReason = "copyright"
	ReasonSuicideSelfHarm  ReportReason = "suicide_self_harm"
	ReasonDangerousActs    ReportReason = "dangerous_acts"
	ReasonMinorSafety      ReportReason = "minor_safety"
	ReasonOther            ReportReason = "other"
)

// Severity ranks a report reason.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// SeveritiesDescending lists severities from most to least severe.
var SeveritiesDescending = []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow}

// ParseSeverity validates a severity string.
func ParseSeverity(s string) (Severity, bool) {
	switch sev := Severity(s); sev {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return sev, true
	}
	return "", false
}

// AtLeastHigh reports whether the severity warrants removal on resolution.
func (s Severity) AtLeastHigh() bool {
	return s == SeverityHigh || s == SeverityCritical
}

type reasonInfo struct {
	label    string
	severity Severity
}

var reasonTable = map[ReportReason]reasonInfo{
	ReasonSpam:             {"Spam", SeverityLow},
	ReasonHarassment:       {"Harassment or bullying", SeverityMedium},
	ReasonHateSpeech:       {"Hate speech", SeverityHigh},
	ReasonViolence:         {"Violence or dangerous behavior", SeverityHigh},
	ReasonNudity:           {"Nudity or sexual content", SeverityMedium},
	ReasonFalseInformation: {"False information", SeverityLow},
	ReasonCopyright:        {"Copyright violation", SeverityLow},
	ReasonSuicideSelfHarm:  {"Suicide or self-harm", SeverityCritical},
	ReasonDangerousActs:    {"Dangerous acts", SeverityMedium},
	ReasonMinorSafety:      {"Minor safety", SeverityCritical},
	ReasonOther:            {"Other", SeverityLow},
}

// reasonOrder fixes the order reasons are presented in.
var reasonOrder = []ReportReason{
	ReasonSpam, ReasonHarassment, ReasonHateSpeech, ReasonViolence, ReasonNudity,
	ReasonFalseInformation, ReasonCopyright, ReasonSuicideSelfHarm, ReasonDangerousActs,
	ReasonMinorSafety, ReasonOther,
}

// ParseReportReason validates a reason string.
func ParseReportReason(s string) (ReportReason, bool) {
	r := ReportReason(s)
	_, ok := reasonTable[r]
	return r, ok
}

// Severity returns the fixed severity of a reason. Unknown reasons are low;
// intake rejects them before this is consulted.
func (r ReportReason) Severity() Severity {
	if info, ok := reasonTable[r]; ok {
		return info.severity
	}
	return SeverityLow
}

// Label is the human readable reason.
func (r ReportReason) Label() string {
	return reasonTable[r].label
}

// ReasonOption describes a reason for report forms.
type ReasonOption struct {
	Value    ReportReason `json:"value"`
	Label    string       `json:"label"`
	Severity Severity     `json:"severity"`
}

// ReportReasonOptions lists every reason with its label and severity.
func ReportReasonOptions() []ReasonOption {
	out := make([]ReasonOption, 0, len(reasonOrder))
	for _, r := range reasonOrder {
		info := reasonTable[r]
		out = append(out, ReasonOption{Value: r, Label: info.label, Severity: info.severity})
	}
	return out
}

// ReportStatus is the review state of a report.
type ReportStatus string

const (
	ReportStatusPending     ReportStatus = "pending"
	ReportStatusUnderReview ReportStatus = "under_review"
	ReportStatusResolved    ReportStatus = "resolved"
	ReportStatusDismissed   ReportStatus = "dismissed"
)

// ActiveReportStatuses are the statuses counted by auto-moderation.
var ActiveReportStatuses = []ReportStatus{ReportStatusPending, ReportStatusUnderReview}

var reportTransitions = map[ReportStatus][]ReportStatus{
	ReportStatusPending:     {ReportStatusUnderReview, ReportStatusResolved, ReportStatusDismissed},
	ReportStatusUnderReview: {ReportStatusResolved, ReportStatusDismissed},
}

// ParseReportStatus validates a status string.
func ParseReportStatus(s string) (ReportStatus, bool) {
	switch st := ReportStatus(s); st {
	case ReportStatusPending, ReportStatusUnderReview, ReportStatusResolved, ReportStatusDismissed:
		return st, true
	}
	return "", false
}

// CanTransitionTo reports whether the status may move to next.
func (s ReportStatus) CanTransitionTo(next ReportStatus) bool {
	for _, allowed := range reportTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transition is possible.
func (s ReportStatus) Terminal() bool {
	return len(reportTransitions[s]) == 0
}

// Report is a user's complaint about a post. Reports are never deleted.
type Report struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	PostID      uint         `gorm:"not null;uniqueIndex:idx_reports_post_reporter;index:idx_reports_post_status,priority:1" json:"post_id"`
	ReportedBy  uint         `gorm:"not null;uniqueIndex:idx_reports_post_reporter" json:"reported_by"`
	Reason      ReportReason `gorm:"type:varchar(32);not null" json:"reason"`
	Description string       `gorm:"type:text" json:"description,omitempty"`
	Severity    Severity     `gorm:"type:varchar(16);not null;index" json:"severity"`
	Status      ReportStatus `gorm:"type:varchar(16);not null;default:'pending';index:idx_reports_post_status,priority:2" json:"status"`
	AdminNotes  string       `gorm:"type:text" json:"admin_notes,omitempty"`
	ReviewedBy  *uint        `json:"reviewed_by,omitempty"`
	ReviewedAt  *time.Time   `json:"reviewed_at,omitempty"`
	CreatedAt   time.Time    `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`

	Post     Post `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
	Reporter User `gorm:"foreignKey:ReportedBy;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for GORM
func (Report) TableName() string {
	return "reports"
}

// ReportFilter narrows a report listing. Zero fields are ignored.
type ReportFilter struct {
	Status     ReportStatus
	Reason     ReportReason
	Severity   Severity
	PostID     uint
	ReportedBy uint
}

// ReportList is a page of reports.
type ReportList struct {
	Reports    []Report   `json:"reports"`
	Pagination Pagination `json:"pagination"`
}
