package service

import (
	"context"
	"errors"
	"log/slog"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"reelhub/internal/config"
	"reelhub/internal/models"
	"reelhub/internal/observability"
	"reelhub/internal/repository"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/time/rate"
)

// ModerationHook observes moderation actions that changed a post.
type ModerationHook func(ctx context.Context, ev models.ModerationEvent)

// ModerationThresholds are the active report counts per severity at which
// auto-moderation acts.
type ModerationThresholds struct {
	Critical int64
	High     int64
	Medium   int64
	Low      int64
}

// DefaultModerationThresholds returns critical>=1 and high>=3 (remove),
// medium>=5 and low>=10 (flag).
func DefaultModerationThresholds() ModerationThresholds {
	return ModerationThresholds{Critical: 1, High: 3, Medium: 5, Low: 10}
}

// ModerationThresholdsFromConfig reads MODERATION_* thresholds.
func ModerationThresholdsFromConfig(cfg *config.Config) ModerationThresholds {
	t := DefaultModerationThresholds()
	if cfg == nil {
		return t
	}
	if cfg.ModerationCriticalThreshold > 0 {
		t.Critical = cfg.ModerationCriticalThreshold
	}
	if cfg.ModerationHighThreshold > 0 {
		t.High = cfg.ModerationHighThreshold
	}
	if cfg.ModerationMediumThreshold > 0 {
		t.Medium = cfg.ModerationMediumThreshold
	}
	if cfg.ModerationLowThreshold > 0 {
		t.Low = cfg.ModerationLowThreshold
	}
	return t
}

func (t ModerationThresholds) rule(sev models.Severity) (int64, models.ModerationAction) {
	switch sev {
	case models.SeverityCritical:
		return t.Critical, models.ModerationRemove
	case models.SeverityHigh:
		return t.High, models.ModerationRemove
	case models.SeverityMedium:
		return t.Medium, models.ModerationFlag
	default:
		return t.Low, models.ModerationFlag
	}
}

// Decide checks severities from most to least severe and returns the first
// rule whose threshold is met.
func Decide(counts models.SeverityCounts, t ModerationThresholds) (models.ModerationAction, models.Severity) {
	for _, sev := range models.SeveritiesDescending {
		threshold, action := t.rule(sev)
		if threshold > 0 && counts[sev] >= threshold {
			return action, sev
		}
	}
	return models.ModerationNone, ""
}

// SweepResult summarizes one pass over posts with active reports.
type SweepResult struct {
	Evaluated int `json:"evaluated"`
	Actions   int `json:"actions"`
	Failures  int `json:"failures"`
}

// ModerationService aggregates reports and applies auto-moderation.
type ModerationService struct {
	reportRepo repository.ReportRepository
	postRepo   repository.PostRepository
	thresholds ModerationThresholds
	now        func() time.Time

	mu    sync.RWMutex
	hooks []ModerationHook

	sweepLimit rate.Limit
	log        *slog.Logger
}

// NewModerationService returns a new ModerationService.
func NewModerationService(
	reportRepo repository.ReportRepository,
	postRepo repository.PostRepository,
	thresholds ModerationThresholds,
) *ModerationService {
	return &ModerationService{
		reportRepo: reportRepo,
		postRepo:   postRepo,
		thresholds: thresholds,
		now:        func() time.Time { return time.Now().UTC() },
		sweepLimit: rate.Inf,
	}
}

// SetLogger routes the service's logs to l instead of the process logger.
func (s *ModerationService) SetLogger(l *slog.Logger) {
	s.log = l
}

func (s *ModerationService) logger() *slog.Logger {
	return serviceLogger(s.log)
}

// SetSweepRate paces SweepActiveReports to perSecond posts. Zero or less
// removes the limit.
func (s *ModerationService) SetSweepRate(perSecond int) {
	if perSecond <= 0 {
		s.sweepLimit = rate.Inf
		return
	}
	s.sweepLimit = rate.Limit(perSecond)
}

// OnAction registers a hook called after every moderation action that
// changed a post.
func (s *ModerationService) OnAction(hook ModerationHook) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks = append(s.hooks, hook)
}

// ReportReasons lists every reason with its label and severity.
func (s *ModerationService) ReportReasons() []models.ReasonOption {
	return models.ReportReasonOptions()
}

// CreateReport records reporterID's report on postID and then evaluates the
// post for auto-moderation. Evaluation failures do not fail the report.
func (s *ModerationService) CreateReport(ctx context.Context, postID, reporterID uint, reason, description string) (report *models.Report, err error) {
	ctx, span := observability.StartServiceSpan(ctx, "ModerationService", "CreateReport",
		attribute.Int64("post_id", int64(postID)),
		attribute.Int64("reporter_id", int64(reporterID)),
		attribute.String("reason", reason),
	)
	defer func() { span.End(err) }()

	parsed, ok := models.ParseReportReason(reason)
	if !ok {
		return nil, models.NewValidationError("Unknown report reason: " + reason)
	}

	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.IsDeleted {
		return nil, models.NewNotFoundError("Post", postID)
	}
	if post.UserID == reporterID {
		return nil, models.ErrSelfReport
	}

	exists, err := s.reportRepo.Exists(ctx, postID, reporterID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, models.ErrDuplicateReport
	}

	report = &models.Report{
		PostID:      postID,
		ReportedBy:  reporterID,
		Reason:      parsed,
		Description: strings.TrimSpace(description),
		Severity:    parsed.Severity(),
		Status:      models.ReportStatusPending,
	}
	if err := s.reportRepo.Create(ctx, report); err != nil {
		return nil, err
	}
	observability.ReportsCreated.WithLabelValues(string(report.Severity)).Inc()

	if _, evalErr := s.EvaluateAutoModeration(ctx, postID); evalErr != nil {
		observability.ModerationEvaluationFailures.Inc()
		s.logger().ErrorContext(ctx, "Auto-moderation failed after report",
			slog.Uint64("post_id", uint64(postID)),
			slog.Uint64("report_id", uint64(report.ID)),
			slog.String("error", evalErr.Error()),
		)
	}
	return report, nil
}

// EvaluateAutoModeration counts the post's active reports by severity and
// applies the first threshold met. Running it twice changes nothing more.
func (s *ModerationService) EvaluateAutoModeration(ctx context.Context, postID uint) (decision *models.ModerationDecision, err error) {
	ctx, span := observability.StartServiceSpan(ctx, "ModerationService", "EvaluateAutoModeration",
		attribute.Int64("post_id", int64(postID)),
	)
	defer func() { span.End(err) }()

	counts, err := s.reportRepo.CountActiveBySeverity(ctx, postID)
	if err != nil {
		return nil, err
	}
	action, severity := Decide(counts, s.thresholds)
	decision = &models.ModerationDecision{PostID: postID, Action: action, Severity: severity, Counts: counts}
	span.AddAttributes(attribute.String("action", string(action)))

	if action == models.ModerationNone {
		return decision, nil
	}
	if _, err := s.ApplyModerationAction(ctx, postID, action, severity, models.ModerationSourceAuto); err != nil {
		return decision, err
	}
	return decision, nil
}

// ApplyModerationAction removes or flags a post. It reports whether the post
// changed; hooks only run when it did.
func (s *ModerationService) ApplyModerationAction(
	ctx context.Context, postID uint, action models.ModerationAction, severity models.Severity, source string,
) (bool, error) {
	if action == models.ModerationNone {
		return false, nil
	}
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return false, err
	}

	now := s.now()
	var changed bool
	switch action {
	case models.ModerationRemove:
		changed, err = s.postRepo.MarkRemoved(ctx, postID, now)
	case models.ModerationFlag:
		changed, err = s.postRepo.MarkFlagged(ctx, postID, now)
	default:
		return false, models.NewValidationError("Unknown moderation action: " + string(action))
	}
	if err != nil || !changed {
		return false, err
	}

	observability.ModerationActions.WithLabelValues(string(action), source).Inc()
	s.logger().InfoContext(ctx, "Moderation action applied",
		slog.Uint64("post_id", uint64(postID)),
		slog.String("action", string(action)),
		slog.String("severity", string(severity)),
		slog.String("source", source),
	)
	s.emit(ctx, models.ModerationEvent{
		PostID:     postID,
		AuthorID:   post.UserID,
		Action:     action,
		Severity:   severity,
		Source:     source,
		OccurredAt: now,
	})
	return true, nil
}

func (s *ModerationService) emit(ctx context.Context, ev models.ModerationEvent) {
	s.mu.RLock()
	hooks := make([]ModerationHook, len(s.hooks))
	copy(hooks, s.hooks)
	s.mu.RUnlock()

	for _, hook := range hooks {
		func() {
			defer func() {
				if r := recover(); r != nil {
					s.logger().ErrorContext(ctx, "PANIC in moderation hook",
						slog.Any("panic", r), slog.String("stack", string(debug.Stack())))
				}
			}()
			hook(ctx, ev)
		}()
	}
}

// UpdateReportStatus moves a report along its review workflow on behalf of a
// moderator. Resolving a high or critical report removes the post.
func (s *ModerationService) UpdateReportStatus(
	ctx context.Context, reportID, reviewerID uint, status, notes string,
) (report *models.Report, err error) {
	ctx, span := observability.StartServiceSpan(ctx, "ModerationService", "UpdateReportStatus",
		attribute.Int64("report_id", int64(reportID)),
		attribute.String("status", status),
	)
	defer func() { span.End(err) }()

	next, ok := models.ParseReportStatus(status)
	if !ok {
		return nil, models.NewValidationError("Unknown report status: " + status)
	}

	current, err := s.reportRepo.GetByID(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if !current.Status.CanTransitionTo(next) {
		return nil, models.NewInvalidTransitionError(current.Status, next)
	}

	report, err = s.reportRepo.UpdateStatus(ctx, reportID, repository.StatusChange{
		From:       current.Status,
		To:         next,
		ReviewerID: reviewerID,
		Notes:      strings.TrimSpace(notes),
		At:         s.now(),
	})
	if err != nil {
		return nil, err
	}

	if next == models.ReportStatusResolved && report.Severity.AtLeastHigh() {
		if _, err := s.ApplyModerationAction(ctx, report.PostID, models.ModerationRemove, report.Severity, models.ModerationSourceReview); err != nil {
			return report, err
		}
	}
	return report, nil
}

// ListReports returns reports matching filter, newest first.
func (s *ModerationService) ListReports(ctx context.Context, filter models.ReportFilter, page, limit int) (*models.ReportList, error) {
	page, limit = normalizePage(page, limit)
	reports, total, err := s.reportRepo.List(ctx, filter, page, limit)
	if err != nil {
		return nil, err
	}
	return &models.ReportList{Reports: reports, Pagination: models.NewPagination(page, limit, total)}, nil
}

// HasReported reports whether userID already reported postID.
func (s *ModerationService) HasReported(ctx context.Context, postID, userID uint) (bool, error) {
	return s.reportRepo.Exists(ctx, postID, userID)
}

// ReportsForPost lists every report on a post, newest first.
func (s *ModerationService) ReportsForPost(ctx context.Context, postID uint) ([]models.Report, error) {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, err
	}
	return s.reportRepo.ListByPost(ctx, postID)
}

// SweepActiveReports re-evaluates every post that still has active reports.
// It is the retry path for evaluations that failed at report time.
func (s *ModerationService) SweepActiveReports(ctx context.Context) (SweepResult, error) {
	var result SweepResult
	observability.LogAsyncOperationStart(ctx, "moderation_sweep", nil)

	ids, err := s.reportRepo.PostIDsWithActiveReports(ctx)
	if err != nil {
		observability.LogAsyncOperationError(ctx, "moderation_sweep", err, nil)
		return result, err
	}

	limiter := rate.NewLimiter(s.sweepLimit, 1)
	for _, id := range ids {
		if err := limiter.Wait(ctx); err != nil {
			return result, err
		}
		decision, err := s.EvaluateAutoModeration(ctx, id)
		result.Evaluated++
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return result, err
			}
			result.Failures++
			observability.ModerationEvaluationFailures.Inc()
			s.logger().WarnContext(ctx, "Sweep evaluation failed",
				slog.Uint64("post_id", uint64(id)), slog.String("error", err.Error()))
			continue
		}
		if decision.Action != models.ModerationNone {
			result.Actions++
		}
	}

	observability.LogAsyncOperationEnd(ctx, "moderation_sweep", map[string]interface{}{
		"evaluated": result.Evaluated,
		"actions":   result.Actions,
		"failures":  result.Failures,
	})
	return result, nil
}
