package repository

import (
	"context"
	"errors"
	"time"

	"reelhub/internal/models"
	"reelhub/internal/observability"

	"gorm.io/gorm"
)

// StatusChange is a guarded report status update.
type StatusChange struct {
	From       models.ReportStatus
	To         models.ReportStatus
	ReviewerID uint
	Notes      string
	At         time.Time
}

// ReportRepository defines persistence operations for reports.
type ReportRepository interface {
	Create(ctx context.Context, report *models.Report) error
	GetByID(ctx context.Context, id uint) (*models.Report, error)
	Exists(ctx context.Context, postID, reporterID uint) (bool, error)
	CountActiveBySeverity(ctx context.Context, postID uint) (models.SeverityCounts, error)
	UpdateStatus(ctx context.Context, id uint, change StatusChange) (*models.Report, error)
	List(ctx context.Context, filter models.ReportFilter, page, limit int) ([]models.Report, int64, error)
	ListByPost(ctx context.Context, postID uint) ([]models.Report, error)
	PostIDsWithActiveReports(ctx context.Context) ([]uint, error)
}

type reportRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewReportRepository creates a new report repository
func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db, log: observability.NewRepoLogger("reports")}
}

func (r *reportRepository) Create(ctx context.Context, report *models.Report) error {
	defer observability.TrackQuery("create", "reports")()
	if err := r.db.WithContext(ctx).Create(report).Error; err != nil {
		if isDuplicateKey(err) {
			return models.ErrDuplicateReport
		}
		r.log.LogError(ctx, err, "create")
		return storageErr(err)
	}
	r.log.LogMutation(ctx, "create", map[string]interface{}{"report_id": report.ID, "post_id": report.PostID})
	return nil
}

func (r *reportRepository) GetByID(ctx context.Context, id uint) (*models.Report, error) {
	var report models.Report
	if err := r.db.WithContext(ctx).First(&report, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Report", id)
		}
		return nil, storageErr(err)
	}
	return &report, nil
}

func (r *reportRepository) Exists(ctx context.Context, postID, reporterID uint) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Report{}).
		Where("post_id = ? AND reported_by = ?", postID, reporterID).
		Count(&n).Error; err != nil {
		return false, storageErr(err)
	}
	return n > 0, nil
}

// CountActiveBySeverity counts pending and under-review reports per severity.
func (r *reportRepository) CountActiveBySeverity(ctx context.Context, postID uint) (models.SeverityCounts, error) {
	var rows []struct {
		Severity models.Severity
		N        int64
	}
	if err := r.db.WithContext(ctx).Model(&models.Report{}).
		Select("severity, COUNT(*) AS n").
		Where("post_id = ? AND status IN ?", postID, models.ActiveReportStatuses).
		Group("severity").
		Scan(&rows).Error; err != nil {
		return nil, storageErr(err)
	}
	counts := make(models.SeverityCounts, len(models.SeveritiesDescending))
	for _, sev := range models.SeveritiesDescending {
		counts[sev] = 0
	}
	for _, row := range rows {
		counts[row.Severity] = row.N
	}
	return counts, nil
}

// UpdateStatus applies change only if the report is still in change.From.
// A report moved by someone else in the meantime yields an invalid transition.
func (r *reportRepository) UpdateStatus(ctx context.Context, id uint, change StatusChange) (*models.Report, error) {
	defer observability.TrackQuery("update_status", "reports")()
	var report models.Report
	err := inTx(ctx, r.db, func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"status":      change.To,
			"reviewed_by": change.ReviewerID,
			"reviewed_at": change.At,
			"updated_at":  change.At,
		}
		if change.Notes != "" {
			updates["admin_notes"] = change.Notes
		}
		res := tx.Model(&models.Report{}).
			Where("id = ? AND status = ?", id, change.From).
			UpdateColumns(updates)
		if res.Error != nil {
			return res.Error
		}
		if err := tx.First(&report, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Report", id)
			}
			return err
		}
		if res.RowsAffected == 0 {
			return models.NewInvalidTransitionError(report.Status, change.To)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	r.log.LogMutation(ctx, "update_status", map[string]interface{}{"report_id": id, "from": change.From, "to": change.To})
	return &report, nil
}

func (r *reportRepository) List(ctx context.Context, filter models.ReportFilter, page, limit int) ([]models.Report, int64, error) {
	base := r.db.WithContext(ctx).Model(&models.Report{})
	if filter.Status != "" {
		base = base.Where("status = ?", filter.Status)
	}
	if filter.Reason != "" {
		base = base.Where("reason = ?", filter.Reason)
	}
	if filter.Severity != "" {
		base = base.Where("severity = ?", filter.Severity)
	}
	if filter.PostID != 0 {
		base = base.Where("post_id = ?", filter.PostID)
	}
	if filter.ReportedBy != 0 {
		base = base.Where("reported_by = ?", filter.ReportedBy)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, storageErr(err)
	}
	reports := []models.Report{}
	if total == 0 {
		return reports, 0, nil
	}
	if err := base.Session(&gorm.Session{}).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Offset(offset(page, limit)).
		Find(&reports).Error; err != nil {
		return nil, 0, storageErr(err)
	}
	return reports, total, nil
}

func (r *reportRepository) ListByPost(ctx context.Context, postID uint) ([]models.Report, error) {
	reports := []models.Report{}
	if err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&reports).Error; err != nil {
		return nil, storageErr(err)
	}
	return reports, nil
}

func (r *reportRepository) PostIDsWithActiveReports(ctx context.Context) ([]uint, error) {
	var ids []uint
	if err := r.db.WithContext(ctx).Model(&models.Report{}).
		Distinct("post_id").
		Where("status IN ?", models.ActiveReportStatuses).
		Order("post_id").
		Pluck("post_id", &ids).Error; err != nil {
		return nil, storageErr(err)
	}
	return ids, nil
}
