package repository

import (
	"context"
	"testing"
	"time"

	"reelhub/internal/models"
	"reelhub/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newReport(postID, reporter uint, reason models.ReportReason) *models.Report {
	return &models.Report{
		PostID:     postID,
		ReportedBy: reporter,
		Reason:     reason,
		Severity:   reason.Severity(),
		Status:     models.ReportStatusPending,
	}
}

func seedReporters(t *testing.T, db *gorm.DB, n int) []*models.User {
	t.Helper()
	out := make([]*models.User, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, testutil.CreateUser(t, db, "reporter"+string(rune('a'+i))))
	}
	return out
}

func TestReportRepository_CreateDuplicate(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewReportRepository(db)
	ctx := context.Background()

	author := testutil.CreateUser(t, db, "author")
	reporter := testutil.CreateUser(t, db, "reporter")
	p := testutil.CreatePost(t, db, author.ID)

	require.NoError(t, repo.Create(ctx, newReport(p.ID, reporter.ID, models.ReasonSpam)))
	err := repo.Create(ctx, newReport(p.ID, reporter.ID, models.ReasonViolence))
	assert.ErrorIs(t, err, models.ErrDuplicateReport)

	ok, err := repo.Exists(ctx, p.ID, reporter.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = repo.Exists(ctx, p.ID, author.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestReportRepository_CountActiveBySeverity(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewReportRepository(db)
	ctx := context.Background()

	author := testutil.CreateUser(t, db, "author")
	p := testutil.CreatePost(t, db, author.ID)
	reporters := seedReporters(t, db, 4)

	require.NoError(t, repo.Create(ctx, newReport(p.ID, reporters[0].ID, models.ReasonViolence)))
	require.NoError(t, repo.Create(ctx, newReport(p.ID, reporters[1].ID, models.ReasonHateSpeech)))
	require.NoError(t, repo.Create(ctx, newReport(p.ID, reporters[2].ID, models.ReasonSpam)))
	dismissed := newReport(p.ID, reporters[3].ID, models.ReasonViolence)
	dismissed.Status = models.ReportStatusDismissed
	require.NoError(t, repo.Create(ctx, dismissed))

	counts, err := repo.CountActiveBySeverity(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[models.SeverityHigh], "dismissed reports are not counted")
	assert.Equal(t, int64(1), counts[models.SeverityLow])
	assert.Equal(t, int64(0), counts[models.SeverityCritical])

	ids, err := repo.PostIDsWithActiveReports(ctx)
	require.NoError(t, err)
	assert.Equal(t, []uint{p.ID}, ids)
}

func TestReportRepository_UpdateStatus(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewReportRepository(db)
	ctx := context.Background()

	author := testutil.CreateUser(t, db, "author")
	reporter := testutil.CreateUser(t, db, "reporter")
	admin := testutil.CreateUser(t, db, "admin")
	p := testutil.CreatePost(t, db, author.ID)
	r := newReport(p.ID, reporter.ID, models.ReasonNudity)
	require.NoError(t, repo.Create(ctx, r))

	at := time.Now().UTC().Truncate(time.Second)
	updated, err := repo.UpdateStatus(ctx, r.ID, StatusChange{
		From: models.ReportStatusPending, To: models.ReportStatusUnderReview, ReviewerID: admin.ID, Notes: "looking", At: at,
	})
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusUnderReview, updated.Status)
	require.NotNil(t, updated.ReviewedBy)
	assert.Equal(t, admin.ID, *updated.ReviewedBy)
	assert.Equal(t, "looking", updated.AdminNotes)

	// A stale caller still believes the report is pending.
	_, err = repo.UpdateStatus(ctx, r.ID, StatusChange{
		From: models.ReportStatusPending, To: models.ReportStatusDismissed, ReviewerID: admin.ID, At: at,
	})
	assert.ErrorIs(t, err, models.ErrInvalidTransition)

	_, err = repo.UpdateStatus(ctx, 9999, StatusChange{From: models.ReportStatusPending, To: models.ReportStatusDismissed, At: at})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestReportRepository_List(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewReportRepository(db)
	ctx := context.Background()

	author := testutil.CreateUser(t, db, "author")
	p1 := testutil.CreatePost(t, db, author.ID)
	p2 := testutil.CreatePost(t, db, author.ID)
	reporters := seedReporters(t, db, 3)

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for i, rep := range reporters {
		r := newReport(p1.ID, rep.ID, models.ReasonSpam)
		r.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		require.NoError(t, repo.Create(ctx, r))
	}
	crit := newReport(p2.ID, reporters[0].ID, models.ReasonMinorSafety)
	crit.CreatedAt = base.Add(-time.Hour)
	require.NoError(t, repo.Create(ctx, crit))

	all, total, err := repo.List(ctx, models.ReportFilter{}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	assert.Equal(t, reporters[2].ID, all[0].ReportedBy, "newest first")
	assert.Equal(t, crit.ID, all[3].ID)

	page, total, err := repo.List(ctx, models.ReportFilter{PostID: p1.ID}, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, page, 1)
	assert.Equal(t, reporters[0].ID, page[0].ReportedBy)

	critical, total, err := repo.List(ctx, models.ReportFilter{Severity: models.SeverityCritical}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, models.ReasonMinorSafety, critical[0].Reason)

	byReporter, total, err := repo.List(ctx, models.ReportFilter{ReportedBy: reporters[0].ID, Reason: models.ReasonSpam}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, p1.ID, byReporter[0].PostID)

	forPost, err := repo.ListByPost(ctx, p2.ID)
	require.NoError(t, err)
	assert.Len(t, forPost, 1)
}
