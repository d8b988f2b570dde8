package server

import (
	"reelhub/internal/middleware"
	"reelhub/internal/models"
	"reelhub/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// CreateReportRequest is the body of POST /api/posts/:id/report.
type CreateReportRequest struct {
	Reason      string `json:"reason" validate:"required,report_reason"`
	Description string `json:"description" validate:"max=1000"`
}

// UpdateReportStatusRequest is the body of PATCH /api/admin/reports/:id.
type UpdateReportStatusRequest struct {
	Status     string `json:"status" validate:"required,report_status"`
	AdminNotes string `json:"admin_notes" validate:"max=2000"`
}

// ReportListQuery filters GET /api/admin/reports.
type ReportListQuery struct {
	Status     string `query:"status" validate:"omitempty,report_status"`
	Reason     string `query:"reason" validate:"omitempty,report_reason"`
	Severity   string `query:"severity" validate:"omitempty,severity"`
	PostID     uint   `query:"post_id"`
	ReportedBy uint   `query:"reported_by"`
	Page       int    `query:"page"`
	Limit      int    `query:"limit"`
}

// CreateReport handles POST /api/posts/:id/report
// @Summary Report a post
// @Description File a report against a post; enough reports trigger automatic moderation
// @Tags reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Param request body CreateReportRequest true "Report"
// @Success 201 {object} models.Report
// @Failure 400 {object} object{error=string}
// @Failure 401 {object} object{error=string}
// @Failure 403 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Failure 409 {object} object{error=string}
// @Failure 429 {object} object{error=string}
// @Router /posts/{id}/report [post]
func (s *Server) CreateReport(c *fiber.Ctx) error {
	postID, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	var req CreateReportRequest
	if err := bindJSON(c, &req); err != nil {
		return nil
	}

	report, err := s.moderationService.CreateReport(c.UserContext(), postID, middleware.UserID(c), req.Reason, req.Description)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(report)
}

// GetReportStatus handles GET /api/posts/:id/report-status
// @Summary Get report status
// @Description Whether the caller already reported the post
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} object{has_reported=bool}
// @Failure 400 {object} object{error=string}
// @Failure 401 {object} object{error=string}
// @Router /posts/{id}/report-status [get]
func (s *Server) GetReportStatus(c *fiber.Ctx) error {
	postID, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	reported, err := s.moderationService.HasReported(c.UserContext(), postID, middleware.UserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"has_reported": reported})
}

// GetReportReasons handles GET /api/reports/reasons
// @Summary List report reasons
// @Description Report reasons with their labels and severities
// @Tags reports
// @Produce json
// @Success 200 {object} object{reasons=[]models.ReasonOption}
// @Router /reports/reasons [get]
func (s *Server) GetReportReasons(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"reasons": s.moderationService.ReportReasons()})
}

// ListReports handles GET /api/admin/reports
// @Summary List reports
// @Description Moderation queue filtered by status, reason, severity, post or reporter
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param status query string false "Report status"
// @Param reason query string false "Report reason"
// @Param severity query string false "Severity"
// @Param post_id query int false "Post ID"
// @Param reported_by query int false "Reporter ID"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} models.ReportList
// @Failure 400 {object} object{error=string}
// @Failure 401 {object} object{error=string}
// @Failure 403 {object} object{error=string}
// @Router /admin/reports [get]
func (s *Server) ListReports(c *fiber.Ctx) error {
	var q ReportListQuery
	if err := c.QueryParser(&q); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid query parameters"))
	}
	if err := validation.Struct(&q); err != nil {
		return respondError(c, err)
	}

	filter := models.ReportFilter{
		Status:     models.ReportStatus(q.Status),
		Reason:     models.ReportReason(q.Reason),
		Severity:   models.Severity(q.Severity),
		PostID:     q.PostID,
		ReportedBy: q.ReportedBy,
	}
	list, err := s.moderationService.ListReports(c.UserContext(), filter, q.Page, q.Limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// UpdateReportStatus handles PATCH /api/admin/reports/:id
// @Summary Update report status
// @Description Move a report through its review lifecycle
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Report ID"
// @Param request body UpdateReportStatusRequest true "Status change"
// @Success 200 {object} models.Report
// @Failure 400 {object} object{error=string}
// @Failure 401 {object} object{error=string}
// @Failure 403 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Failure 409 {object} object{error=string}
// @Router /admin/reports/{id} [patch]
func (s *Server) UpdateReportStatus(c *fiber.Ctx) error {
	reportID, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	var req UpdateReportStatusRequest
	if err := bindJSON(c, &req); err != nil {
		return nil
	}

	report, err := s.moderationService.UpdateReportStatus(c.UserContext(), reportID, middleware.UserID(c), req.Status, req.AdminNotes)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}

// GetPostReports handles GET /api/admin/posts/:id/reports
// @Summary List post reports
// @Description All reports filed against a post
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} object{reports=[]models.Report}
// @Failure 400 {object} object{error=string}
// @Failure 401 {object} object{error=string}
// @Failure 403 {object} object{error=string}
// @Router /admin/posts/{id}/reports [get]
func (s *Server) GetPostReports(c *fiber.Ctx) error {
	postID, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	reports, err := s.moderationService.ReportsForPost(c.UserContext(), postID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"reports": reports})
}

// RunModerationSweep handles POST /api/admin/moderation/sweep
// @Summary Run moderation sweep
// @Description Re-evaluate every post with active reports against the moderation thresholds
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.SweepResult
// @Failure 401 {object} object{error=string}
// @Failure 403 {object} object{error=string}
// @Router /admin/moderation/sweep [post]
func (s *Server) RunModerationSweep(c *fiber.Ctx) error {
	result, err := s.moderationService.SweepActiveReports(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}
