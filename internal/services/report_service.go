package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/postmod/internal/dto"
	"github.com/ahmetcoskunkizilkaya/postmod/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/postmod/internal/models"
	"github.com/ahmetcoskunkizilkaya/postmod/internal/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReportService owns the report lifecycle:
//
//	PENDING --accept--> ACCEPTED
//	PENDING --reject--> REJECTED
//
// Both outcomes are terminal.
type ReportService struct {
	db *gorm.DB
}

func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{db: db}
}

// ReportQuery filters a report listing. An empty Type matches every type.
type ReportQuery struct {
	Pagination pagination.Params
	Type       models.ReportType
	Ascending  bool
}

type ReportList struct {
	Reports    []models.Report `json:"reports"`
	Pagination pagination.Info `json:"pagination"`
}

// ParseReportType accepts "post"/"comment" in any case. Empty input yields "".
func ParseReportType(s string) (models.ReportType, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	t := models.ReportType(strings.ToUpper(s))
	if !t.Valid() {
		return "", invalid("type must be POST or COMMENT")
	}
	return t, nil
}

// Create files a PENDING report against a post or comment. The report keeps
// a snapshot of the content and the id of its author.
func (s *ReportService) Create(ctx context.Context, reporterID uuid.UUID, req *dto.CreateReportRequest) (*models.Report, error) {
	reportType, err := ParseReportType(req.Type)
	if err != nil {
		return nil, err
	}
	if reportType == "" {
		return nil, invalid("type is required")
	}
	element, err := elementFor(reportType)
	if err != nil {
		return nil, err
	}

	elementID, err := uuid.Parse(strings.TrimSpace(req.ReportedElementID))
	if err != nil {
		return nil, invalid("reportedElementId must be a valid id")
	}

	tags := make([]string, 0, len(req.Tags))
	for _, tag := range req.Tags {
		if trimmed := strings.TrimSpace(tag); trimmed != "" {
			tags = append(tags, trimmed)
		}
	}

	db := s.db.WithContext(ctx)

	var pending int64
	if err := db.Model(&models.Report{}).
		Where("reported_element_id = ? AND status = ?", elementID, models.ReportStatusPending).
		Count(&pending).Error; err != nil {
		return nil, fmt.Errorf("failed to check pending reports: %w", err)
	}
	if pending > 0 {
		return nil, ErrReportExists
	}

	author, content, err := element.fetch(db, elementID)
	if err != nil {
		return nil, err
	}

	report := models.Report{
		ID:                uuid.New(),
		Content:           content,
		Tags:              tags,
		Type:              reportType,
		ReportedElementID: elementID,
		Status:            models.ReportStatusPending,
		UserID:            author,
		ReporterID:        reporterID,
	}

	// The partial unique index closes the window between the check above
	// and this insert.
	if err := db.Create(&report).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrReportExists
		}
		return nil, fmt.Errorf("failed to create report: %w", err)
	}

	metrics.RecordReportCreated(string(reportType))
	slog.Info("report created", "action", "report_create", "report_id", report.ID.String(), "type", reportType, "user_id", reporterID.String())
	return &report, nil
}

// FindAll lists every report.
func (s *ReportService) FindAll(ctx context.Context, q ReportQuery) (*ReportList, error) {
	return s.list(ctx, q, "")
}

// FindPending lists the moderation queue.
func (s *ReportService) FindPending(ctx context.Context, q ReportQuery) (*ReportList, error) {
	return s.list(ctx, q, models.ReportStatusPending)
}

func (s *ReportService) list(ctx context.Context, q ReportQuery, status models.ReportStatus) (*ReportList, error) {
	filter := func(db *gorm.DB) *gorm.DB {
		if status != "" {
			db = db.Where("status = ?", status)
		}
		if q.Type != "" {
			db = db.Where("type = ?", q.Type)
		}
		return db
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Report{}).Scopes(filter).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to count reports: %w", err)
	}

	reports := []models.Report{}
	err := s.db.WithContext(ctx).
		Scopes(filter, q.Pagination.Scope).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "created_at"}, Desc: !q.Ascending}).
		Preload("User", models.SelectSummary).
		Preload("Reviewer", models.SelectSummary).
		Find(&reports).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch reports: %w", err)
	}

	return &ReportList{Reports: reports, Pagination: q.Pagination.Info(count)}, nil
}

func (s *ReportService) FindOneByID(ctx context.Context, id uuid.UUID) (*models.Report, error) {
	var report models.Report
	err := s.db.WithContext(ctx).
		Preload("User", models.SelectSummary).
		Preload("Reviewer", models.SelectSummary).
		First(&report, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}
	return &report, nil
}

// Decide moves a PENDING report to ACCEPTED or REJECTED. Accepting deletes
// the reported content; rejecting marks it as manually reviewed. The report
// update and the content change commit together, so a failure leaves the
// report PENDING.
func (s *ReportService) Decide(ctx context.Context, reportID, reviewerID uuid.UUID, req *dto.DecideReportRequest) (*models.Report, error) {
	action := models.ReportStatus(strings.ToUpper(strings.TrimSpace(req.Status)))
	if action != models.ReportStatusAccepted && action != models.ReportStatusRejected {
		return nil, invalid("status must be ACCEPTED or REJECTED")
	}

	var reportType models.ReportType
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var report models.Report
		if err := tx.First(&report, "id = ?", reportID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrReportNotFound
			}
			return err
		}
		if report.Status != models.ReportStatusPending {
			return ErrReportDecided
		}

		// Conditional update: a concurrent decision that already committed
		// leaves zero matching rows.
		result := tx.Model(&models.Report{}).
			Where("id = ? AND status = ?", reportID, models.ReportStatusPending).
			Updates(map[string]interface{}{
				"status":        action,
				"reviewer_id":   reviewerID,
				"revision_date": time.Now(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrReportDecided
		}

		element, err := elementFor(report.Type)
		if err != nil {
			return err
		}
		if action == models.ReportStatusAccepted {
			if err := element.delete(tx, report.ReportedElementID); err != nil {
				return fmt.Errorf("failed to delete reported %s: %w", strings.ToLower(string(report.Type)), err)
			}
		} else {
			if err := element.flagReviewed(tx, report.ReportedElementID); err != nil {
				return fmt.Errorf("failed to flag reported %s: %w", strings.ToLower(string(report.Type)), err)
			}
		}

		reportType = report.Type
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrNotFound) && !errors.Is(err, ErrConflict) {
			slog.Error("report decision failed", "action", "report_decide", "report_id", reportID.String(), "user_id", reviewerID.String(), "error", err)
		}
		return nil, err
	}

	metrics.RecordReportDecision(string(reportType), string(action))
	slog.Info("report decided", "action", "report_decide", "report_id", reportID.String(), "status", action, "user_id", reviewerID.String())
	return s.FindOneByID(ctx, reportID)
}
