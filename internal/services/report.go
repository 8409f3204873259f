package services

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"gearguard/internal/authz"
	"gearguard/internal/dto"
	"gearguard/internal/entities"
	"gearguard/internal/repositories"
	apperrors "gearguard/pkg/errors"
)

type ReportServiceInterface interface {
	TechnicianReport(ctx context.Context, actor authz.Actor, technicianID uint64) (*dto.TechnicianReportDTO, error)
	TechnicianSummaries(ctx context.Context, actor authz.Actor) ([]dto.TechnicianSummaryDTO, error)
	ManagerHours(ctx context.Context, actor authz.Actor) (*dto.ManagerHoursReportDTO, error)
	ExportTechnicianSummaries(ctx context.Context, actor authz.Actor) ([]byte, error)
}

type reportService struct {
	reportRepo repositories.ReportRepositoryInterface
	logger     *zap.Logger
}

func NewReportService(reportRepo repositories.ReportRepositoryInterface, logger *zap.Logger) ReportServiceInterface {
	return &reportService{reportRepo: reportRepo, logger: logger}
}

// TechnicianReport lists a technician's repaired work with hour totals.
// Technicians may only pull their own report; managers and admins any.
func (s *reportService) TechnicianReport(ctx context.Context, actor authz.Actor, technicianID uint64) (*dto.TechnicianReportDTO, error) {
	if err := authz.Allow(actor, entities.RoleAdmin, entities.RoleManager, entities.RoleTechnician); err != nil {
		return nil, err
	}
	if actor.Role == entities.RoleTechnician && actor.ID != technicianID {
		return nil, apperrors.ErrForbidden
	}

	rows, err := s.reportRepo.ListCompletedByTechnician(ctx, technicianID)
	if err != nil {
		return nil, err
	}

	report := &dto.TechnicianReportDTO{
		Rows:       rows,
		TotalTasks: uint64(len(rows)),
	}
	for _, row := range rows {
		report.TotalHours += row.DurationHours
	}
	report.TotalHours = roundHours(report.TotalHours)
	if report.TotalTasks > 0 {
		report.AvgDuration = roundHours(report.TotalHours / float64(report.TotalTasks))
	}
	return report, nil
}

func (s *reportService) TechnicianSummaries(ctx context.Context, actor authz.Actor) ([]dto.TechnicianSummaryDTO, error) {
	if err := authz.Allow(actor, entities.RoleAdmin, entities.RoleManager); err != nil {
		return nil, err
	}
	return s.reportRepo.ListTechnicianSummaries(ctx)
}

func (s *reportService) ManagerHours(ctx context.Context, actor authz.Actor) (*dto.ManagerHoursReportDTO, error) {
	if err := authz.Allow(actor, entities.RoleAdmin, entities.RoleManager); err != nil {
		return nil, err
	}

	managers, err := s.reportRepo.ListManagerHours(ctx)
	if err != nil {
		return nil, err
	}

	report := &dto.ManagerHoursReportDTO{Managers: managers}
	for _, row := range managers {
		if row.TotalHoursManaged.Valid {
			report.TotalManagerHours += row.TotalHoursManaged.Float64
		}
	}
	report.TotalManagerHours = roundHours(report.TotalManagerHours)
	return report, nil
}

// ExportTechnicianSummaries renders the hour summaries as an xlsx workbook.
func (s *reportService) ExportTechnicianSummaries(ctx context.Context, actor authz.Actor) ([]byte, error) {
	summaries, err := s.TechnicianSummaries(ctx, actor)
	if err != nil {
		return nil, err
	}

	file := excelize.NewFile()
	defer func() {
		if err := file.Close(); err != nil {
			s.logger.Warn("closing xlsx file failed", zap.Error(err))
		}
	}()

	const sheet = "Technician Hours"
	file.SetSheetName("Sheet1", sheet)

	headers := []string{"User ID", "Username", "Full Name", "Completed Tasks", "Total Hours"}
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := file.SetCellValue(sheet, cell, header); err != nil {
			return nil, err
		}
	}

	for rowIdx, summary := range summaries {
		values := []interface{}{
			summary.UserID,
			summary.Username,
			summary.FullName,
			summary.TotalTasks,
		}
		if summary.TotalHours.Valid {
			values = append(values, summary.TotalHours.Float64)
		} else {
			values = append(values, 0.0)
		}

		for colIdx, value := range values {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				return nil, err
			}
			if err := file.SetCellValue(sheet, cell, value); err != nil {
				return nil, err
			}
		}
	}

	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		return nil, fmt.Errorf("write xlsx: %w", err)
	}
	return buf.Bytes(), nil
}
