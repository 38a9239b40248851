package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/anshthakare16/sai-sillicon-valley/internal/server/models"
)

// ReportService renders the admin records listing as an xlsx workbook.
type ReportService struct {
	requests *RequestService
	flats    *FlatService
}

func NewReportService(rs *RequestService, fs *FlatService) *ReportService {
	return &ReportService{requests: rs, flats: fs}
}

var reportHeader = []string{
	"Visitor", "Flat", "Purpose", "Vehicle", "Status",
	"Submitted", "Decided", "Entry", "Guard",
}

// RequestsWorkbook exports the filtered admin listing. Column layout
// mirrors the records table of the admin view.
func (s *ReportService) RequestsWorkbook(ctx context.Context, filter models.RequestFilter) ([]byte, error) {
	rows, err := s.requests.ListAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	flatCodes, err := s.flatCodeIndex(ctx)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Visitors"
	f.SetSheetName("Sheet1", sheet)

	for col, title := range reportHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return nil, fmt.Errorf("error writing header: %w", err)
		}
	}

	for i, r := range rows {
		values := []any{
			r.VisitorName,
			flatCodes[r.FlatID],
			r.Purpose,
			vehicleLabel(r),
			string(r.Status),
			r.CreatedAt.Format(time.RFC3339),
			formatOptionalTime(decisionTime(&r)),
			formatOptionalTime(r.EntryTime),
			r.GuardID,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, fmt.Errorf("error writing row: %w", err)
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("error writing workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *ReportService) flatCodeIndex(ctx context.Context) (map[string]string, error) {
	flats, err := s.flats.List(ctx)
	if err != nil {
		return nil, err
	}

	index := make(map[string]string, len(flats))
	for _, f := range flats {
		index[f.ID] = f.Code()
	}
	return index, nil
}

func vehicleLabel(r models.VisitorRequest) string {
	switch {
	case r.VehicleType == "" && r.VehicleNumber == "":
		return "N/A"
	case r.VehicleType == "":
		return r.VehicleNumber
	case r.VehicleNumber == "":
		return r.VehicleType
	default:
		return r.VehicleType + " " + r.VehicleNumber
	}
}

func decisionTime(r *models.VisitorRequest) *time.Time {
	if r.ApprovedAt != nil {
		return r.ApprovedAt
	}
	return r.DeniedAt
}

func formatOptionalTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}
