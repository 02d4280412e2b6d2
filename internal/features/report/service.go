package report

import (
	"bytes"
	"context"
	"fmt"
	"time"

	common_models "go-desk/internal/common/models"
	"go-desk/internal/features/ticket"

	"github.com/xuri/excelize/v2"
)

// TicketSource is the slice of the ticket service the exporter needs.
type TicketSource interface {
	ListTickets(ctx context.Context, scope common_models.Scope, status string) ([]ticket.Ticket, error)
}

type ReportService interface {
	ExportTickets(ctx context.Context, scope common_models.Scope, status string) (*bytes.Buffer, error)
}

type ReportServiceImpl struct {
	Tickets TicketSource
}

func NewReportService(tickets TicketSource) ReportService {
	return &ReportServiceImpl{
		Tickets: tickets,
	}
}

var exportColumns = []string{"Sno", "Subject", "Status", "Priority", "Channel", "Assignee", "Created At", "Updated At"}

// ExportTickets renders the scoped ticket list as an xlsx workbook.
func (s *ReportServiceImpl) ExportTickets(ctx context.Context, scope common_models.Scope, status string) (*bytes.Buffer, error) {
	tickets, err := s.Tickets.ListTickets(ctx, scope, status)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheetName = "Tickets"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	for i, col := range exportColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, col)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for rowIdx, t := range tickets {
		values := []interface{}{
			t.Sno,
			t.Subject,
			string(t.Status),
			string(t.Priority),
			string(t.Channel),
			t.AssigneeID,
			t.CreatedAt.Format(time.DateTime),
			t.UpdatedAt.Format(time.DateTime),
		}
		for colIdx, v := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheetName, cell, v)
		}
	}

	for i := range exportColumns {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, col, col, 20)
	}

	buffer, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to render workbook: %w", err)
	}
	return buffer, nil
}
