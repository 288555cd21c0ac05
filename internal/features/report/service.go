package report

import (
	"context"
	"fmt"
	"time"

	"estate-crm/internal/common/models"
	"estate-crm/internal/features/deal"
	"estate-crm/internal/features/lead"
	"estate-crm/internal/features/permission"
	"estate-crm/internal/features/tenancy"

	"github.com/xuri/excelize/v2"
)

type ReportService interface {
	GetPipeline(ctx context.Context, caller tenancy.Caller) (*Pipeline, error)
	// ExportWorkbook renders the caller's visible leads and deals as XLSX.
	ExportWorkbook(ctx context.Context, caller tenancy.Caller) ([]byte, string, error)
}

type ReportServiceImpl struct {
	Leads     lead.LeadRepository
	Deals     deal.DealRepository
	Isolation *tenancy.Isolation
	now       func() time.Time
}

func NewReportService(leads lead.LeadRepository, deals deal.DealRepository, isolation *tenancy.Isolation) ReportService {
	return &ReportServiceImpl{
		Leads:     leads,
		Deals:     deals,
		Isolation: isolation,
		now:       time.Now,
	}
}

type scopedRows struct {
	leads []models.Lead
	deals []models.Deal
}

func (s *ReportServiceImpl) load(ctx context.Context, access tenancy.Access) (*scopedRows, error) {
	leadFilter, err := access.For(permission.ResourceLeads).Filter(nil)
	if err != nil {
		return nil, err
	}
	dealFilter, err := access.For(permission.ResourceDeals).Filter(nil)
	if err != nil {
		return nil, err
	}

	leads, err := s.Leads.List(ctx, leadFilter)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	deals, err := s.Deals.List(ctx, dealFilter)
	if err != nil {
		return nil, fmt.Errorf("list deals: %w", err)
	}
	return &scopedRows{leads: leads, deals: deals}, nil
}

func (s *ReportServiceImpl) GetPipeline(ctx context.Context, caller tenancy.Caller) (*Pipeline, error) {
	return tenancy.Scoped(ctx, s.Isolation, caller.Request(permission.ResourceReports, permission.ActionRead),
		func(ctx context.Context, access tenancy.Access) (*Pipeline, error) {
			rows, err := s.load(ctx, access)
			if err != nil {
				return nil, err
			}
			p := &Pipeline{Leads: map[models.LeadStatus]int{}, Deals: map[models.DealStatus]int{}}
			for _, l := range rows.leads {
				p.Leads[l.Status]++
			}
			for _, d := range rows.deals {
				p.Deals[d.Status]++
			}
			return p, nil
		})
}

func (s *ReportServiceImpl) ExportWorkbook(ctx context.Context, caller tenancy.Caller) ([]byte, string, error) {
	type export struct {
		data     []byte
		filename string
	}
	out, err := tenancy.Scoped(ctx, s.Isolation, caller.Request(permission.ResourceReports, permission.ActionExport),
		func(ctx context.Context, access tenancy.Access) (export, error) {
			rows, err := s.load(ctx, access)
			if err != nil {
				return export{}, err
			}
			data, err := renderWorkbook(rows)
			if err != nil {
				return export{}, err
			}
			filename := fmt.Sprintf("crm-export-%s.xlsx", s.now().UTC().Format("20060102-150405"))
			return export{data: data, filename: filename}, nil
		})
	return out.data, out.filename, err
}

func renderWorkbook(rows *scopedRows) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	if err != nil {
		return nil, err
	}

	leadRows := make([][]any, 0, len(rows.leads))
	for _, l := range rows.leads {
		budget := ""
		if l.Budget != nil {
			budget = l.Budget.String()
		}
		leadRows = append(leadRows, []any{
			l.ID, l.Name, l.Email, l.Phone, string(l.Status), l.AssignedTo, budget, l.Location,
			l.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}

	dealRows := make([][]any, 0, len(rows.deals))
	for _, d := range rows.deals {
		dealDate := ""
		if d.DealDate != nil {
			dealDate = d.DealDate.Format("2006-01-02")
		}
		dealRows = append(dealRows, []any{
			d.ID, d.PropertyID, d.LeadID, d.AgentID, string(d.Status),
			d.SalePrice.String(), d.CommissionPercentage.String(),
			d.AgentCommission.String(), d.CompanyCommission.String(), dealDate,
		})
	}

	// The default sheet becomes the leads sheet.
	if err := f.SetSheetName("Sheet1", leadSheet); err != nil {
		return nil, err
	}
	if err := writeSheet(f, leadSheet, leadColumns, leadRows, headerStyle); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(dealSheet); err != nil {
		return nil, err
	}
	if err := writeSheet(f, dealSheet, dealColumns, dealRows, headerStyle); err != nil {
		return nil, err
	}

	buffer, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

func writeSheet(f *excelize.File, sheet string, columns []string, rows [][]any, headerStyle int) error {
	for i, col := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, col); err != nil {
			return err
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(columns), 1)
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return err
	}

	for r, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, r+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}

	lastCol, _ := excelize.ColumnNumberToName(len(columns))
	return f.SetColWidth(sheet, "A", lastCol, 18)
}
