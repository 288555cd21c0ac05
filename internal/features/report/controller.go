package report

import (
	"fmt"

	"estate-crm/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportController struct {
	ReportService ReportService
}

func NewReportController(reportService ReportService) *ReportController {
	return &ReportController{ReportService: reportService}
}

// GetPipeline godoc
// @Summary      Lead and deal counts by status
// @Tags         reports
// @Produce      json
// @Success      200  {object} Pipeline
// @Failure      403  {object} map[string]string
// @Router       /api/reports/pipeline [get]
func (ctrl *ReportController) GetPipeline(c *fiber.Ctx) error {
	caller, err := middleware.CurrentCaller(c)
	if err != nil {
		return err
	}

	pipeline, err := ctrl.ReportService.GetPipeline(c.UserContext(), caller)
	if err != nil {
		return err
	}
	return c.JSON(pipeline)
}

// Export godoc
// @Summary      Export leads and deals
// @Description  XLSX workbook of the leads and deals visible to the caller
// @Tags         reports
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200  {file} file
// @Failure      403  {object} map[string]string
// @Router       /api/reports/export [get]
func (ctrl *ReportController) Export(c *fiber.Ctx) error {
	caller, err := middleware.CurrentCaller(c)
	if err != nil {
		return err
	}

	data, filename, err := ctrl.ReportService.ExportWorkbook(c.UserContext(), caller)
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%s", filename))
	return c.Send(data)
}
