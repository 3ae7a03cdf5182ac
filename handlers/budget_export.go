package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"budgetdesk/config"
	"budgetdesk/services"
)

// issuer turns the company settings into the export header.
func issuer(cfg *config.Config) services.Issuer {
	return services.Issuer{
		Name:    cfg.Company.Name,
		TaxID:   cfg.Company.TaxID,
		Address: cfg.Company.Address,
		Email:   cfg.Company.Email,
		Phone:   cfg.Company.Phone,
	}
}

// sanitizeFilename removes characters that are unsafe for filenames.
func sanitizeFilename(s string) string {
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "/", "-")
	s = strings.ReplaceAll(s, "\\", "-")
	s = strings.ReplaceAll(s, ":", "-")
	s = strings.ReplaceAll(s, "#", "")
	s = strings.ReplaceAll(s, ".", "")
	return s
}

// exportFilename is e.g. Budget_42-rev-2_internal.xlsx.
func exportFilename(data *services.ExportData, ext string) string {
	name := "Budget_" + sanitizeFilename(data.BudgetNumber)
	if data.Internal {
		name += "_internal"
	}
	return name + "." + ext
}

// loadExportData reads the budget for an export; ?internal=1 adds costs and
// margins.
func loadExportData(app core.App, e *core.RequestEvent, cfg *config.Config) (*services.ExportData, error) {
	id := e.Request.PathValue("id")
	if id == "" {
		return nil, errors.New("missing budget id")
	}
	internal := e.Request.URL.Query().Get("internal") == "1"
	return services.BuildBudgetExportData(app, id, issuer(cfg), internal)
}

// HandleBudgetExportExcel returns a handler that downloads a budget as XLSX.
func HandleBudgetExportExcel(app *pocketbase.PocketBase, cfg *config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		data, err := loadExportData(app, e, cfg)
		if err != nil {
			log.Printf("export_excel: %v", err)
			return e.String(http.StatusNotFound, "Budget not found")
		}

		xlsxBytes, err := services.GenerateExcel(*data)
		if err != nil {
			log.Printf("export_excel: failed to generate: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to generate Excel file")
		}

		e.Response.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, exportFilename(data, "xlsx")))
		e.Response.Write(xlsxBytes)
		return nil
	}
}

// HandleBudgetExportPDF returns a handler that downloads a budget as PDF.
func HandleBudgetExportPDF(app *pocketbase.PocketBase, cfg *config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		data, err := loadExportData(app, e, cfg)
		if err != nil {
			log.Printf("export_pdf: %v", err)
			return e.String(http.StatusNotFound, "Budget not found")
		}

		pdfBytes, err := services.GeneratePDF(*data)
		if err != nil {
			log.Printf("export_pdf: failed to generate: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to generate PDF file")
		}

		e.Response.Header().Set("Content-Type", "application/pdf")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, exportFilename(data, "pdf")))
		e.Response.Write(pdfBytes)
		return nil
	}
}
