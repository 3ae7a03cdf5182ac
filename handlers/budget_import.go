package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"budgetdesk/services"
	"budgetdesk/templates"
)

// HandleItemImport returns a handler that parses an uploaded CSV or XLSX
// item sheet and answers with editable rows for the budget form.
// Route: POST /budgets/items/import
func HandleItemImport(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		// Parse multipart form (max 10MB)
		if err := e.Request.ParseMultipartForm(10 << 20); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "File too large or invalid form data")
		}

		file, header, err := e.Request.FormFile("file")
		if err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Please select a file to upload")
		}
		defer file.Close()

		result, err := services.ParseItemFile(file, header.Filename)
		if err != nil {
			log.Printf("item_import: %s: %v", header.Filename, err)
			return ErrorToast(e, http.StatusBadRequest, err.Error())
		}

		start, err := strconv.Atoi(e.Request.FormValue("start"))
		if err != nil || start < 0 {
			start = 0
		}

		data := templates.ImportResultData{
			FileName:  result.FileName,
			TotalRows: result.TotalRows,
			ValidRows: result.ValidRows,
			ErrorRows: result.ErrorRows,
			Errors:    result.Errors,
		}
		for i, imp := range result.Items {
			data.Rows = append(data.Rows, itemRowData(start+i, imp.Item, nil))
		}
		if len(result.Errors) > 0 {
			if b, err := json.Marshal(result.Errors); err == nil {
				data.ErrorsJSON = string(b)
			}
			SetToast(e, ToastWarning, fmt.Sprintf("%d of %d rows need attention", result.ErrorRows, result.TotalRows))
		} else {
			SetToast(e, ToastSuccess, fmt.Sprintf("Imported %d items", result.TotalRows))
		}

		return templates.ImportResult(data).Render(e.Request.Context(), e.Response)
	}
}

// HandleItemTemplate downloads an empty item sheet with the import headers.
// Route: GET /budgets/items/template
func HandleItemTemplate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		xlsxBytes, err := services.GenerateItemTemplate()
		if err != nil {
			log.Printf("item_template: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}
		e.Response.Header().Set("Content-Type",
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		e.Response.Header().Set("Content-Disposition", `attachment; filename="Budget_Items_Template.xlsx"`)
		e.Response.Write(xlsxBytes)
		return nil
	}
}

// HandleItemImportErrors downloads the problems of an import as a sheet.
// Route: POST /budgets/items/import/errors
func HandleItemImportErrors(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		var errors []services.ValidationError
		if err := json.Unmarshal([]byte(e.Request.FormValue("errors")), &errors); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid error data")
		}

		xlsxBytes, err := services.GenerateErrorReport(errors)
		if err != nil {
			log.Printf("error_report: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		filename := fmt.Sprintf("Item_Import_Errors_%s.xlsx", time.Now().Format("2006-01-02"))
		e.Response.Header().Set("Content-Type",
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		e.Response.Header().Set("Content-Disposition",
			fmt.Sprintf(`attachment; filename="%s"`, filename))
		e.Response.Write(xlsxBytes)
		return nil
	}
}
