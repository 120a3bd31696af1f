package productcontroller

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/adega-api/apperrors"
	"github.com/junaidrashid-git/adega-api/models"
	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx"
	"gorm.io/gorm"
)

// Column order shared by import and export.
var itemSheetHeaders = []string{"ID", "Title", "Description", "Price", "ImageURL", "CategoryID", "CreatedAt"}

type ImportResult struct {
	Created int `json:"created_count"`
	Updated int `json:"updated_count"`
	Skipped int `json:"skipped_count"`
}

// ImportItems upserts one item per row (header excluded). Rows with an
// existing ID update that item, the rest are created. Rows failing item
// validation are skipped.
func ImportItems(ctx context.Context, db *gorm.DB, rows [][]string) ImportResult {
	var result ImportResult
	for _, row := range rows {
		get := func(index int) string {
			if index < len(row) {
				return strings.TrimSpace(row[index])
			}
			return ""
		}

		price, err := decimal.NewFromString(get(3))
		if err != nil {
			result.Skipped++
			continue
		}
		in := ItemInput{
			Title:       get(1),
			Description: get(2),
			Price:       price,
			ImageURL:    get(4),
			CategoryID:  get(5),
		}

		if id := get(0); id != "" {
			_, err := UpdateItem(ctx, db, id, in)
			if err == nil {
				result.Updated++
				continue
			}
			if !errors.Is(err, apperrors.ErrNotFound) {
				result.Skipped++
				continue
			}
		}

		if _, err := CreateItem(ctx, db, in); err != nil {
			result.Skipped++
			continue
		}
		result.Created++
	}
	log.Printf("📝 Item import finished: %d created, %d updated, %d skipped", result.Created, result.Updated, result.Skipped)
	return result
}

// SheetRows returns the data rows of the first sheet, header excluded.
func SheetRows(file *xlsx.File) ([][]string, error) {
	if len(file.Sheets) == 0 || file.Sheets[0].MaxRow < 2 {
		return nil, apperrors.Validation("item.Import", "Excel file is empty or missing header row")
	}
	sheet := file.Sheets[0]
	rows := make([][]string, 0, len(sheet.Rows)-1)
	for _, row := range sheet.Rows[1:] {
		if row == nil {
			continue
		}
		cells := make([]string, 0, len(row.Cells))
		for _, cell := range row.Cells {
			cells = append(cells, cell.String())
		}
		rows = append(rows, cells)
	}
	return rows, nil
}

// ItemsWorkbook renders every item into a single-sheet workbook.
func ItemsWorkbook(items []models.Item) (*xlsx.File, error) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Items")
	if err != nil {
		return nil, err
	}

	header := sheet.AddRow()
	for _, h := range itemSheetHeaders {
		header.AddCell().SetValue(h)
	}
	for _, item := range items {
		row := sheet.AddRow()
		row.AddCell().SetString(item.ID)
		row.AddCell().SetString(item.Title)
		row.AddCell().SetString(item.Description)
		row.AddCell().SetString(item.Price.StringFixed(2))
		row.AddCell().SetString(item.ImageURL)
		row.AddCell().SetString(item.CategoryID)
		row.AddCell().SetString(item.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	return file, nil
}

// POST /admin/items/import-excel
func ImportItemsFromExcel(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		excelFileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Excel file is required"})
			return
		}

		file, err := excelFileHeader.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open Excel file"})
			return
		}
		defer file.Close()

		xlFile, err := xlsx.OpenReaderAt(file, excelFileHeader.Size)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse Excel file"})
			return
		}

		rows, err := SheetRows(xlFile)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}

		result := ImportItems(c.Request.Context(), db, rows)
		c.JSON(http.StatusOK, gin.H{
			"message":       "Import completed",
			"created_count": result.Created,
			"updated_count": result.Updated,
			"skipped_count": result.Skipped,
		})
	}
}

// GET /admin/items/export-excel
func ExportItemsToExcel(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var items []models.Item
		if err := db.WithContext(c.Request.Context()).Order("created_at DESC").Find(&items).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
			return
		}

		file, err := ItemsWorkbook(items)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel sheet"})
			return
		}

		c.Header("Content-Disposition", "attachment; filename=items.xlsx")
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Transfer-Encoding", "binary")
		c.Header("Expires", "0")

		if err := file.Write(c.Writer); err != nil {
			log.Printf("❌ Failed to write Excel file: %v", err)
		}
	}
}
