package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/spec-kit/erp-service/internal/domain"
	"github.com/spec-kit/erp-service/internal/repository"
	apperrors "github.com/spec-kit/erp-service/pkg/util"
)

const (
	salesSheet    = "Sales"
	saleLineSheet = "Lines"
	exportLimit   = 500
)

var (
	salesExportHeaders    = []string{"Reference", "Customer", "Sold At", "Status", "Items", "Total"}
	salesExportWidths     = []float64{24, 32, 20, 14, 8, 14}
	saleLineExportHeaders = []string{"Reference", "SKU", "Product", "Quantity", "Unit Price", "Line Total"}
	saleLineExportWidths  = []float64{24, 16, 32, 10, 14, 14}
)

// ExportSales renders sales sold in [from, to) as an XLSX workbook. Zero bounds are open.
func (s *SalesService) ExportSales(ctx context.Context, from, to time.Time) ([]byte, error) {
	if !from.IsZero() && !to.IsZero() && !to.After(from) {
		return nil, apperrors.NewValidationError("to must be after from", nil)
	}
	filter := repository.SaleFilter{WithItems: true, Page: repository.Page{Limit: exportLimit}}
	if !from.IsZero() {
		filter.From = &from
	}
	if !to.IsZero() {
		filter.To = &to
	}

	var sales []domain.Sale
	for {
		batch, err := s.sales.List(ctx, filter)
		if err != nil {
			return nil, err
		}
		sales = append(sales, batch...)
		if len(batch) < exportLimit {
			break
		}
		filter.Offset += exportLimit
	}

	products := make(map[string]*domain.Product)
	for _, sale := range sales {
		for _, item := range sale.Items {
			if _, ok := products[item.ProductID]; ok {
				continue
			}
			p, err := s.products.GetByID(ctx, item.ProductID)
			if err != nil {
				p = &domain.Product{ID: item.ProductID}
			}
			products[item.ProductID] = p
		}
	}
	return renderSalesWorkbook(sales, products)
}

func renderSalesWorkbook(sales []domain.Sale, products map[string]*domain.Product) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", salesSheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(saleLineSheet); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true, Size: 11},
		Fill:   excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{{Type: "bottom", Color: "000000", Style: 1}},
	})
	if err != nil {
		return nil, err
	}
	writeHeader(f, salesSheet, salesExportHeaders, salesExportWidths, headerStyle)
	writeHeader(f, saleLineSheet, saleLineExportHeaders, saleLineExportWidths, headerStyle)

	row, lineRow := 2, 2
	for _, sale := range sales {
		values := []any{
			sale.Reference,
			sale.CustomerName,
			sale.SoldAt.UTC().Format("2006-01-02 15:04"),
			string(sale.Status),
			len(sale.Items),
			sale.Total.InexactFloat64(),
		}
		if err := f.SetSheetRow(salesSheet, fmt.Sprintf("A%d", row), &values); err != nil {
			return nil, err
		}
		row++

		for _, item := range sale.Items {
			p := products[item.ProductID]
			sku, name := item.ProductID, ""
			if p != nil && p.SKU != "" {
				sku, name = p.SKU, p.Name
			}
			line := []any{
				sale.Reference,
				sku,
				name,
				item.Quantity,
				item.UnitPrice.InexactFloat64(),
				item.LineTotal.InexactFloat64(),
			}
			if err := f.SetSheetRow(saleLineSheet, fmt.Sprintf("A%d", lineRow), &line); err != nil {
				return nil, err
			}
			lineRow++
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeHeader(f *excelize.File, sheet string, headers []string, widths []float64, style int) {
	for i, h := range headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := col + "1"
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, style)
		f.SetColWidth(sheet, col, col, widths[i])
	}
}
