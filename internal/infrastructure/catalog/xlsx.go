package catalog

import (
	"context"
	"fmt"
	"log"

	"github.com/xuri/excelize/v2"
	"github.com/zypric/backend/internal/domain"
)

// XLSXSource reads the catalog from an Excel workbook. The first row of the sheet is the header.
type XLSXSource struct {
	path  string
	sheet string
}

// NewXLSXSource creates an Excel catalog source. An empty sheet name selects the first sheet.
func NewXLSXSource(path, sheet string) *XLSXSource {
	return &XLSXSource{path: path, sheet: sheet}
}

// LoadProducts reads every non-header row of the sheet into a product
func (s *XLSXSource) LoadProducts(ctx context.Context) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	xlsx, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogLoad, err)
	}
	defer xlsx.Close()

	sheet := s.sheet
	if sheet == "" {
		sheets := xlsx.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("%w: workbook has no sheets", domain.ErrCatalogLoad)
		}
		sheet = sheets[0]
	}

	rows, err := xlsx.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: sheet %q: %v", domain.ErrCatalogLoad, sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: sheet %q is empty", domain.ErrCatalogLoad, sheet)
	}

	parser, err := newRowParser(rows[0])
	if err != nil {
		return nil, err
	}

	products := make([]domain.Product, 0, len(rows)-1)
	for i, row := range rows[1:] {
		product, err := parser.parse(row, i+2)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}

	log.Printf("[Catalog] Loaded %d products from %s (sheet %s)", len(products), s.path, sheet)
	return products, nil
}
