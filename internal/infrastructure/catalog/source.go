package catalog

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/zypric/backend/internal/domain"
)

// Catalog column names
const (
	ColumnProduct      = "Product"
	ColumnAmazonPrice  = "Amazon_Price"
	ColumnEbayPrice    = "eBay_Price"
	ColumnWalmartPrice = "Walmart_Price"
	ColumnReviews      = "Reviews"
)

// ReviewDelimiter separates reviews inside the Reviews cell. There is no escaping.
const ReviewDelimiter = ";"

var requiredColumns = []string{
	ColumnProduct,
	ColumnAmazonPrice,
	ColumnEbayPrice,
	ColumnWalmartPrice,
	ColumnReviews,
}

// NewSource returns the catalog source for path. Format "auto" or "" picks by file extension.
func NewSource(path, format, sheet string) (domain.CatalogSource, error) {
	if format == "" || format == "auto" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	}

	switch format {
	case "csv":
		return NewCSVSource(path), nil
	case "xlsx":
		return NewXLSXSource(path, sheet), nil
	case "parquet":
		return NewParquetSource(path), nil
	default:
		return nil, fmt.Errorf("%w: unsupported catalog format %q", domain.ErrCatalogLoad, format)
	}
}

// SplitReviews splits a Reviews cell into trimmed reviews. A blank cell has no reviews.
func SplitReviews(cell string) []string {
	if strings.TrimSpace(cell) == "" {
		return []string{}
	}

	parts := strings.Split(cell, ReviewDelimiter)
	reviews := make([]string, len(parts))
	for i, part := range parts {
		reviews[i] = strings.TrimSpace(part)
	}
	return reviews
}

// rowParser maps header positions to product fields for string-based sources
type rowParser struct {
	index map[string]int
}

func newRowParser(header []string) (*rowParser, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, seen := index[name]; !seen {
			index[name] = i
		}
	}

	var missing []string
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing required columns: %s", domain.ErrCatalogLoad, strings.Join(missing, ", "))
	}

	return &rowParser{index: index}, nil
}

func (p *rowParser) cell(row []string, column string) string {
	i := p.index[column]
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func (p *rowParser) price(row []string, column string, line int) (float64, error) {
	raw := p.cell(row, column)
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: row %d: invalid %s %q", domain.ErrCatalogLoad, line, column, raw)
	}
	return value, nil
}

// parse converts one data row; line is the 1-based row number in the source for error messages
func (p *rowParser) parse(row []string, line int) (domain.Product, error) {
	amazon, err := p.price(row, ColumnAmazonPrice, line)
	if err != nil {
		return domain.Product{}, err
	}
	ebay, err := p.price(row, ColumnEbayPrice, line)
	if err != nil {
		return domain.Product{}, err
	}
	walmart, err := p.price(row, ColumnWalmartPrice, line)
	if err != nil {
		return domain.Product{}, err
	}

	return domain.Product{
		Name:         p.cell(row, ColumnProduct),
		AmazonPrice:  amazon,
		EbayPrice:    ebay,
		WalmartPrice: walmart,
		Reviews:      SplitReviews(p.cell(row, ColumnReviews)),
	}, nil
}
