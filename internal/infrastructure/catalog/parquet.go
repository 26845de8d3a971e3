package catalog

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/parquet-go/parquet-go"
	"github.com/zypric/backend/internal/domain"
)

// parquetRow mirrors the catalog columns; null cells read as zero values
type parquetRow struct {
	Product      string  `parquet:"Product,optional"`
	AmazonPrice  float64 `parquet:"Amazon_Price,optional"`
	EbayPrice    float64 `parquet:"eBay_Price,optional"`
	WalmartPrice float64 `parquet:"Walmart_Price,optional"`
	Reviews      string  `parquet:"Reviews,optional"`
}

// ParquetSource reads the catalog from a parquet file
type ParquetSource struct {
	path string
}

// NewParquetSource creates a parquet catalog source
func NewParquetSource(path string) *ParquetSource {
	return &ParquetSource{path: path}
}

// LoadProducts reads every row of the file into a product
func (s *ParquetSource) LoadProducts(ctx context.Context) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogLoad, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogLoad, err)
	}

	file, err := parquet.OpenFile(f, info.Size())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogLoad, err)
	}
	for _, col := range requiredColumns {
		if _, ok := file.Schema().Lookup(col); !ok {
			return nil, fmt.Errorf("%w: missing required column: %s", domain.ErrCatalogLoad, col)
		}
	}

	rows, err := parquet.Read[parquetRow](f, info.Size())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogLoad, err)
	}

	products := make([]domain.Product, len(rows))
	for i, row := range rows {
		products[i] = domain.Product{
			Name:         row.Product,
			AmazonPrice:  row.AmazonPrice,
			EbayPrice:    row.EbayPrice,
			WalmartPrice: row.WalmartPrice,
			Reviews:      SplitReviews(row.Reviews),
		}
	}

	log.Printf("[Catalog] Loaded %d products from %s", len(products), s.path)
	return products, nil
}
