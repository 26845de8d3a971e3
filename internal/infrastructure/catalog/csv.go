package catalog

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/zypric/backend/internal/domain"
)

// CSVSource reads the catalog from a comma-separated file with a header row
type CSVSource struct {
	path string
}

// NewCSVSource creates a CSV catalog source
func NewCSVSource(path string) *CSVSource {
	return &CSVSource{path: path}
}

// LoadProducts reads every row of the file into a product
func (s *CSVSource) LoadProducts(ctx context.Context) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogLoad, err)
	}
	defer f.Close()

	products, err := readCSV(f)
	if err != nil {
		return nil, err
	}

	log.Printf("[Catalog] Loaded %d products from %s", len(products), s.path)
	return products, nil
}

func readCSV(r io.Reader) ([]domain.Product, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: file is empty", domain.ErrCatalogLoad)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: reading header: %v", domain.ErrCatalogLoad, err)
	}

	parser, err := newRowParser(header)
	if err != nil {
		return nil, err
	}

	products := []domain.Product{}
	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrCatalogLoad, err)
		}

		product, err := parser.parse(row, line)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}

	return products, nil
}
