package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Lawrence9908/ecommerce-backend-api/logger"
	"github.com/Lawrence9908/ecommerce-backend-api/model"

	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

var ErrInvalidImport = errors.New("invalid import file")

// Import sheet columns, after a header row.
const (
	colName = iota
	colDescription
	colPrice
	colCategory
	colImage
	colFeatured
)

// ImportResult reports how many rows became products.
type ImportResult struct {
	Imported int
	Skipped  int
}

// ImportProducts reads the first sheet of an .xlsx workbook and creates one
// product per valid row. Rows with missing fields or a bad price are skipped.
func (s *ProductService) ImportProducts(ctx context.Context, r io.Reader) (*ImportResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrInvalidImport)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}

	result := &ImportResult{}
	anyFeatured := false
	for i, row := range rows {
		if i == 0 {
			continue // header
		}

		product, ok := parseImportRow(row)
		if !ok {
			logger.Log.WithField("row", i+1).Info("Skipping invalid import row")
			result.Skipped++
			continue
		}

		if product.Image != "" {
			url, err := s.assets.Upload(ctx, product.Image)
			if err != nil {
				logger.Log.WithError(err).WithField("row", i+1).Warn("Skipping import row with unusable image")
				result.Skipped++
				continue
			}
			product.Image = url
		}

		if err := s.repo.CreateProduct(ctx, product); err != nil {
			return result, fmt.Errorf("could not create product from row %d: %w", i+1, err)
		}
		result.Imported++
		anyFeatured = anyFeatured || product.IsFeatured
	}

	if anyFeatured {
		if err := s.refreshFeaturedCache(ctx); err != nil {
			return result, err
		}
	}

	logger.Log.WithFields(logrus.Fields{
		"imported": result.Imported,
		"skipped":  result.Skipped,
	}).Info("Product import finished")
	return result, nil
}

func parseImportRow(row []string) (*model.Product, bool) {
	cell := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	name, description, category := cell(colName), cell(colDescription), cell(colCategory)
	if name == "" || description == "" || category == "" {
		return nil, false
	}
	price, err := strconv.ParseFloat(cell(colPrice), 64)
	if err != nil || price < 0 {
		return nil, false
	}

	return &model.Product{
		Name:        name,
		Description: description,
		Price:       price,
		Category:    category,
		Image:       cell(colImage),
		IsFeatured:  parseBool(cell(colFeatured)),
	}, true
}

func parseBool(s string) bool {
	switch strings.ToLower(s) {
	case "1", "y", "yes", "true":
		return true
	}
	return false
}
