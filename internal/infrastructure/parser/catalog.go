package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/smart-sa/smorti/internal/domain/entity"
)

// LoadCatalog reads the product catalog from a CSV or XLSX file, picked by
// extension. Rows without a product_id are skipped; duplicate ids keep the
// first row.
func LoadCatalog(path string) ([]entity.Product, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return LoadCSV(path)
	case ".xlsx":
		return LoadXLSX(path)
	default:
		return nil, fmt.Errorf("unsupported catalog format: %s", filepath.Ext(path))
	}
}

// LoadCSV parses a header-mapped catalog CSV. Column order does not matter
// and unknown columns are ignored.
func LoadCSV(path string) ([]entity.Product, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read catalog header: %w", err)
	}
	cols := headerIndex(header)

	var products []entity.Product
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read catalog row: %w", err)
		}
		cell := func(name string) string {
			i, ok := cols[name]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}
		if p, ok := rowToProduct(cell); ok {
			products = append(products, p)
		}
	}
	return products, nil
}

// LoadXLSX parses the first sheet of a catalog workbook, same columns as
// the CSV form.
func LoadXLSX(path string) ([]entity.Product, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("catalog workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read catalog sheet: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("catalog sheet is empty")
	}
	cols := headerIndex(rows[0])

	var products []entity.Product
	for _, record := range rows[1:] {
		record := record
		cell := func(name string) string {
			i, ok := cols[name]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}
		if p, ok := rowToProduct(cell); ok {
			products = append(products, p)
		}
	}
	return products, nil
}

func headerIndex(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\uFEFF")))
		if h != "" {
			cols[h] = i
		}
	}
	return cols
}

func rowToProduct(cell func(string) string) (entity.Product, bool) {
	id := cell("product_id")
	if id == "" {
		return entity.Product{}, false
	}

	p := entity.Product{
		ID:           id,
		NameEN:       cell("name_en"),
		NameAR:       cell("name_ar"),
		Brand:        strings.ToLower(cell("brand")),
		Category:     strings.ToLower(cell("category")),
		CategoryLink: cell("category_link"),
		Series:       cell("series"),
		Price:        toFloat(cell("price_sar")),
		OldPrice:     toFloat(cell("old_price_sar")),
		Availability: cell("availability"),
		ScreenSizeIn: cell("screen_size_in"),
		DisplayType:  cell("display_type"),
		RAMGB:        cell("ram_gb"),
		StorageGB:    cell("storage_gb"),
		Connectivity: cell("connectivity"),
		ResolutionPX: cell("resolution_px"),
		BatteryMAh:   cell("battery_mah"),
		ShortDesc:    cell("short_desc"),
		Keywords:     cell("keywords"),
		ProductURL:   cell("product_url"),
		ItemType:     cell("item_type"),
	}
	if p.NameEN == "" {
		p.NameEN = cell("name_raw")
	}
	if p.NameEN == "" {
		p.NameEN = cell("name")
	}
	if p.Availability == "" {
		p.Availability = "unknown"
	}
	if p.Category == "" {
		p.Category = "general"
	}
	return p, true
}

func toFloat(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
