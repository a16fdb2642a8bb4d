package importer

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"charmi-backend/internal/domains/location/model"
)

// Sheet names expected in a location workbook. Row 1 of each sheet is a header.
const (
	SheetCountry  = "Country"
	SheetCity     = "City"
	SheetDistrict = "District"
)

// Dataset is the parsed content of a location workbook.
type Dataset struct {
	Countries []model.Country
	Cities    []model.City
	Districts []model.District
}

// RowError points at the offending cell's row.
type RowError struct {
	Sheet string
	Row   int
	Err   error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("%s row %d: %v", e.Sheet, e.Row, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// ParseWorkbook reads the Country, City and District sheets.
//
// Columns are id, name and parent id (none for Country). Blank rows are skipped.
// Parents must be present in the same workbook.
func ParseWorkbook(r io.Reader) (*Dataset, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	ds := &Dataset{}

	countryIDs := map[int64]bool{}
	err = eachRow(f, SheetCountry, 2, func(id int64, name string, _ int64) error {
		if countryIDs[id] {
			return fmt.Errorf("duplicate country id %d", id)
		}
		countryIDs[id] = true
		ds.Countries = append(ds.Countries, model.Country{ID: id, Name: name})
		return nil
	})
	if err != nil {
		return nil, err
	}

	cityIDs := map[int64]bool{}
	err = eachRow(f, SheetCity, 3, func(id int64, name string, countryID int64) error {
		if cityIDs[id] {
			return fmt.Errorf("duplicate city id %d", id)
		}
		if !countryIDs[countryID] {
			return fmt.Errorf("unknown country id %d", countryID)
		}
		cityIDs[id] = true
		ds.Cities = append(ds.Cities, model.City{ID: id, Name: name, CountryID: countryID})
		return nil
	})
	if err != nil {
		return nil, err
	}

	districtIDs := map[int64]bool{}
	err = eachRow(f, SheetDistrict, 3, func(id int64, name string, cityID int64) error {
		if districtIDs[id] {
			return fmt.Errorf("duplicate district id %d", id)
		}
		if !cityIDs[cityID] {
			return fmt.Errorf("unknown city id %d", cityID)
		}
		districtIDs[id] = true
		ds.Districts = append(ds.Districts, model.District{ID: id, DistrictName: name, CityID: cityID})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return ds, nil
}

func eachRow(f *excelize.File, sheet string, columns int, fn func(id int64, name string, parent int64) error) error {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return fmt.Errorf("read sheet %s: %w", sheet, err)
	}

	for i, row := range rows {
		if i == 0 || blank(row) {
			continue
		}
		rowErr := func(err error) error {
			return &RowError{Sheet: sheet, Row: i + 1, Err: err}
		}

		if len(row) < columns {
			return rowErr(fmt.Errorf("expected %d columns, got %d", columns, len(row)))
		}

		id, err := parseID(row[0])
		if err != nil {
			return rowErr(err)
		}
		name := strings.TrimSpace(row[1])
		if name == "" {
			return rowErr(errors.New("name is required"))
		}

		var parent int64
		if columns > 2 {
			if parent, err = parseID(row[2]); err != nil {
				return rowErr(err)
			}
		}

		if err := fn(id, name, parent); err != nil {
			return rowErr(err)
		}
	}
	return nil
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

func blank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
