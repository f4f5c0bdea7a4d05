package beam

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// column header aliases accepted in catalog spreadsheets
var headerAliases = map[string]string{
	"designation":      "designation",
	"shape":            "designation",
	"section":          "designation",
	"d":                "depth",
	"depth":            "depth",
	"bf":               "flange_width",
	"flange width":     "flange_width",
	"flange_width":     "flange_width",
	"tw":               "web_thickness",
	"web thickness":    "web_thickness",
	"web_thickness":    "web_thickness",
	"tf":               "flange_thickness",
	"flange thickness": "flange_thickness",
	"flange_thickness": "flange_thickness",
	"w":                "weight",
	"weight":           "weight",
}

var requiredColumns = []string{"designation", "depth", "flange_width", "web_thickness", "flange_thickness", "weight"}

// LoadFromSpreadsheet reads a catalog from an .xlsx file. The first row of
// the sheet is a header naming the columns; sheet "" selects the first sheet.
func LoadFromSpreadsheet(path, sheet string) (*Catalog, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readWorkbook(f, sheet)
}

// ReadSpreadsheet reads a catalog from an .xlsx stream.
func ReadSpreadsheet(r io.Reader, sheet string) (*Catalog, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readWorkbook(f, sheet)
}

func readWorkbook(f *excelize.File, sheet string) (*Catalog, error) {
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, &ValidationError{fmt.Sprintf("sheet %q has no profile rows", sheet)}
	}

	columns := make(map[string]int)
	for i, val := range rows[0] {
		if key, ok := headerAliases[strings.ToLower(strings.TrimSpace(val))]; ok {
			if _, seen := columns[key]; !seen {
				columns[key] = i
			}
		}
	}
	for _, key := range requiredColumns {
		if _, ok := columns[key]; !ok {
			return nil, &ValidationError{fmt.Sprintf("sheet %q is missing column %s", sheet, key)}
		}
	}

	var profiles []Profile
	for n, row := range rows[1:] {
		cell := func(key string) string {
			i := columns[key]
			if i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}

		designation := cell("designation")
		if designation == "" {
			continue
		}
		p := Profile{Designation: designation}
		fields := []struct {
			key string
			dst *float64
		}{
			{"depth", &p.Depth},
			{"flange_width", &p.FlangeWidth},
			{"web_thickness", &p.WebThickness},
			{"flange_thickness", &p.FlangeThickness},
			{"weight", &p.Weight},
		}
		for _, fld := range fields {
			v, err := strconv.ParseFloat(cell(fld.key), 64)
			if err != nil {
				return nil, &ValidationError{fmt.Sprintf("row %d: invalid %s %q", n+2, fld.key, cell(fld.key))}
			}
			*fld.dst = v
		}
		profiles = append(profiles, p)
	}

	return NewCatalog(profiles)
}

// WriteSpreadsheet writes the catalog to w as a single-sheet workbook using
// the same header names ReadSpreadsheet accepts.
func WriteSpreadsheet(c *Catalog, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	if err := f.SetSheetRow(sheet, "A1", &[]interface{}{"Designation", "d", "bf", "tw", "tf", "W"}); err != nil {
		return err
	}
	for i, p := range c.profiles {
		addr, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{p.Designation, p.Depth, p.FlangeWidth, p.WebThickness, p.FlangeThickness, p.Weight}
		if err := f.SetSheetRow(sheet, addr, &row); err != nil {
			return err
		}
	}
	return f.Write(w)
}
