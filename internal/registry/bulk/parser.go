// Package bulk parses tabular uploads (CSV or spreadsheet) into
// registry rows. The file name extension selects the parser; the first
// row is always a header. Parsing is side-effect free: resolution and
// insertion happen in the import service.
package bulk

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	e "github.com/gartstein/talent-verify/internal/registry/errors"
	"github.com/xuri/excelize/v2"
)

const dateLayout = "2006-01-02"

// CompanyRow is one parsed company record from an upload.
type CompanyRow struct {
	Name               string
	RegistrationNumber string
	RegistrationDate   time.Time
	Address            string
	ContactPerson      string
	Departments        []string
	EmployeeCount      int
	Phone              string
	Email              string
}

// EmployeeRow is one parsed employee record from an upload. Exactly one
// of CompanyID and CompanyName identifies the employer: CompanyID when
// the file carries a company_id column, CompanyName otherwise. Line is
// the 1-based data row number used in error reports.
type EmployeeRow struct {
	Line        int
	Name        string
	EmployeeID  string
	CompanyID   uint
	CompanyName string
	Department  string
	Role        string
	StartDate   time.Time
	EndDate     *time.Time
	Duties      string
}

// ParseCompanies reads company rows from the upload. The parser is
// chosen by the file name extension.
func ParseCompanies(filename string, r io.Reader) ([]CompanyRow, error) {
	records, err := readTable(filename, r)
	if err != nil {
		return nil, err
	}

	companies := make([]CompanyRow, 0, len(records))
	for i, record := range records {
		row, err := companyFromRecord(record)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", e.ErrInvalidInput, i+1, err)
		}
		companies = append(companies, row)
	}
	return companies, nil
}

// ParseEmployees reads employee rows from the upload.
func ParseEmployees(filename string, r io.Reader) ([]EmployeeRow, error) {
	records, err := readTable(filename, r)
	if err != nil {
		return nil, err
	}

	employees := make([]EmployeeRow, 0, len(records))
	for i, record := range records {
		row, err := employeeFromRecord(record)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", e.ErrInvalidInput, i+1, err)
		}
		row.Line = i + 1
		employees = append(employees, row)
	}
	return employees, nil
}

// readTable turns the upload into one map per data row, keyed by the
// lower-cased header cells.
func readTable(filename string, r io.Reader) ([]map[string]string, error) {
	switch {
	case strings.HasSuffix(filename, ".csv"):
		return readCSV(r)
	case strings.HasSuffix(filename, ".xlsx"):
		return readXLSX(r)
	default:
		return nil, fmt.Errorf("%w: unsupported file format: %s", e.ErrInvalidInput, filename)
	}
}

func readCSV(r io.Reader) ([]map[string]string, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: malformed csv: %v", e.ErrInvalidInput, err)
	}
	return tableFromRows(rows)
}

func readXLSX(r io.Reader) ([]map[string]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed spreadsheet: %v", e.ErrInvalidInput, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: spreadsheet has no sheets", e.ErrInvalidInput)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: malformed spreadsheet: %v", e.ErrInvalidInput, err)
	}
	return tableFromRows(rows)
}

func tableFromRows(rows [][]string) ([]map[string]string, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: empty file", e.ErrInvalidInput)
	}

	header := make([]string, len(rows[0]))
	for i, cell := range rows[0] {
		header[i] = strings.ToLower(strings.TrimSpace(cell))
	}

	records := make([]map[string]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		record := make(map[string]string, len(header))
		for i, key := range header {
			if key == "" {
				continue
			}
			if i < len(row) {
				record[key] = strings.TrimSpace(row[i])
			} else {
				record[key] = ""
			}
		}
		records = append(records, record)
	}
	return records, nil
}

func companyFromRecord(record map[string]string) (CompanyRow, error) {
	row := CompanyRow{
		Name:               record["name"],
		RegistrationNumber: record["registration_number"],
		Address:            record["address"],
		ContactPerson:      record["contact_person"],
		Phone:              record["phone"],
		Email:              record["email"],
	}
	if row.Name == "" {
		return row, fmt.Errorf("missing name")
	}
	if row.RegistrationNumber == "" {
		return row, fmt.Errorf("missing registration_number")
	}

	regDate, err := time.Parse(dateLayout, record["registration_date"])
	if err != nil {
		return row, fmt.Errorf("bad registration_date %q", record["registration_date"])
	}
	row.RegistrationDate = regDate

	if countCell := record["employee_count"]; countCell != "" {
		count, err := strconv.Atoi(countCell)
		if err != nil || count < 0 {
			return row, fmt.Errorf("bad employee_count %q", countCell)
		}
		row.EmployeeCount = count
	}

	// Department lists arrive as one delimited cell.
	if departments := record["departments"]; departments != "" {
		for _, d := range strings.Split(departments, ",") {
			if d = strings.TrimSpace(d); d != "" {
				row.Departments = append(row.Departments, d)
			}
		}
	}
	return row, nil
}

func employeeFromRecord(record map[string]string) (EmployeeRow, error) {
	row := EmployeeRow{
		Name:       record["name"],
		EmployeeID: record["employee_id"],
		Department: record["department"],
		Role:       record["role"],
		Duties:     record["duties"],
	}
	if row.Name == "" {
		return row, fmt.Errorf("missing name")
	}
	if row.EmployeeID == "" {
		return row, fmt.Errorf("missing employee_id")
	}

	if idCell, ok := record["company_id"]; ok && idCell != "" {
		id, err := strconv.ParseUint(idCell, 10, 64)
		if err != nil {
			return row, fmt.Errorf("bad company_id %q", idCell)
		}
		row.CompanyID = uint(id)
	} else {
		row.CompanyName = record["company"]
		if row.CompanyName == "" {
			return row, fmt.Errorf("missing company reference")
		}
	}

	start, err := time.Parse(dateLayout, record["start_date"])
	if err != nil {
		return row, fmt.Errorf("bad start_date %q", record["start_date"])
	}
	row.StartDate = start

	if endCell := record["end_date"]; endCell != "" {
		end, err := time.Parse(dateLayout, endCell)
		if err != nil {
			return row, fmt.Errorf("bad end_date %q", endCell)
		}
		row.EndDate = &end
	}
	return row, nil
}
