package bulk

import (
	"bytes"
	"strings"
	"testing"
	"time"

	e "github.com/gartstein/talent-verify/internal/registry/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const companyCSV = `name,registration_number,registration_date,address,contact_person,departments,phone,email
Acme,REG1,2020-03-01,1 Main St,Jane Doe,"Engineering, Finance",555-0100,info@acme.test
Globex,REG2,2021-06-15,2 Side St,John Roe,Legal,555-0200,info@globex.test
`

func TestParseCompaniesCSV(t *testing.T) {
	rows, err := ParseCompanies("companies.csv", strings.NewReader(companyCSV))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Acme", rows[0].Name)
	assert.Equal(t, "REG1", rows[0].RegistrationNumber)
	assert.Equal(t, 2020, rows[0].RegistrationDate.Year())
	assert.Equal(t, []string{"Engineering", "Finance"}, rows[0].Departments,
		"departments cell should be split on commas")
	assert.Equal(t, []string{"Legal"}, rows[1].Departments)
}

func TestParseCompaniesBadDate(t *testing.T) {
	csv := "name,registration_number,registration_date\nAcme,REG1,not-a-date\n"
	_, err := ParseCompanies("companies.csv", strings.NewReader(csv))
	assert.ErrorIs(t, err, e.ErrInvalidInput)
	assert.Contains(t, err.Error(), "row 1")
}

func TestParseCompaniesMissingRequired(t *testing.T) {
	csv := "name,registration_number,registration_date\n,REG1,2020-01-01\n"
	_, err := ParseCompanies("companies.csv", strings.NewReader(csv))
	assert.ErrorIs(t, err, e.ErrInvalidInput)
}

func TestParseEmployeesByCompanyName(t *testing.T) {
	csv := `name,employee_id,company,department,role,start_date,end_date,duties
Alice,EMP1,Acme,Engineering,Developer,2022-01-10,,Builds things
Bob,EMP2,Acme,Finance,Analyst,2021-05-01,2024-01-01,Counts things
`
	rows, err := ParseEmployees("employees.csv", strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Acme", rows[0].CompanyName)
	assert.Zero(t, rows[0].CompanyID)
	assert.Nil(t, rows[0].EndDate, "empty end_date cell means still employed")

	require.NotNil(t, rows[1].EndDate)
	assert.Equal(t, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), *rows[1].EndDate)
	assert.Equal(t, 2, rows[1].Line)
}

func TestParseEmployeesByCompanyID(t *testing.T) {
	csv := `name,employee_id,company_id,department,role,start_date,end_date,duties
Alice,EMP1,7,Engineering,Developer,2022-01-10,,
`
	rows, err := ParseEmployees("employees.csv", strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.EqualValues(t, 7, rows[0].CompanyID, "company_id column takes precedence")
	assert.Empty(t, rows[0].CompanyName)
}

func TestParseEmployeesMissingCompanyReference(t *testing.T) {
	csv := "name,employee_id,company,start_date\nAlice,EMP1,,2022-01-10\n"
	_, err := ParseEmployees("employees.csv", strings.NewReader(csv))
	assert.ErrorIs(t, err, e.ErrInvalidInput)
	assert.Contains(t, err.Error(), "company reference")
}

func TestParseUnsupportedExtension(t *testing.T) {
	_, err := ParseCompanies("companies.txt", strings.NewReader("x"))
	assert.ErrorIs(t, err, e.ErrInvalidInput)
	assert.Contains(t, err.Error(), "unsupported file format")
}

func TestParseEmployeesXLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	cells := [][]interface{}{
		{"name", "employee_id", "company", "department", "role", "start_date", "end_date"},
		{"Alice", "EMP1", "Acme", "Engineering", "Developer", "2022-01-10", ""},
	}
	for i, row := range cells {
		addr, err := excelize.JoinCellName("A", i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, addr, &row))
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	rows, err := ParseEmployees("employees.xlsx", &buf)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Alice", rows[0].Name)
	assert.Equal(t, "Acme", rows[0].CompanyName)
	assert.Equal(t, time.Date(2022, time.January, 10, 0, 0, 0, 0, time.UTC), rows[0].StartDate)
}
