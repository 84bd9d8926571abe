package db

import (
	"context"
	"testing"
	"time"

	e "github.com/gartstein/talent-verify/internal/registry/errors"
	"github.com/gartstein/talent-verify/internal/registry/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// SetupTestDB initializes an in-memory SQLite database for testing.
func SetupTestDB(t *testing.T) *Repository {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err, "failed to open test database")

	err = db.AutoMigrate(models.All()...)
	require.NoError(t, err, "failed to migrate test database")

	return &Repository{db: db}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func seedCompany(t *testing.T, repo *Repository, name, regNumber string) *models.Company {
	t.Helper()
	company := &models.Company{
		Name:               name,
		RegistrationNumber: regNumber,
		RegistrationDate:   date(2020, time.March, 1),
		ContactPerson:      "Jane Doe",
		Departments:        []string{"Engineering", "Finance"},
	}
	require.NoError(t, repo.CreateCompany(context.Background(), company), "CreateCompany should succeed")
	return company
}

func seedEmployee(t *testing.T, repo *Repository, company *models.Company, name, employeeID string, endDate *time.Time) *models.Employee {
	t.Helper()
	employee := &models.Employee{
		Name:       name,
		EmployeeID: employeeID,
		CompanyID:  company.ID,
		Department: "Engineering",
		Role:       "Developer",
		StartDate:  date(2022, time.January, 10),
		EndDate:    endDate,
	}
	require.NoError(t, repo.CreateEmployee(context.Background(), employee), "CreateEmployee should succeed")
	return employee
}

func TestCreateCompanyDuplicateRegistrationNumber(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()

	seedCompany(t, repo, "Acme", "REG1")

	dup := &models.Company{
		Name:               "Other",
		RegistrationNumber: "REG1",
		RegistrationDate:   date(2021, time.June, 1),
	}
	err := repo.CreateCompany(ctx, dup)
	assert.ErrorIs(t, err, e.ErrConflict, "duplicate registration number should conflict")
}

func TestGetCompanyNotFound(t *testing.T) {
	repo := SetupTestDB(t)

	_, err := repo.GetCompany(context.Background(), 12345)
	assert.ErrorIs(t, err, e.ErrNotFound)
}

func TestUpdateCompany(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()

	company := seedCompany(t, repo, "Old Name", "REG1")

	name := "New Name"
	departments := []string{"Legal"}
	err := repo.UpdateCompany(ctx, &models.CompanyUpdate{
		ID:          company.ID,
		Name:        &name,
		Departments: &departments,
	})
	assert.NoError(t, err, "UpdateCompany should not return an error")

	updated, err := repo.GetCompany(ctx, company.ID)
	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.Name)
	assert.Equal(t, []string{"Legal"}, []string(updated.Departments))
}

func TestUpdateCompanyNotFound(t *testing.T) {
	repo := SetupTestDB(t)

	name := "Nobody"
	err := repo.UpdateCompany(context.Background(), &models.CompanyUpdate{ID: 999, Name: &name})
	assert.ErrorIs(t, err, e.ErrNotFound)
}

func TestDeleteCompanyCascade(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()

	company := seedCompany(t, repo, "Acme", "REG1")
	other := seedCompany(t, repo, "Globex", "REG2")

	employee := seedEmployee(t, repo, company, "Alice", "EMP1", nil)
	require.NoError(t, repo.CreateHistory(ctx, &models.EmploymentHistory{
		EmployeeID: employee.ID,
		CompanyID:  company.ID,
		Department: employee.Department,
		Role:       employee.Role,
		StartDate:  employee.StartDate,
	}))

	keeper := seedEmployee(t, repo, other, "Bob", "EMP2", nil)

	account := &models.Account{Username: "staff", Email: "staff@acme.test", PasswordHash: "x"}
	require.NoError(t, repo.CreateAccount(ctx, account))
	profile := &models.UserProfile{AccountID: account.ID, Role: models.RoleHRStaff, CompanyID: &company.ID}
	require.NoError(t, repo.CreateProfile(ctx, profile))

	err := repo.DeleteCompany(ctx, company.ID)
	assert.NoError(t, err, "DeleteCompany should not return an error")

	// Employees and histories of the deleted company are gone.
	_, err = repo.GetEmployee(ctx, employee.ID)
	assert.ErrorIs(t, err, e.ErrNotFound, "employee should be cascade-deleted")
	_, total, err := repo.ListHistories(ctx, HistoryFilter{CompanyID: company.ID}, ListParams{})
	require.NoError(t, err)
	assert.Zero(t, total, "histories should be cascade-deleted")

	// Other companies' employees are untouched.
	_, err = repo.GetEmployee(ctx, keeper.ID)
	assert.NoError(t, err, "unrelated employee should survive")

	// Staff profiles are detached, not deleted.
	detached, err := repo.GetProfileByAccount(ctx, account.ID)
	require.NoError(t, err, "profile should survive company deletion")
	assert.Nil(t, detached.CompanyID, "profile company reference should be cleared")
}

func TestDeleteCompanyNotFound(t *testing.T) {
	repo := SetupTestDB(t)

	err := repo.DeleteCompany(context.Background(), 999)
	assert.ErrorIs(t, err, e.ErrNotFound)
}

func TestCreateEmployeeDuplicateEmployeeID(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()

	company := seedCompany(t, repo, "Acme", "REG1")
	seedEmployee(t, repo, company, "Alice", "EMP1", nil)

	dup := &models.Employee{
		Name:       "Impostor",
		EmployeeID: "EMP1",
		CompanyID:  company.ID,
		StartDate:  date(2023, time.May, 2),
	}
	err := repo.CreateEmployee(ctx, dup)
	assert.ErrorIs(t, err, e.ErrConflict, "duplicate employee id should conflict")
}

func TestUpdateEmployeeClearEndDate(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()

	company := seedCompany(t, repo, "Acme", "REG1")
	end := date(2024, time.January, 1)
	employee := seedEmployee(t, repo, company, "Alice", "EMP1", &end)

	err := repo.UpdateEmployee(ctx, &models.EmployeeUpdate{ID: employee.ID, ClearEndDate: true})
	require.NoError(t, err)

	updated, err := repo.GetEmployee(ctx, employee.ID)
	require.NoError(t, err)
	assert.Nil(t, updated.EndDate, "end date should be cleared")
	assert.True(t, updated.IsActive(), "employee with no end date is active")
}

func TestSearchEmployeesActiveFlag(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()

	company := seedCompany(t, repo, "Acme", "REG1")
	active := seedEmployee(t, repo, company, "Alice", "EMP1", nil)
	end := date(2024, time.January, 1)
	seedEmployee(t, repo, company, "Bob", "EMP2", &end)

	isActive := true
	results, total, err := repo.SearchEmployees(ctx, SearchFilter{Active: &isActive}, ListParams{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, results, 1)
	assert.Equal(t, active.ID, results[0].ID, "only the employee with no end date is active")

	isActive = false
	results, total, err = repo.SearchEmployees(ctx, SearchFilter{Active: &isActive}, ListParams{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, results, 1)
	assert.Equal(t, "EMP2", results[0].EmployeeID)
}

// TestSearchEmployeesScenario follows the lifecycle check: an employee
// appears in is_active=true searches until an end date is recorded.
func TestSearchEmployeesScenario(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()

	company := seedCompany(t, repo, "Acme", "REG1")
	employee := seedEmployee(t, repo, company, "Alice", "EMP1", nil)

	isActive := true
	results, _, err := repo.SearchEmployees(ctx, SearchFilter{Active: &isActive}, ListParams{})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, employee.ID, results[0].ID)

	end := date(2024, time.January, 1)
	require.NoError(t, repo.UpdateEmployee(ctx, &models.EmployeeUpdate{ID: employee.ID, EndDate: &end}))

	results, _, err = repo.SearchEmployees(ctx, SearchFilter{Active: &isActive}, ListParams{})
	require.NoError(t, err)
	assert.Empty(t, results, "employee with an end date must drop out of active search")
}

func TestSearchEmployeesConjunctiveFilters(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()

	acme := seedCompany(t, repo, "Acme Widgets", "REG1")
	globex := seedCompany(t, repo, "Globex", "REG2")

	seedEmployee(t, repo, acme, "Alice Smith", "EMP1", nil)
	seedEmployee(t, repo, globex, "Alice Jones", "EMP2", nil)

	results, total, err := repo.SearchEmployees(ctx, SearchFilter{
		Name:    "alice",
		Company: "acme",
	}, ListParams{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total, "both filters must apply together")
	require.Len(t, results, 1)
	assert.Equal(t, "Alice Smith", results[0].Name)
	require.NotNil(t, results[0].Company, "company should be preloaded")
	assert.Equal(t, "Acme Widgets", results[0].Company.Name)
}

func TestSearchEmployeesDateBounds(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()

	company := seedCompany(t, repo, "Acme", "REG1")

	early := seedEmployee(t, repo, company, "Early", "EMP1", nil)
	require.NoError(t, repo.UpdateEmployee(ctx, &models.EmployeeUpdate{
		ID:        early.ID,
		StartDate: timePtr(date(2019, time.February, 1)),
	}))
	seedEmployee(t, repo, company, "Late", "EMP2", nil) // starts 2022-01-10

	from := date(2021, time.January, 1)
	results, _, err := repo.SearchEmployees(ctx, SearchFilter{StartDateFrom: &from}, ListParams{})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Late", results[0].Name)

	to := date(2020, time.January, 1)
	results, _, err = repo.SearchEmployees(ctx, SearchFilter{StartDateTo: &to}, ListParams{})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Early", results[0].Name)
}

func timePtr(t time.Time) *time.Time { return &t }

func TestListCompaniesPagination(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()

	seedCompany(t, repo, "Alpha", "REG1")
	seedCompany(t, repo, "Beta", "REG2")
	seedCompany(t, repo, "Gamma", "REG3")

	companies, total, err := repo.ListCompanies(ctx, ListParams{Page: 1, PageSize: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, companies, 2)

	companies, _, err = repo.ListCompanies(ctx, ListParams{Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.Len(t, companies, 1)
}

func TestAccountProfileUniqueness(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()

	account := &models.Account{Username: "alice", Email: "alice@test", PasswordHash: "x"}
	require.NoError(t, repo.CreateAccount(ctx, account))

	dup := &models.Account{Username: "alice", Email: "other@test", PasswordHash: "x"}
	assert.ErrorIs(t, repo.CreateAccount(ctx, dup), e.ErrConflict, "usernames are unique")

	require.NoError(t, repo.CreateProfile(ctx, &models.UserProfile{AccountID: account.ID, Role: models.RoleAdmin}))
	err := repo.CreateProfile(ctx, &models.UserProfile{AccountID: account.ID, Role: models.RoleRegularUser})
	assert.ErrorIs(t, err, e.ErrConflict, "exactly one profile per account")
}

func TestResolveActor(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()

	account := &models.Account{Username: "alice", Email: "alice@test", PasswordHash: "x"}
	require.NoError(t, repo.CreateAccount(ctx, account))

	// No profile yet: the actor exists but carries no role.
	actor, err := repo.ResolveActor(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, account.ID, actor.AccountID)
	assert.Nil(t, actor.Profile)

	require.NoError(t, repo.CreateProfile(ctx, &models.UserProfile{AccountID: account.ID, Role: models.RoleAdmin}))
	actor, err = repo.ResolveActor(ctx, account.ID)
	require.NoError(t, err)
	require.NotNil(t, actor.Profile)
	assert.Equal(t, models.RoleAdmin, actor.Profile.Role)

	_, err = repo.ResolveActor(ctx, 999)
	assert.ErrorIs(t, err, e.ErrNotFound)
}

func TestAuditLogFilterAndRecency(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()

	account := &models.Account{Username: "alice", Email: "alice@test", PasswordHash: "x"}
	require.NoError(t, repo.CreateAccount(ctx, account))

	for _, action := range []models.AuditAction{models.ActionCreate, models.ActionUpdate, models.ActionView} {
		require.NoError(t, repo.CreateAuditLog(ctx, &models.AuditLog{
			AccountID:  &account.ID,
			Action:     action,
			EntityType: "company",
		}))
	}

	_, total, err := repo.ListAuditLogs(ctx, AuditFilter{Action: models.ActionCreate}, ListParams{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)

	recent, err := repo.RecentAuditLogs(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, recent, 2)
}
