// Package models contains the domain models for the registry,
// configured to work using GORM as the ORM.
package models

import (
	"time"

	"gorm.io/datatypes"
)

// Role classifies what an account is allowed to do.
// Least to most privileged: RoleRegularUser, RoleHRStaff,
// RoleCompanyManager, RoleAdmin.
type Role string

const (
	RoleAdmin          Role = "admin"
	RoleCompanyManager Role = "company_manager"
	RoleHRStaff        Role = "hr_staff"
	RoleRegularUser    Role = "regular_user"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleCompanyManager, RoleHRStaff, RoleRegularUser:
		return true
	}
	return false
}

// AuditAction classifies what an audit log entry records.
type AuditAction string

const (
	ActionCreate AuditAction = "create"
	ActionUpdate AuditAction = "update"
	ActionDelete AuditAction = "delete"
	ActionView   AuditAction = "view"
	ActionLogin  AuditAction = "login"
)

// Company is a registered employer. EmployeeCount is a denormalized
// roster counter maintained by the employee service.
type Company struct {
	ID                 uint                        `gorm:"primaryKey" json:"id"`
	Name               string                      `gorm:"size:255;not null;index" json:"name"`
	RegistrationNumber string                      `gorm:"size:100;not null;uniqueIndex" json:"registration_number"`
	RegistrationDate   time.Time                   `json:"registration_date"`
	Address            string                      `json:"address"`
	ContactPerson      string                      `gorm:"size:255" json:"contact_person"`
	Departments        datatypes.JSONSlice[string] `json:"departments"`
	EmployeeCount      int                         `gorm:"default:0;check:employee_count >= 0" json:"employee_count"`
	Phone              string                      `gorm:"size:50" json:"phone"`
	Email              string                      `gorm:"size:255" json:"email"`
	CreatedAt          time.Time                   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time                   `gorm:"autoUpdateTime" json:"updated_at"`
}

// Employee belongs to exactly one company. An employee with no end
// date is considered active.
type Employee struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Name       string     `gorm:"size:255;not null;index" json:"name"`
	EmployeeID string     `gorm:"size:100;not null;uniqueIndex" json:"employee_id"`
	CompanyID  uint       `gorm:"not null;index" json:"company_id"`
	Company    *Company   `gorm:"foreignKey:CompanyID;constraint:OnDelete:CASCADE" json:"-"`
	Department string     `gorm:"size:100" json:"department"`
	Role       string     `gorm:"size:255" json:"role"`
	StartDate  time.Time  `gorm:"index" json:"start_date"`
	EndDate    *time.Time `json:"end_date"`
	Duties     string     `json:"duties"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// IsActive reports whether the employee has no recorded end date.
func (e *Employee) IsActive() bool {
	return e.EndDate == nil
}

// EmploymentHistory is an append-only snapshot of a position an
// employee held. Rows are written on employee creation and on each
// position change, and are never mutated afterwards.
type EmploymentHistory struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	EmployeeID uint       `gorm:"not null;index" json:"employee_id"`
	Employee   *Employee  `gorm:"foreignKey:EmployeeID;constraint:OnDelete:CASCADE" json:"-"`
	CompanyID  uint       `gorm:"not null;index" json:"company_id"`
	Company    *Company   `gorm:"foreignKey:CompanyID;constraint:OnDelete:CASCADE" json:"-"`
	Department string     `gorm:"size:100" json:"department"`
	Role       string     `gorm:"size:255" json:"role"`
	StartDate  time.Time  `json:"start_date"`
	EndDate    *time.Time `json:"end_date"`
	Duties     string     `json:"duties"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

// Account is a login identity. Every account owns exactly one
// UserProfile, created in the same transaction as the account.
type Account struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"size:150;not null;uniqueIndex" json:"username"`
	Email        string    `gorm:"size:255;not null" json:"email"`
	FirstName    string    `gorm:"size:150" json:"first_name"`
	LastName     string    `gorm:"size:150" json:"last_name"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// UserProfile carries the role and optional company affiliation of an
// account. Deleting the affiliated company clears CompanyID but keeps
// the profile.
type UserProfile struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	AccountID uint      `gorm:"not null;uniqueIndex" json:"account_id"`
	Account   *Account  `gorm:"foreignKey:AccountID;constraint:OnDelete:CASCADE" json:"account,omitempty"`
	Role      Role      `gorm:"size:20;not null;default:'regular_user'" json:"role"`
	CompanyID *uint     `gorm:"index" json:"company_id"`
	Company   *Company  `gorm:"foreignKey:CompanyID;constraint:OnDelete:SET NULL" json:"-"`
	Phone     string    `gorm:"size:50" json:"phone"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// AuditLog records a security-relevant action. Rows survive deletion
// of the acting account (AccountID is nulled) and are never updated
// or deleted by the application.
type AuditLog struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	AccountID  *uint          `gorm:"index" json:"account_id"`
	Account    *Account       `gorm:"foreignKey:AccountID;constraint:OnDelete:SET NULL" json:"-"`
	Action     AuditAction    `gorm:"size:10;not null" json:"action"`
	EntityType string         `gorm:"size:100;not null;index" json:"entity_type"`
	EntityID   *uint          `json:"entity_id"`
	Details    datatypes.JSON `json:"details"`
	IPAddress  string         `gorm:"size:50" json:"ip_address"`
	CreatedAt  time.Time      `gorm:"autoCreateTime;index" json:"timestamp"`
}

// All lists every model in dependency order for migration.
func All() []interface{} {
	return []interface{}{
		&Company{},
		&Employee{},
		&EmploymentHistory{},
		&Account{},
		&UserProfile{},
		&AuditLog{},
	}
}
