package models

import (
	"time"
)

// CompanyUpdate represents the fields that can be updated for a Company.
// Pointer types are used to allow partial updates.
type CompanyUpdate struct {
	ID                 uint
	Name               *string
	RegistrationNumber *string
	RegistrationDate   *time.Time
	Address            *string
	ContactPerson      *string
	Departments        *[]string
	Phone              *string
	Email              *string
}

// EmployeeUpdate represents the fields that can be updated for an Employee.
type EmployeeUpdate struct {
	ID         uint
	Name       *string
	EmployeeID *string
	CompanyID  *uint
	Department *string
	Role       *string
	StartDate  *time.Time
	EndDate    *time.Time
	// ClearEndDate distinguishes "set end date to null" from "leave
	// end date unchanged", which a nil EndDate alone cannot express.
	ClearEndDate bool
	Duties       *string
}

// ProfileUpdate represents the fields an admin can change on a profile.
type ProfileUpdate struct {
	ID           uint
	Role         *Role
	CompanyID    *uint
	ClearCompany bool
	Phone        *string
}
