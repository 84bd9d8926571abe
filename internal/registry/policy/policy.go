// Package policy decides whether an actor may perform an action on a
// target entity. Decisions are pure functions over the actor's profile
// and the target's company affiliation; no I/O happens here, so every
// check runs before any mutation is attempted.
package policy

import (
	"github.com/gartstein/talent-verify/internal/registry/models"
)

// Action is the coarse verb classification the policy operates on.
// Fetch and list map to ActionRead; create, update and delete map to
// ActionWrite.
type Action int

const (
	ActionRead Action = iota
	ActionWrite
)

// Actor is the authenticated account making a request, together with
// its profile. Profile may be nil for accounts that somehow lack one;
// such actors are denied all writes.
type Actor struct {
	AccountID uint
	Profile   *models.UserProfile
}

// sameCompany reports whether the actor is affiliated with the given
// company.
func (a *Actor) sameCompany(companyID uint) bool {
	return a.Profile != nil && a.Profile.CompanyID != nil && *a.Profile.CompanyID == companyID
}

func (a *Actor) role() models.Role {
	if a == nil || a.Profile == nil {
		return ""
	}
	return a.Profile.Role
}

// CanAccessCompany decides access to a company record. Reads are open
// to any authenticated actor; writes require admin, or a company
// manager affiliated with that same company.
func CanAccessCompany(actor *Actor, action Action, companyID uint) bool {
	if actor == nil {
		return false
	}
	if action == ActionRead {
		return true
	}
	switch actor.role() {
	case models.RoleAdmin:
		return true
	case models.RoleCompanyManager:
		return actor.sameCompany(companyID)
	default:
		return false
	}
}

// CanCreateCompany decides whether the actor may create a new company.
// There is no target yet, so managers pass the collection-level check;
// the created company is theirs to manage only if it matches their
// affiliation.
func CanCreateCompany(actor *Actor) bool {
	if actor == nil {
		return false
	}
	switch actor.role() {
	case models.RoleAdmin, models.RoleCompanyManager:
		return true
	default:
		return false
	}
}

// CanAccessEmployee decides access to an employee record (and to its
// employment history). Writes require admin, or a company manager or
// HR staff member affiliated with the employee's company.
func CanAccessEmployee(actor *Actor, action Action, employerID uint) bool {
	if actor == nil {
		return false
	}
	if action == ActionRead {
		return true
	}
	switch actor.role() {
	case models.RoleAdmin:
		return true
	case models.RoleCompanyManager, models.RoleHRStaff:
		return actor.sameCompany(employerID)
	default:
		return false
	}
}

// CanAccessProfile decides access to user profiles. Profile mutation
// is admin-only, unconditionally.
func CanAccessProfile(actor *Actor, action Action) bool {
	if actor == nil {
		return false
	}
	if action == ActionRead {
		return true
	}
	return actor.role() == models.RoleAdmin
}

// CanImportEmployees decides whether the actor may bulk-import
// employee rows. This is the collection-level check; each row still
// resolves against an existing company before anything is inserted.
func CanImportEmployees(actor *Actor) bool {
	if actor == nil {
		return false
	}
	switch actor.role() {
	case models.RoleAdmin, models.RoleCompanyManager, models.RoleHRStaff:
		return true
	default:
		return false
	}
}

// CanReadAuditLogs restricts the audit trail to admins.
func CanReadAuditLogs(actor *Actor) bool {
	return actor != nil && actor.role() == models.RoleAdmin
}
