package policy

import (
	"testing"

	"github.com/gartstein/talent-verify/internal/registry/models"
	"github.com/stretchr/testify/assert"
)

func actorWith(role models.Role, companyID *uint) *Actor {
	return &Actor{
		AccountID: 1,
		Profile:   &models.UserProfile{AccountID: 1, Role: role, CompanyID: companyID},
	}
}

func ptr(v uint) *uint { return &v }

func TestCanAccessCompany(t *testing.T) {
	tests := []struct {
		name    string
		actor   *Actor
		action  Action
		company uint
		allowed bool
	}{
		{
			name:    "unauthenticated denied read",
			actor:   nil,
			action:  ActionRead,
			company: 1,
			allowed: false,
		},
		{
			name:    "regular user may read",
			actor:   actorWith(models.RoleRegularUser, nil),
			action:  ActionRead,
			company: 1,
			allowed: true,
		},
		{
			name:    "regular user denied write",
			actor:   actorWith(models.RoleRegularUser, ptr(1)),
			action:  ActionWrite,
			company: 1,
			allowed: false,
		},
		{
			name:    "hr staff denied company write even for own company",
			actor:   actorWith(models.RoleHRStaff, ptr(1)),
			action:  ActionWrite,
			company: 1,
			allowed: false,
		},
		{
			name:    "manager may write own company",
			actor:   actorWith(models.RoleCompanyManager, ptr(1)),
			action:  ActionWrite,
			company: 1,
			allowed: true,
		},
		{
			name:    "manager denied write on other company",
			actor:   actorWith(models.RoleCompanyManager, ptr(1)),
			action:  ActionWrite,
			company: 2,
			allowed: false,
		},
		{
			name:    "unaffiliated manager denied write",
			actor:   actorWith(models.RoleCompanyManager, nil),
			action:  ActionWrite,
			company: 1,
			allowed: false,
		},
		{
			name:    "admin may write any company",
			actor:   actorWith(models.RoleAdmin, nil),
			action:  ActionWrite,
			company: 42,
			allowed: true,
		},
		{
			name:    "actor without profile denied write",
			actor:   &Actor{AccountID: 7},
			action:  ActionWrite,
			company: 1,
			allowed: false,
		},
		{
			name:    "actor without profile may still read",
			actor:   &Actor{AccountID: 7},
			action:  ActionRead,
			company: 1,
			allowed: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CanAccessCompany(tt.actor, tt.action, tt.company)
			assert.Equal(t, tt.allowed, got)
		})
	}
}

func TestCanAccessEmployee(t *testing.T) {
	tests := []struct {
		name     string
		actor    *Actor
		action   Action
		employer uint
		allowed  bool
	}{
		{
			name:     "hr staff may write employee of own company",
			actor:    actorWith(models.RoleHRStaff, ptr(3)),
			action:   ActionWrite,
			employer: 3,
			allowed:  true,
		},
		{
			name:     "hr staff denied write on other company's employee",
			actor:    actorWith(models.RoleHRStaff, ptr(3)),
			action:   ActionWrite,
			employer: 4,
			allowed:  false,
		},
		{
			name:     "unaffiliated hr staff denied write",
			actor:    actorWith(models.RoleHRStaff, nil),
			action:   ActionWrite,
			employer: 3,
			allowed:  false,
		},
		{
			name:     "manager may write employee of own company",
			actor:    actorWith(models.RoleCompanyManager, ptr(3)),
			action:   ActionWrite,
			employer: 3,
			allowed:  true,
		},
		{
			name:     "regular user denied write",
			actor:    actorWith(models.RoleRegularUser, ptr(3)),
			action:   ActionWrite,
			employer: 3,
			allowed:  false,
		},
		{
			name:     "admin may write any employee",
			actor:    actorWith(models.RoleAdmin, nil),
			action:   ActionWrite,
			employer: 9,
			allowed:  true,
		},
		{
			name:     "anyone authenticated may read",
			actor:    actorWith(models.RoleRegularUser, nil),
			action:   ActionRead,
			employer: 9,
			allowed:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CanAccessEmployee(tt.actor, tt.action, tt.employer)
			assert.Equal(t, tt.allowed, got)
		})
	}
}

func TestCanAccessProfile(t *testing.T) {
	assert.True(t, CanAccessProfile(actorWith(models.RoleAdmin, nil), ActionWrite))
	assert.False(t, CanAccessProfile(actorWith(models.RoleCompanyManager, ptr(1)), ActionWrite))
	assert.False(t, CanAccessProfile(actorWith(models.RoleHRStaff, ptr(1)), ActionWrite))
	assert.False(t, CanAccessProfile(&Actor{AccountID: 1}, ActionWrite))
	assert.True(t, CanAccessProfile(actorWith(models.RoleRegularUser, nil), ActionRead))
	assert.False(t, CanAccessProfile(nil, ActionRead))
}

func TestCanReadAuditLogs(t *testing.T) {
	assert.True(t, CanReadAuditLogs(actorWith(models.RoleAdmin, nil)))
	assert.False(t, CanReadAuditLogs(actorWith(models.RoleCompanyManager, ptr(1))))
	assert.False(t, CanReadAuditLogs(nil))
}

func TestCanCreateCompany(t *testing.T) {
	assert.True(t, CanCreateCompany(actorWith(models.RoleAdmin, nil)))
	assert.True(t, CanCreateCompany(actorWith(models.RoleCompanyManager, nil)))
	assert.False(t, CanCreateCompany(actorWith(models.RoleHRStaff, ptr(1))))
	assert.False(t, CanCreateCompany(actorWith(models.RoleRegularUser, nil)))
	assert.False(t, CanCreateCompany(nil))
}
