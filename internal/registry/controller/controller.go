// Package controller implements the core business logic (service
// layer) of the registry: authorization checks, validation, repository
// orchestration, and event production. Policy checks always run before
// any mutation so a denied request has no partial effect.
package controller

import (
	"strings"

	"github.com/gartstein/talent-verify/internal/registry/events"
)

// Entity type tags used for events and audit grouping.
const (
	EntityCompany  = "company"
	EntityEmployee = "employee"
	EntityProfile  = "user_profile"
)

// EventProducer publishes entity-change notifications. Production is
// best-effort and never blocks the request.
type EventProducer interface {
	Produce(eventType events.EventType, entityType string, entityID uint, payload interface{})
}

// NopProducer satisfies EventProducer when eventing is disabled
// (no brokers configured, tests).
type NopProducer struct{}

func (NopProducer) Produce(events.EventType, string, uint, interface{}) {}

// FieldErrors carries per-field validation messages back to the
// caller, one message per offending field.
type FieldErrors map[string]string

func (f FieldErrors) Error() string {
	fields := make([]string, 0, len(f))
	for field := range f {
		fields = append(fields, field)
	}
	return "invalid fields: " + strings.Join(fields, ", ")
}
