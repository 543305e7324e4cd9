package service

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonboulle/clockwork"

	"github.com/spec-kit/erp-service/internal/domain"
	"github.com/spec-kit/erp-service/internal/events"
	apperrors "github.com/spec-kit/erp-service/pkg/util"
)

// Actor identifies the caller of a service operation.
type Actor struct {
	UserID     string
	Role       domain.Role
	EmployeeID string
}

// HasRole reports whether the actor holds one of roles.
func (a Actor) HasRole(roles ...domain.Role) bool {
	for _, r := range roles {
		if a.Role == r {
			return true
		}
	}
	return false
}

func (a Actor) userRef() *string {
	if a.UserID == "" {
		return nil
	}
	id := a.UserID
	return &id
}

func (a Actor) eventActor() events.Actor {
	return events.Actor{UserID: a.userRef(), Role: a.Role}
}

// emitter stamps and publishes domain events. A nil dispatcher drops events.
type emitter struct {
	dispatcher events.Dispatcher
	clock      clockwork.Clock
}

func newEmitter(dispatcher events.Dispatcher, clock clockwork.Clock) emitter {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return emitter{dispatcher: dispatcher, clock: clock}
}

func (e emitter) emit(ctx context.Context, eventType events.EventType, aggregateID string, actor Actor, payload any) {
	if e.dispatcher == nil {
		return
	}
	_ = e.dispatcher.Publish(ctx, events.Event{
		ID:          uuid.NewString(),
		Type:        eventType,
		AggregateID: aggregateID,
		Actor:       actor.eventActor(),
		Timestamp:   e.clock.Now().UTC(),
		Payload:     payload,
	})
}

// notFound turns a missing row into a NOT_FOUND error naming resource.
func notFound(err error, resource string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound(resource, nil)
	}
	return err
}

func optionalID(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func required(fields map[string]string) error {
	missing := make([]string, 0)
	for name, value := range fields {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return apperrors.NewValidationError("missing required fields", map[string]any{"fields": missing})
}

func sortedCopy(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := append([]string(nil), values...)
	sort.Strings(out)
	return out
}
