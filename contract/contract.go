//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"reflect"

	"open-invite/domain"
	"open-invite/domain/event"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

type WorkerName string

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

type EventSink interface {
	Consume(ctx context.Context, e event.DomainEvent) error
}

// Renderer creates and removes the outward representation of a session.
// Implemented by the chat platform integration; the core treats failures as
// non-fatal and only keeps the returned identity for reaction correlation.
type Renderer interface {
	Render(ctx context.Context, view domain.SessionView) (string, error)
	Retire(ctx context.Context, renderedID string) error
}

// Directory resolves member identifiers and reports voice occupancy.
// Implemented by the chat platform integration.
type Directory interface {
	LookupMember(ctx context.Context, identifier string) (domain.MemberRef, bool)
	VoicePresent(ctx context.Context) map[domain.MemberID]struct{}
}
