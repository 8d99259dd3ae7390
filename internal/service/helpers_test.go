package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/prapeller/readadvance.backend/internal/retry"
)

// noopEnricher satisfies task.Enricher for factories in tests that never
// execute the tasks they enqueue.
type noopEnricher struct{}

func (noopEnricher) IdentifyWordLevel(ctx context.Context, wordID uuid.UUID) error    { return nil }
func (noopEnricher) IdentifyTextLanguage(ctx context.Context, textID uuid.UUID) error { return nil }
func (noopEnricher) IdentifyTextLevel(ctx context.Context, textID uuid.UUID) error    { return nil }

func testRetryPolicy() retry.Policy {
	return retry.Constant(2, time.Millisecond)
}

func newUUID(t *testing.T) uuid.UUID {
	t.Helper()
	return uuid.New()
}
