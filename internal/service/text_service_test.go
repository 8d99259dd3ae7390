package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prapeller/readadvance.backend/internal/task"
)

func newTestTextService(texts *mockTextStore, runner *mockTaskRunner) *textServiceImpl {
	factory := task.NewEnrichmentTaskFactory(
		&noopEnricher{}, testRetryPolicy(), nil, testLogger())

	return &textServiceImpl{
		textStore:   texts,
		inTx:        noTx,
		taskFactory: factory,
		taskRunner:  runner,
		logger:      testLogger(),
	}
}

func TestTextServiceCreateFansOutTwoTasks(t *testing.T) {
	texts := newMockTextStore()
	runner := &mockTaskRunner{}
	svc := newTestTextService(texts, runner)

	text, err := svc.Create(context.Background(), "Это был длинный день в деревне.")
	require.NoError(t, err)
	require.NotNil(t, text)
	assert.NotEmpty(t, text.ContentDigest)

	types := runner.submittedTypes()
	assert.ElementsMatch(t,
		[]string{task.TaskTypeTextIdentifyLanguage, task.TaskTypeTextIdentifyLevel},
		types)
}

func TestTextServiceCreateDuplicate(t *testing.T) {
	texts := newMockTextStore()
	runner := &mockTaskRunner{}
	svc := newTestTextService(texts, runner)

	ctx := context.Background()
	content := "The same text twice."

	_, err := svc.Create(ctx, content)
	require.NoError(t, err)

	_, err = svc.Create(ctx, content)
	assert.ErrorIs(t, err, ErrTextExists)

	// Only the first create fanned out tasks
	assert.Len(t, runner.submittedTypes(), 2)
}

func TestTextServiceCreateEmptyContent(t *testing.T) {
	svc := newTestTextService(newMockTextStore(), &mockTaskRunner{})

	_, err := svc.Create(context.Background(), "")
	require.Error(t, err)
}

func TestTextServiceGetTextNotFound(t *testing.T) {
	svc := newTestTextService(newMockTextStore(), &mockTaskRunner{})

	_, err := svc.GetText(context.Background(), newUUID(t))
	assert.ErrorIs(t, err, ErrTextNotFound)
}

func TestTextServiceLanguageIdentificationOutranksLevel(t *testing.T) {
	texts := newMockTextStore()
	runner := &mockTaskRunner{}
	svc := newTestTextService(texts, runner)

	_, err := svc.Create(context.Background(), "Un texte en français.")
	require.NoError(t, err)

	byType := map[string]int{}
	for _, submitted := range runner.submitted {
		byType[submitted.Type()] = submitted.Priority()
	}
	assert.Greater(t,
		byType[task.TaskTypeTextIdentifyLanguage],
		byType[task.TaskTypeTextIdentifyLevel])
}
