package generator

import (
	"context"
	"fmt"
	"testing"

	"github.com/dskvich/ai-gallery/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePromptStore struct {
	results   map[int64]domain.Result
	deleted   map[int64]bool
	setCalls  int
	deleteErr error
}

func newFakePromptStore() *fakePromptStore {
	return &fakePromptStore{
		results: make(map[int64]domain.Result),
		deleted: make(map[int64]bool),
	}
}

func (f *fakePromptStore) SetResult(_ context.Context, id int64, result domain.Result) error {
	f.setCalls++
	f.results[id] = result
	return nil
}

func (f *fakePromptStore) Delete(_ context.Context, id int64) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted[id] = true
	return nil
}

type fakeChat struct {
	content string
	err     error
}

func (f *fakeChat) CreateChatCompletion(_ context.Context, _, _ string) (string, error) {
	return f.content, f.err
}

type fakeImages struct {
	data []byte
	err  error
}

func (f *fakeImages) GenerateImage(context.Context, string) ([]byte, error) {
	return f.data, f.err
}

type fakeBlobs struct {
	ref   string
	saved [][]byte
	err   error
}

func (f *fakeBlobs) Save(_ context.Context, data []byte, _ string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.saved = append(f.saved, data)
	return f.ref, nil
}

type fakeNotifier struct {
	notified int
}

func (f *fakeNotifier) Notify() { f.notified++ }

func textJob(promptID int64) *domain.Job {
	return &domain.Job{ID: 1, PromptID: promptID, Prompt: "tell a joke", OutputType: domain.OutputTypeText}
}

func TestGenerate_TextSuccess(t *testing.T) {
	prompts := newFakePromptStore()
	notifier := &fakeNotifier{}
	g := New(prompts, &fakeChat{content: "Why did..."}, &fakeImages{}, &fakeBlobs{}, notifier)

	err := g.Generate(context.Background(), textJob(42))
	require.NoError(t, err)

	assert.Equal(t, domain.Result{Type: domain.ResultTypeText, Value: "Why did..."}, prompts.results[42])
	assert.Equal(t, 1, prompts.setCalls, "result must be written exactly once")
	assert.False(t, prompts.deleted[42])
	assert.Equal(t, 1, notifier.notified)
}

func TestGenerate_TextProviderError(t *testing.T) {
	cause := fmt.Errorf("unexpected status code: 500")
	prompts := newFakePromptStore()
	notifier := &fakeNotifier{}
	g := New(prompts, &fakeChat{err: cause}, &fakeImages{}, &fakeBlobs{}, notifier)

	err := g.Generate(context.Background(), textJob(42))
	require.ErrorIs(t, err, cause)

	assert.True(t, prompts.deleted[42], "failed requests leave no visible trace")
	assert.Zero(t, prompts.setCalls, "no result may be written after a declared failure")
	assert.Equal(t, 1, notifier.notified)
}

func TestGenerate_MissingCredential(t *testing.T) {
	cause := fmt.Errorf("resolving credential: %w", domain.ErrMissingCredential)
	prompts := newFakePromptStore()
	g := New(prompts, &fakeChat{err: cause}, &fakeImages{}, &fakeBlobs{}, &fakeNotifier{})

	err := g.Generate(context.Background(), textJob(7))
	require.ErrorIs(t, err, domain.ErrMissingCredential)
	assert.True(t, prompts.deleted[7])
}

func TestGenerate_ImageSuccess(t *testing.T) {
	imageBytes := []byte{1, 2, 3}
	prompts := newFakePromptStore()
	blobs := &fakeBlobs{ref: "abc123"}
	g := New(prompts, &fakeChat{}, &fakeImages{data: imageBytes}, blobs, &fakeNotifier{})

	job := &domain.Job{ID: 1, PromptID: 9, Prompt: "a cat", OutputType: domain.OutputTypeImage}
	err := g.Generate(context.Background(), job)
	require.NoError(t, err)

	require.Len(t, blobs.saved, 1)
	assert.Equal(t, imageBytes, blobs.saved[0])
	assert.Equal(t, domain.Result{Type: domain.ResultTypeImage, Value: "abc123"}, prompts.results[9])
}

func TestGenerate_ImageProviderError(t *testing.T) {
	prompts := newFakePromptStore()
	g := New(prompts, &fakeChat{}, &fakeImages{err: assert.AnError}, &fakeBlobs{}, &fakeNotifier{})

	job := &domain.Job{ID: 1, PromptID: 9, OutputType: domain.OutputTypeImage}
	err := g.Generate(context.Background(), job)
	require.ErrorIs(t, err, assert.AnError)
	assert.True(t, prompts.deleted[9])
}

func TestGenerate_BlobSaveError(t *testing.T) {
	prompts := newFakePromptStore()
	g := New(prompts, &fakeChat{}, &fakeImages{data: []byte{1}}, &fakeBlobs{err: assert.AnError}, &fakeNotifier{})

	job := &domain.Job{ID: 1, PromptID: 9, OutputType: domain.OutputTypeImage}
	err := g.Generate(context.Background(), job)
	require.ErrorIs(t, err, assert.AnError)
	assert.True(t, prompts.deleted[9])
	assert.Zero(t, prompts.setCalls)
}

func TestGenerate_UnknownOutputType(t *testing.T) {
	prompts := newFakePromptStore()
	g := New(prompts, &fakeChat{}, &fakeImages{}, &fakeBlobs{}, &fakeNotifier{})

	job := &domain.Job{ID: 1, PromptID: 3, OutputType: "audio"}
	err := g.Generate(context.Background(), job)
	require.Error(t, err)
	assert.True(t, prompts.deleted[3])
}

func TestGenerate_DeleteFailureStillReturnsCause(t *testing.T) {
	prompts := newFakePromptStore()
	prompts.deleteErr = fmt.Errorf("db down")
	g := New(prompts, &fakeChat{err: assert.AnError}, &fakeImages{}, &fakeBlobs{}, &fakeNotifier{})

	err := g.Generate(context.Background(), textJob(5))
	assert.ErrorIs(t, err, assert.AnError)
}
