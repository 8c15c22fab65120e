package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dskvich/ai-gallery/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePromptCreator struct {
	records []*domain.PromptRecord
	err     error
}

func (f *fakePromptCreator) Create(_ context.Context, record *domain.PromptRecord) error {
	if f.err != nil {
		return f.err
	}
	record.ID = int64(len(f.records) + 1)
	record.CreatedAt = time.Now()
	f.records = append(f.records, record)
	return nil
}

type fakeEnqueuer struct {
	jobs   []*domain.Job
	delays []time.Duration
	err    error
}

func (f *fakeEnqueuer) Enqueue(_ context.Context, job *domain.Job, delay time.Duration) error {
	if f.err != nil {
		return f.err
	}
	f.jobs = append(f.jobs, job)
	f.delays = append(f.delays, delay)
	return nil
}

type fakeHub struct {
	notified int
}

func (f *fakeHub) Notify() { f.notified++ }

func postPrompt(t *testing.T, handler http.Handler, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/prompts", bytes.NewReader(raw))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestSubmitPrompt(t *testing.T) {
	prompts := &fakePromptCreator{}
	jobs := &fakeEnqueuer{}
	hub := &fakeHub{}
	handler := SubmitPrompt(prompts, jobs, hub)

	rec := postPrompt(t, handler, submitRequest{
		SessionID:  "s1",
		Prompt:     "tell a joke",
		OutputType: domain.OutputTypeText,
	})

	require.Equal(t, http.StatusAccepted, rec.Code)

	// The record exists pending before any fulfillment runs.
	require.Len(t, prompts.records, 1)
	record := prompts.records[0]
	assert.Equal(t, "s1", record.SessionID)
	assert.Equal(t, "tell a joke", record.Prompt)
	assert.Nil(t, record.Result)

	// Exactly one zero-delay job referencing the new record.
	require.Len(t, jobs.jobs, 1)
	job := jobs.jobs[0]
	assert.Equal(t, record.ID, job.PromptID)
	assert.Equal(t, "tell a joke", job.Prompt)
	assert.Equal(t, domain.OutputTypeText, job.OutputType)
	assert.Equal(t, time.Duration(0), jobs.delays[0])

	assert.Equal(t, 1, hub.notified)

	var resp map[string]int64
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, record.ID, resp["id"])
}

func TestSubmitPrompt_EmptyPromptAccepted(t *testing.T) {
	prompts := &fakePromptCreator{}
	handler := SubmitPrompt(prompts, &fakeEnqueuer{}, &fakeHub{})

	rec := postPrompt(t, handler, submitRequest{
		SessionID:  "s1",
		OutputType: domain.OutputTypeImage,
	})

	assert.Equal(t, http.StatusAccepted, rec.Code)
	require.Len(t, prompts.records, 1)
	assert.Empty(t, prompts.records[0].Prompt)
}

func TestSubmitPrompt_InvalidOutputType(t *testing.T) {
	prompts := &fakePromptCreator{}
	handler := SubmitPrompt(prompts, &fakeEnqueuer{}, &fakeHub{})

	rec := postPrompt(t, handler, map[string]string{
		"sessionId":  "s1",
		"prompt":     "hi",
		"outputType": "audio",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, prompts.records)
}

func TestSubmitPrompt_InvalidBody(t *testing.T) {
	handler := SubmitPrompt(&fakePromptCreator{}, &fakeEnqueuer{}, &fakeHub{})

	req := httptest.NewRequest(http.MethodPost, "/api/prompts", bytes.NewReader([]byte("{")))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmitPrompt_StoreFailure(t *testing.T) {
	jobs := &fakeEnqueuer{}
	handler := SubmitPrompt(&fakePromptCreator{err: assert.AnError}, jobs, &fakeHub{})

	rec := postPrompt(t, handler, submitRequest{SessionID: "s1", Prompt: "hi", OutputType: domain.OutputTypeText})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Empty(t, jobs.jobs)
}

func TestSubmitPrompt_EnqueueFailure(t *testing.T) {
	handler := SubmitPrompt(&fakePromptCreator{}, &fakeEnqueuer{err: assert.AnError}, &fakeHub{})

	rec := postPrompt(t, handler, submitRequest{SessionID: "s1", Prompt: "hi", OutputType: domain.OutputTypeText})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
