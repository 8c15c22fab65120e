package generator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dskvich/ai-gallery/pkg/domain"
	"github.com/dskvich/ai-gallery/pkg/logger"
)

const systemPrompt = "Try to come up with the most hilarious answer to what the user says."

type promptUpdater interface {
	SetResult(ctx context.Context, id int64, result domain.Result) error
	Delete(ctx context.Context, id int64) error
}

type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

type imageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) ([]byte, error)
}

type blobSaver interface {
	Save(ctx context.Context, data []byte, contentType string) (string, error)
}

type changeNotifier interface {
	Notify()
}

// Generator fulfills one queued prompt: it calls the provider and writes
// the terminal result back, or deletes the record on failure. Failed
// requests leave no trace in the gallery.
type Generator struct {
	prompts  promptUpdater
	chat     chatCompleter
	images   imageGenerator
	blobs    blobSaver
	notifier changeNotifier
}

func New(
	prompts promptUpdater,
	chat chatCompleter,
	images imageGenerator,
	blobs blobSaver,
	notifier changeNotifier,
) *Generator {
	return &Generator{
		prompts:  prompts,
		chat:     chat,
		images:   images,
		blobs:    blobs,
		notifier: notifier,
	}
}

func (g *Generator) Generate(ctx context.Context, job *domain.Job) error {
	switch job.OutputType {
	case domain.OutputTypeText:
		return g.generateText(ctx, job)
	case domain.OutputTypeImage:
		return g.generateImage(ctx, job)
	default:
		return g.fail(ctx, job, fmt.Errorf("unknown output type %q", job.OutputType))
	}
}

func (g *Generator) generateText(ctx context.Context, job *domain.Job) error {
	content, err := g.chat.CreateChatCompletion(ctx, systemPrompt, job.Prompt)
	if err != nil {
		return g.fail(ctx, job, err)
	}

	return g.setResult(ctx, job, domain.Result{Type: domain.ResultTypeText, Value: content})
}

func (g *Generator) generateImage(ctx context.Context, job *domain.Job) error {
	imageData, err := g.images.GenerateImage(ctx, job.Prompt)
	if err != nil {
		return g.fail(ctx, job, err)
	}

	ref, err := g.blobs.Save(ctx, imageData, "image/png")
	if err != nil {
		return g.fail(ctx, job, err)
	}

	return g.setResult(ctx, job, domain.Result{Type: domain.ResultTypeImage, Value: ref})
}

func (g *Generator) setResult(ctx context.Context, job *domain.Job, result domain.Result) error {
	if err := g.prompts.SetResult(ctx, job.PromptID, result); err != nil {
		return fmt.Errorf("setting result for prompt %d: %w", job.PromptID, err)
	}

	g.notifier.Notify()
	return nil
}

// fail deletes the in-flight record and returns immediately; nothing after
// a declared failure may touch the provider payload.
func (g *Generator) fail(ctx context.Context, job *domain.Job, cause error) error {
	slog.ErrorContext(ctx, "generation failed, removing prompt record",
		"promptID", job.PromptID, logger.Err(cause))

	if err := g.prompts.Delete(ctx, job.PromptID); err != nil {
		slog.ErrorContext(ctx, "deleting failed prompt record",
			"promptID", job.PromptID, logger.Err(err))
	}

	g.notifier.Notify()
	return cause
}
