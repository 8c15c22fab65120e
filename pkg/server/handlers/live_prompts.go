package handlers

import (
	"log/slog"
	"net/http"

	"github.com/dskvich/ai-gallery/pkg/logger"
	"golang.org/x/net/websocket"
)

type liveSubscriber interface {
	Subscribe() (<-chan struct{}, func())
}

// LivePrompts is the subscription read path: the current view is pushed on
// connect and re-pushed after every record mutation, so all connected
// clients converge without polling.
func LivePrompts(prompts listPromptProvider, blobs blobResolver, hub liveSubscriber) http.Handler {
	return websocket.Handler(func(ws *websocket.Conn) {
		defer ws.Close()

		r := ws.Request()
		ctx := r.Context()

		count, err := parseCount(r)
		if err != nil {
			count = defaultListCount
		}

		changes, cancel := hub.Subscribe()
		defer cancel()

		push := func() error {
			records, err := prompts.ListRecent(ctx, count)
			if err != nil {
				return err
			}
			views := buildViews(ctx, records, blobs)
			if views == nil {
				views = []PromptView{}
			}
			return websocket.JSON.Send(ws, views)
		}

		if err := push(); err != nil {
			slog.ErrorContext(ctx, "pushing initial prompt list", logger.Err(err))
			return
		}

		for {
			select {
			case <-ctx.Done():
				return
			case <-changes:
				if err := push(); err != nil {
					slog.DebugContext(ctx, "live subscriber gone", logger.Err(err))
					return
				}
			}
		}
	})
}
