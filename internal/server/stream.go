package server

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/moni-app/moni/internal/modules/portfolio"
)

// StreamHandler pushes live portfolio summaries over a WebSocket.
type StreamHandler struct {
	portfolio *portfolio.Service
	interval  time.Duration
	log       zerolog.Logger
}

// NewStreamHandler creates a stream handler pushing a summary every interval.
func NewStreamHandler(portfolioSvc *portfolio.Service, interval time.Duration, log zerolog.Logger) *StreamHandler {
	return &StreamHandler{
		portfolio: portfolioSvc,
		interval:  interval,
		log:       log.With().Str("handler", "stream").Logger(),
	}
}

// HandleSummaryStream handles GET /api/stream/summary.
// Sends the current summary immediately, then one update per interval until
// the client disconnects.
func (h *StreamHandler) HandleSummaryStream(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		// CORS is enforced by the shared middleware.
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		h.log.Warn().Err(err).Msg("WebSocket accept failed")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "stream ended unexpectedly")

	ctx := r.Context()
	h.log.Debug().Msg("Summary stream opened")

	if err := h.push(ctx, conn); err != nil {
		return
	}

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			conn.Close(websocket.StatusNormalClosure, "")
			return
		case <-ticker.C:
			if err := h.push(ctx, conn); err != nil {
				h.log.Debug().Err(err).Msg("Summary stream closed")
				return
			}
		}
	}
}

func (h *StreamHandler) push(ctx context.Context, conn *websocket.Conn) error {
	summary, err := h.portfolio.Summary()
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to compute summary for stream")
		return err
	}
	return wsjson.Write(ctx, conn, summary)
}
