package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dmaclachlan/fitcoach/internal/coach"
	"github.com/dmaclachlan/fitcoach/internal/store"
)

const wsWriteTimeout = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// Origin policy is enforced by the CORS layer for the REST API; the
	// websocket shares it.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsInbound is one user message on the websocket.
type wsInbound struct {
	Message string `json:"message"`
}

// handleChatWS runs coaching exchanges over a websocket. Each inbound
// message triggers one full exchange; events stream back as JSON frames
// using the same shapes as the SSE endpoint.
func (s *Server) handleChatWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Debug("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	uid := userID(r)
	s.logger.Info("websocket connected", "user_id", uid)

	for {
		var in wsInbound
		if err := conn.ReadJSON(&in); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Debug("websocket read failed", "error", err)
			}
			return
		}

		emit := func(ev coach.Event) {
			conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := conn.WriteJSON(ev); err != nil {
				s.logger.Debug("websocket write failed", "error", err)
			}
		}

		if err := s.coach.Stream(r.Context(), uid, in.Message, emit); err != nil {
			switch {
			case errors.Is(err, coach.ErrEmptyMessage):
				emit(coach.ErrorEvent("message is required"))
			case errors.Is(err, store.ErrNoProfile):
				emit(coach.ErrorEvent("no profile found"))
			default:
				s.logger.Error("websocket chat failed", "error", err)
				emit(coach.ErrorEvent("The coach hit an error mid-reply. Please try again."))
			}
			emit(coach.DoneEvent())
		}
	}
}
