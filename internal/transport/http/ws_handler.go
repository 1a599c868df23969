package http

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"classroom-service/internal/app"
	"classroom-service/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const writeWait = 10 * time.Second

// ResultsHandler streams graded submissions of one quiz to a teacher.
type ResultsHandler struct {
	quizzes  *app.QuizService
	upgrader websocket.Upgrader
	log      zerolog.Logger
}

// NewResultsHandler accepts upgrades without an Origin header, from the
// serving host, or from an origin allowOrigin accepts.
func NewResultsHandler(quizzes *app.QuizService, log zerolog.Logger, allowOrigin func(string) bool) *ResultsHandler {
	return &ResultsHandler{
		quizzes: quizzes,
		log:     log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				if u, err := url.Parse(origin); err == nil && strings.EqualFold(u.Host, r.Host) {
					return true
				}
				return allowOrigin(origin)
			},
		},
	}
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type subscribedPayload struct {
	QuizID string `json:"quiz_id"`
}

// ServeResults subscribes before upgrading so an unknown quiz is still a plain 404.
func (h *ResultsHandler) ServeResults(w http.ResponseWriter, r *http.Request) {
	quizID := chi.URLParam(r, "quizID")
	updates, cancel, err := h.quizzes.Subscribe(r.Context(), quizID)
	if err != nil {
		status := http.StatusInternalServerError
		if domain.IsValidation(err) {
			status = http.StatusBadRequest
		} else if isNotFound(err) {
			status = http.StatusNotFound
		}
		writeJSON(w, status, errorBody{Error: err.Error()})
		return
	}
	defer cancel()

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Str("quiz_id", quizID).Msg("ws upgrade failed")
		return
	}
	defer conn.Close()

	send := make(chan any, 16)
	closed := make(chan struct{})
	writerDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(msg); err != nil {
				h.log.Debug().Err(err).Str("quiz_id", quizID).Msg("ws write")
				return
			}
		}
	}()

	// Listeners never send; reading only notices the close.
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	send <- outboundMessage[subscribedPayload]{Type: "subscribed", Payload: subscribedPayload{QuizID: quizID}}

loop:
	for {
		select {
		case result, ok := <-updates:
			if !ok {
				break loop
			}
			select {
			case send <- outboundMessage[domain.QuizResult]{Type: "result", Payload: result}:
			case <-closed:
				break loop
			}
		case <-closed:
			break loop
		}
	}

	close(send)
	<-writerDone
}
