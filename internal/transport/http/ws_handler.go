package http

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"quiz-engine-service/internal/app"
	"quiz-engine-service/internal/attempt"
	"quiz-engine-service/internal/domain"
)

// WSHandler drives one attempt per websocket connection. All attempt
// operations and the one-second countdown tick are multiplexed onto a single
// loop, so ticks never interleave with an answer or submit in flight.
type WSHandler struct {
	service  *app.QuizService
	upgrader websocket.Upgrader
	tick     time.Duration
}

func NewWSHandler(service *app.QuizService) *WSHandler {
	return &WSHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		tick: time.Second,
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type answerPayload struct {
	QuestionID string `json:"questionId"`
	Value      string `json:"value"`
}

type gotoPayload struct {
	Index int `json:"index"`
}

type tickPayload struct {
	Remaining int `json:"remainingSeconds"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// questionView is the participant-facing question shape; correct answers and
// accepted-answer lists never cross the wire.
type questionView struct {
	ID      string              `json:"id"`
	Type    domain.QuestionType `json:"type"`
	Prompt  string              `json:"prompt"`
	Points  int                 `json:"points"`
	Options []string            `json:"options,omitempty"`
}

type attemptState struct {
	AttemptID string         `json:"attemptId"`
	QuizID    string         `json:"quizId"`
	Title     string         `json:"title"`
	Remaining int            `json:"remainingSeconds"`
	Position  int            `json:"position"`
	Questions []questionView `json:"questions"`
	Answered  []string       `json:"answered"`
}

// ServeWS upgrades the request and runs the attempt session loop.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	quizID := r.URL.Query().Get("quizId")
	userID := r.URL.Query().Get("userId")
	if quizID == "" || userID == "" {
		http.Error(w, "missing quizId or userId", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	a, err := h.service.StartAttempt(r.Context(), quizID, userID)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}

	if err := conn.WriteJSON(outboundMessage[attemptState]{Type: "started", Payload: stateView(a)}); err != nil {
		return
	}

	inbound := make(chan inboundMessage, 16)
	readerDone := make(chan struct{})
	go func() {
		defer close(readerDone)
		for {
			var msg inboundMessage
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}
			inbound <- msg
		}
	}()

	ticker := time.NewTicker(h.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			out, err := h.service.Tick(r.Context(), a.ID())
			if err != nil {
				return
			}
			if out.Result != nil {
				// Budget drained: the attempt expired and was auto-graded.
				_ = conn.WriteJSON(outboundMessage[domain.Result]{Type: "result", Payload: *out.Result})
				return
			}
			if err := conn.WriteJSON(outboundMessage[tickPayload]{Type: "tick", Payload: tickPayload{Remaining: out.Remaining}}); err != nil {
				return
			}
		case msg := <-inbound:
			if done := h.dispatch(r.Context(), conn, a, msg); done {
				return
			}
		case <-readerDone:
			// Client went away; the attempt stays resident for resumption.
			return
		}
	}
}

// dispatch applies one inbound message; it returns true when the session loop
// should end.
func (h *WSHandler) dispatch(ctx context.Context, conn *websocket.Conn, a *attempt.Attempt, msg inboundMessage) bool {
	switch msg.Type {
	case "answer":
		var payload answerPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			h.sendError(conn, "invalid answer payload")
			return false
		}
		if err := h.service.Answer(ctx, a.ID(), payload.QuestionID, payload.Value); err != nil {
			h.sendError(conn, err.Error())
			return false
		}
		_ = conn.WriteJSON(outboundMessage[attemptState]{Type: "state", Payload: stateView(a)})
	case "goto":
		var payload gotoPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			h.sendError(conn, "invalid goto payload")
			return false
		}
		if err := h.service.Navigate(ctx, a.ID(), payload.Index); err != nil {
			h.sendError(conn, err.Error())
			return false
		}
		_ = conn.WriteJSON(outboundMessage[attemptState]{Type: "state", Payload: stateView(a)})
	case "submit":
		res, err := h.service.Submit(ctx, a.ID())
		if err != nil {
			h.sendError(conn, err.Error())
			return false
		}
		_ = conn.WriteJSON(outboundMessage[domain.Result]{Type: "result", Payload: res})
		return true
	case "abandon":
		h.service.Abandon(ctx, a.ID())
		return true
	default:
		h.sendError(conn, "unsupported message type")
	}
	return false
}

func (h *WSHandler) sendError(conn *websocket.Conn, message string) {
	_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: message}})
}

func stateView(a *attempt.Attempt) attemptState {
	quiz := a.Quiz()
	views := make([]questionView, 0, len(quiz.Questions))
	for _, idx := range a.QuestionOrder() {
		q := quiz.Questions[idx]
		views = append(views, questionView{
			ID:      q.ID,
			Type:    q.Type,
			Prompt:  q.Prompt,
			Points:  q.Points,
			Options: q.Options,
		})
	}
	answers := a.Answers()
	answered := make([]string, 0, len(answers))
	for id := range answers {
		answered = append(answered, id)
	}
	return attemptState{
		AttemptID: a.ID(),
		QuizID:    quiz.ID,
		Title:     quiz.Title,
		Remaining: a.Remaining(),
		Position:  a.CurrentIndex(),
		Questions: views,
		Answered:  answered,
	}
}
