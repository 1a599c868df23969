package http

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestResultsFeedStreamsStudentSubmissions(t *testing.T) {
	env := newTestEnv(t)
	quizID := createQuiz(t, env)

	u := "ws" + strings.TrimPrefix(env.server.URL, "http") + "/ws/quizzes/" + quizID + "/results"
	header := http.Header{}
	header.Set("Authorization", "Bearer "+env.teacher)
	conn, _, err := websocket.DefaultDialer.Dial(u, header)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if typ, _ := readNext(t, conn); typ != "subscribed" {
		t.Fatalf("expected subscribed, got %s", typ)
	}

	code, raw := env.do(t, http.MethodPost, "/quizzes/"+quizID+"/submit", env.student, map[string]any{"selections": [][]int{{0}, {1}}})
	if code != http.StatusOK {
		t.Fatalf("submit: %d %s", code, raw)
	}

	typ, payload := readNext(t, conn)
	if typ != "result" {
		t.Fatalf("expected result, got %s", typ)
	}
	if payload["student_name"] != "Mia" || payload["score"] != float64(1) || payload["total"] != float64(2) {
		t.Fatalf("unexpected payload %v", payload)
	}

	// Teacher previews are not broadcast.
	env.do(t, http.MethodPost, "/quizzes/"+quizID+"/submit", env.teacher, map[string]any{"selections": [][]int{{0}}})
	_ = conn.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	var msg map[string]any
	if err := conn.ReadJSON(&msg); err == nil {
		t.Fatalf("unexpected message %v", msg)
	}
}

func TestResultsFeedRejectsUnknownQuizAndStudents(t *testing.T) {
	env := newTestEnv(t)
	base := "ws" + strings.TrimPrefix(env.server.URL, "http") + "/ws/quizzes/"

	header := http.Header{}
	header.Set("Authorization", "Bearer "+env.teacher)
	_, resp, err := websocket.DefaultDialer.Dial(base+"missing/results", header)
	if err == nil || resp == nil || resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown quiz, got %v", err)
	}

	quizID := createQuiz(t, env)
	_, resp, err = websocket.DefaultDialer.Dial(base+quizID+"/results?access_token="+env.student, nil)
	if err == nil || resp == nil || resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for students, got %v", err)
	}
}

func readNext(t *testing.T, conn *websocket.Conn) (string, map[string]any) {
	t.Helper()
	var msg struct {
		Type    string         `json:"type"`
		Payload map[string]any `json:"payload"`
	}
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read json: %v", err)
	}
	return msg.Type, msg.Payload
}

func TestResultsFeedChecksOrigin(t *testing.T) {
	env := newTestEnv(t)
	quizID := createQuiz(t, env)
	u := "ws" + strings.TrimPrefix(env.server.URL, "http") + "/ws/quizzes/" + quizID + "/results"

	header := http.Header{}
	header.Set("Authorization", "Bearer "+env.teacher)
	header.Set("Origin", "http://evil.test")
	_, resp, err := websocket.DefaultDialer.Dial(u, header)
	if err == nil || resp == nil || resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected unlisted origin to be refused, got %v", err)
	}

	header.Set("Origin", "http://dashboard.test")
	conn, _, err := websocket.DefaultDialer.Dial(u, header)
	if err != nil {
		t.Fatalf("configured origin should connect: %v", err)
	}
	defer conn.Close()
	if typ, _ := readNext(t, conn); typ != "subscribed" {
		t.Fatalf("expected subscribed, got %s", typ)
	}
}
