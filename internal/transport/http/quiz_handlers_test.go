package http

import (
	"encoding/json"
	"testing"
)

func TestAnswerInputAcceptsStringOrObject(t *testing.T) {
	var answers []answerInput
	raw := `["cat", {"answer_text": "dog", "image": "dog.png"}]`
	if err := json.Unmarshal([]byte(raw), &answers); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(answers) != 2 || answers[0].Text != "cat" || answers[0].Image != "" {
		t.Fatalf("unexpected first answer %+v", answers)
	}
	if answers[1].Text != "dog" || answers[1].Image != "dog.png" {
		t.Fatalf("unexpected second answer %+v", answers[1])
	}
	if err := json.Unmarshal([]byte(`[42]`), &answers); err == nil {
		t.Fatalf("expected numbers to be rejected")
	}
}
