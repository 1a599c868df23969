package http

import (
	"encoding/json"
	"io"
	"net/http"

	"classroom-service/internal/domain"
	"classroom-service/internal/infra/clerk"
)

const maxWebhookBody = 1 << 20

type setRoleRequest struct {
	ClerkUserID string `json:"clerk_user_id" validate:"required"`
	Role        string `json:"role" validate:"required,oneof=teacher student"`
}

type translateRequest struct {
	Text   string `json:"text" validate:"required"`
	Target string `json:"target" validate:"required"`
}

func (s *Server) setRole(w http.ResponseWriter, r *http.Request) {
	var req setRoleRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.identity.SetRole(r.Context(), req.ClerkUserID, domain.Role(req.Role)); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, successBody{Success: true})
}

// clerkWebhook links a newly created identity to its teacher row. The body is
// read raw because the signature covers the exact bytes.
func (s *Server) clerkWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		s.fail(w, r, domain.Invalid("unreadable body"))
		return
	}
	if err := clerk.VerifySignature(s.webhookSecret, body, r.Header.Get(clerk.SignatureHeader)); err != nil {
		s.log.Warn().Str("remote", r.RemoteAddr).Msg("rejected webhook with bad signature")
		s.fail(w, r, err)
		return
	}
	var evt clerk.UserCreatedEvent
	if err := json.Unmarshal(body, &evt); err != nil {
		s.fail(w, r, domain.Invalid("invalid event payload"))
		return
	}
	if evt.Type != "user.created" {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ignored"})
		return
	}
	linked, err := s.identity.LinkTeacher(r.Context(), evt.Data.ID, evt.PrimaryEmail())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"linked": linked})
}

func (s *Server) translate(w http.ResponseWriter, r *http.Request) {
	var req translateRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	out, err := s.translator.Translate(r.Context(), req.Text, req.Target)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"translatedText": out})
}
