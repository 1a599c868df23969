package app

import (
	"context"
	"errors"
	"strings"

	"classroom-service/internal/domain"
	"github.com/rs/zerolog"
)

// RoleWriter stores a role on the identity provider's user record.
type RoleWriter interface {
	SetRole(ctx context.Context, userID string, role domain.Role) error
}

type IdentityStore interface {
	TeacherByEmail(ctx context.Context, email string) (domain.Teacher, error)
	UpdateTeacher(ctx context.Context, t domain.Teacher, columns ...string) error
}

type IdentityService struct {
	store IdentityStore
	roles RoleWriter
	log   zerolog.Logger
}

func NewIdentityService(store IdentityStore, roles RoleWriter, log zerolog.Logger) *IdentityService {
	return &IdentityService{store: store, roles: roles, log: log}
}

func (s *IdentityService) SetRole(ctx context.Context, userID string, role domain.Role) error {
	if userID == "" {
		return domain.Invalid("clerk_user_id is required")
	}
	if !role.Valid() {
		return domain.Invalid("role must be teacher or student")
	}
	return s.roles.SetRole(ctx, userID, role)
}

// LinkTeacher handles a newly created identity. When email belongs to a
// teacher row, the row is linked to userID and the user gets the teacher
// role. It reports whether a teacher matched.
func (s *IdentityService) LinkTeacher(ctx context.Context, userID, email string) (bool, error) {
	email = strings.TrimSpace(email)
	if userID == "" || email == "" {
		return false, domain.Invalid("user id and email are required")
	}
	t, err := s.store.TeacherByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		s.log.Debug().Str("user_id", userID).Msg("new user is not a known teacher")
		return false, nil
	}
	if err != nil {
		return false, err
	}
	t.ClerkUserID = userID
	if err := s.store.UpdateTeacher(ctx, t, "clerk_user_id"); err != nil {
		return false, err
	}
	if err := s.roles.SetRole(ctx, userID, domain.RoleTeacher); err != nil {
		return true, err
	}
	s.log.Info().Str("user_id", userID).Str("teacher_id", t.ID).Msg("linked teacher identity")
	return true, nil
}
