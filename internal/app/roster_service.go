package app

import (
	"context"
	"errors"
	"strings"

	"classroom-service/internal/domain"
	"github.com/google/uuid"
)

type RosterStore interface {
	ListGroups(ctx context.Context) ([]domain.Group, error)
	CreateGroup(ctx context.Context, g domain.Group) error
	GroupsForTeacher(ctx context.Context, teacherID string) ([]domain.Group, error)

	ListStudents(ctx context.Context, f domain.StudentFilter) ([]domain.Student, error)
	CreateStudent(ctx context.Context, st domain.Student) error
	UpdateStudent(ctx context.Context, st domain.Student, columns ...string) error
	StudentByID(ctx context.Context, id string) (domain.Student, error)

	TeacherByClerkID(ctx context.Context, clerkUserID string) (domain.Teacher, error)
	TeacherByEmail(ctx context.Context, email string) (domain.Teacher, error)
	TeacherByID(ctx context.Context, id string) (domain.Teacher, error)
	CreateTeacher(ctx context.Context, t domain.Teacher) error
	UpdateTeacher(ctx context.Context, t domain.Teacher, columns ...string) error
	TeachersWithGroups(ctx context.Context) ([]domain.Teacher, error)
	SetTeacherGroups(ctx context.Context, teacherID string, groupIDs []string) error
	GroupIDsForTeacher(ctx context.Context, teacherID string) ([]string, error)
}

// RosterService manages groups, students and teachers.
type RosterService struct {
	store RosterStore
	newID func() string
}

func NewRosterService(store RosterStore) *RosterService {
	return &RosterService{store: store, newID: uuid.NewString}
}

func (s *RosterService) Groups(ctx context.Context) ([]domain.Group, error) {
	return s.store.ListGroups(ctx)
}

func (s *RosterService) CreateGroup(ctx context.Context, name string) (domain.Group, error) {
	if strings.TrimSpace(name) == "" {
		return domain.Group{}, domain.Invalid("name is required")
	}
	g := domain.Group{ID: s.newID(), Name: strings.TrimSpace(name)}
	if err := s.store.CreateGroup(ctx, g); err != nil {
		return domain.Group{}, err
	}
	return g, nil
}

// GroupsForTeacher resolves the teacher by identity-provider id first.
func (s *RosterService) GroupsForTeacher(ctx context.Context, clerkUserID string) ([]domain.Group, error) {
	t, err := s.teacher(ctx, clerkUserID)
	if err != nil {
		return nil, err
	}
	return s.store.GroupsForTeacher(ctx, t.ID)
}

func (s *RosterService) Students(ctx context.Context, groupID string) ([]domain.Student, error) {
	return s.store.ListStudents(ctx, domain.StudentFilter{GroupID: groupID})
}

func (s *RosterService) StudentsForTeacher(ctx context.Context, clerkUserID string) ([]domain.Student, error) {
	t, err := s.teacher(ctx, clerkUserID)
	if err != nil {
		return nil, err
	}
	ids, err := s.store.GroupIDsForTeacher(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []string{}
	}
	return s.store.ListStudents(ctx, domain.StudentFilter{GroupIDs: ids})
}

func (s *RosterService) CreateStudent(ctx context.Context, st domain.Student) (domain.Student, error) {
	if strings.TrimSpace(st.Name) == "" {
		return domain.Student{}, domain.Invalid("name is required")
	}
	st.ID = s.newID()
	st.Group = nil
	if err := s.store.CreateStudent(ctx, st); err != nil {
		return domain.Student{}, err
	}
	return st, nil
}

// UpdateStudent always writes name, country and group; the identity link and
// email are only overwritten when non-blank.
func (s *RosterService) UpdateStudent(ctx context.Context, st domain.Student) (domain.Student, error) {
	if st.ID == "" {
		return domain.Student{}, domain.Invalid("student id is required")
	}
	columns := []string{"name", "country", "group_id"}
	if strings.TrimSpace(st.ClerkUserID) != "" {
		columns = append(columns, "clerk_user_id")
	}
	if strings.TrimSpace(st.Email) != "" {
		columns = append(columns, "email")
	}
	st.Group = nil
	if err := s.store.UpdateStudent(ctx, st, columns...); err != nil {
		return domain.Student{}, err
	}
	return s.store.StudentByID(ctx, st.ID)
}

// CreateTeacher is idempotent by email; existing reports whether a row was
// already there.
func (s *RosterService) CreateTeacher(ctx context.Context, t domain.Teacher) (teacher domain.Teacher, existing bool, err error) {
	if strings.TrimSpace(t.Name) == "" || strings.TrimSpace(t.Email) == "" || strings.TrimSpace(t.ClerkUserID) == "" {
		return domain.Teacher{}, false, domain.Invalid("name, email and clerk_user_id are required")
	}
	found, err := s.store.TeacherByEmail(ctx, t.Email)
	switch {
	case err == nil:
		return found, true, nil
	case !errors.Is(err, domain.ErrNotFound):
		return domain.Teacher{}, false, err
	}
	t.ID = s.newID()
	t.Groups = nil
	if err := s.store.CreateTeacher(ctx, t); err != nil {
		return domain.Teacher{}, false, err
	}
	return t, false, nil
}

// TeacherByClerkID returns nil when no teacher is linked to the id.
func (s *RosterService) TeacherByClerkID(ctx context.Context, clerkUserID string) (*domain.Teacher, error) {
	t, err := s.store.TeacherByClerkID(ctx, clerkUserID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *RosterService) TeachersWithGroups(ctx context.Context) ([]domain.Teacher, error) {
	return s.store.TeachersWithGroups(ctx)
}

func (s *RosterService) UpdateTeacher(ctx context.Context, t domain.Teacher) (domain.Teacher, error) {
	if t.ID == "" {
		return domain.Teacher{}, domain.Invalid("teacher id is required")
	}
	if err := s.store.UpdateTeacher(ctx, t, "name", "email", "country"); err != nil {
		return domain.Teacher{}, err
	}
	return s.store.TeacherByID(ctx, t.ID)
}

func (s *RosterService) SetTeacherGroups(ctx context.Context, teacherID string, groupIDs []string) error {
	if groupIDs == nil {
		return domain.Invalid("group_ids must be an array")
	}
	if _, err := s.store.TeacherByID(ctx, teacherID); err != nil {
		return err
	}
	return s.store.SetTeacherGroups(ctx, teacherID, groupIDs)
}

func (s *RosterService) teacher(ctx context.Context, clerkUserID string) (domain.Teacher, error) {
	if clerkUserID == "" {
		return domain.Teacher{}, domain.Invalid("clerk_user_id is required")
	}
	return s.store.TeacherByClerkID(ctx, clerkUserID)
}
