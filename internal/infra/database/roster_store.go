package database

import (
	"context"
	"fmt"

	"classroom-service/internal/domain"
	"github.com/uptrace/bun"
)

func (s *Store) ListGroups(ctx context.Context) ([]domain.Group, error) {
	var rows []domain.Group
	if err := s.db.NewSelect().Model(&rows).Order("name ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	return rows, nil
}

func (s *Store) CreateGroup(ctx context.Context, g domain.Group) error {
	if _, err := s.db.NewInsert().Model(&g).Exec(ctx); err != nil {
		return fmt.Errorf("insert group: %w", err)
	}
	return nil
}

// GroupsForTeacher lists the groups linked to a teacher.
func (s *Store) GroupsForTeacher(ctx context.Context, teacherID string) ([]domain.Group, error) {
	var rows []domain.Group
	err := s.db.NewSelect().Model(&rows).
		Join("JOIN group_teachers AS gt ON gt.group_id = g.id").
		Where("gt.teacher_id = ?", teacherID).
		Order("g.name ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list teacher groups: %w", err)
	}
	return rows, nil
}

func (s *Store) ListStudents(ctx context.Context, f domain.StudentFilter) ([]domain.Student, error) {
	var rows []domain.Student
	q := s.db.NewSelect().Model(&rows).Relation("Group").Order("s.name ASC")
	if f.GroupID != "" {
		q = q.Where("s.group_id = ?", f.GroupID)
	}
	if f.GroupIDs != nil {
		if len(f.GroupIDs) == 0 {
			return []domain.Student{}, nil
		}
		q = q.Where("s.group_id IN (?)", bun.In(f.GroupIDs))
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return rows, nil
}

func (s *Store) CreateStudent(ctx context.Context, st domain.Student) error {
	if _, err := s.db.NewInsert().Model(&st).Exec(ctx); err != nil {
		return fmt.Errorf("insert student: %w", err)
	}
	return nil
}

// UpdateStudent writes the given columns only.
func (s *Store) UpdateStudent(ctx context.Context, st domain.Student, columns ...string) error {
	res, err := s.db.NewUpdate().Model(&st).Column(columns...).WherePK().Exec(ctx)
	if err != nil {
		return fmt.Errorf("update student: %w", err)
	}
	return mustAffect(res, domain.ErrStudentNotFound)
}

func (s *Store) StudentByID(ctx context.Context, id string) (domain.Student, error) {
	return s.studentWhere(ctx, "s.id = ?", id)
}

func (s *Store) StudentByClerkID(ctx context.Context, clerkUserID string) (domain.Student, error) {
	return s.studentWhere(ctx, "s.clerk_user_id = ?", clerkUserID)
}

func (s *Store) StudentByName(ctx context.Context, name string) (domain.Student, error) {
	return s.studentWhere(ctx, "s.name = ?", name)
}

func (s *Store) studentWhere(ctx context.Context, where string, arg string) (domain.Student, error) {
	var st domain.Student
	err := s.db.NewSelect().Model(&st).Relation("Group").Where(where, arg).Limit(1).Scan(ctx)
	if err != nil {
		return st, notFound(err, domain.ErrStudentNotFound)
	}
	return st, nil
}

func (s *Store) TeacherByID(ctx context.Context, id string) (domain.Teacher, error) {
	return s.teacherWhere(ctx, "id = ?", id)
}

func (s *Store) TeacherByClerkID(ctx context.Context, clerkUserID string) (domain.Teacher, error) {
	return s.teacherWhere(ctx, "clerk_user_id = ?", clerkUserID)
}

func (s *Store) TeacherByEmail(ctx context.Context, email string) (domain.Teacher, error) {
	return s.teacherWhere(ctx, "email = ?", email)
}

func (s *Store) teacherWhere(ctx context.Context, where, arg string) (domain.Teacher, error) {
	var t domain.Teacher
	if err := s.db.NewSelect().Model(&t).Where(where, arg).Limit(1).Scan(ctx); err != nil {
		return t, notFound(err, domain.ErrTeacherNotFound)
	}
	return t, nil
}

func (s *Store) CreateTeacher(ctx context.Context, t domain.Teacher) error {
	if _, err := s.db.NewInsert().Model(&t).Exec(ctx); err != nil {
		return fmt.Errorf("insert teacher: %w", err)
	}
	return nil
}

func (s *Store) UpdateTeacher(ctx context.Context, t domain.Teacher, columns ...string) error {
	res, err := s.db.NewUpdate().Model(&t).Column(columns...).WherePK().Exec(ctx)
	if err != nil {
		return fmt.Errorf("update teacher: %w", err)
	}
	return mustAffect(res, domain.ErrTeacherNotFound)
}

// TeachersWithGroups lists every teacher with the names of their groups.
func (s *Store) TeachersWithGroups(ctx context.Context) ([]domain.Teacher, error) {
	var teachers []domain.Teacher
	if err := s.db.NewSelect().Model(&teachers).Order("name ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("list teachers: %w", err)
	}
	var links []struct {
		TeacherID string `bun:"teacher_id"`
		Name      string `bun:"name"`
	}
	err := s.db.NewSelect().
		TableExpr("group_teachers AS gt").
		ColumnExpr("gt.teacher_id, g.name").
		Join(`JOIN "groups" AS g ON g.id = gt.group_id`).
		OrderExpr("g.name ASC").
		Scan(ctx, &links)
	if err != nil {
		return nil, fmt.Errorf("list teacher groups: %w", err)
	}
	names := map[string][]string{}
	for _, l := range links {
		names[l.TeacherID] = append(names[l.TeacherID], l.Name)
	}
	for i := range teachers {
		teachers[i].Groups = names[teachers[i].ID]
		if teachers[i].Groups == nil {
			teachers[i].Groups = []string{}
		}
	}
	return teachers, nil
}

// SetTeacherGroups replaces a teacher's group links: delete, then insert.
func (s *Store) SetTeacherGroups(ctx context.Context, teacherID string, groupIDs []string) error {
	if _, err := s.db.NewDelete().Model((*domain.GroupTeacher)(nil)).Where("teacher_id = ?", teacherID).Exec(ctx); err != nil {
		return fmt.Errorf("clear teacher groups: %w", err)
	}
	if len(groupIDs) == 0 {
		return nil
	}
	rows := make([]domain.GroupTeacher, 0, len(groupIDs))
	for _, g := range groupIDs {
		rows = append(rows, domain.GroupTeacher{TeacherID: teacherID, GroupID: g})
	}
	if _, err := s.db.NewInsert().Model(&rows).Exec(ctx); err != nil {
		return fmt.Errorf("insert teacher groups: %w", err)
	}
	return nil
}

func (s *Store) GroupIDsForTeacher(ctx context.Context, teacherID string) ([]string, error) {
	var ids []string
	err := s.db.NewSelect().Model((*domain.GroupTeacher)(nil)).
		Column("group_id").
		Where("teacher_id = ?", teacherID).
		Scan(ctx, &ids)
	if err != nil {
		return nil, fmt.Errorf("list teacher group ids: %w", err)
	}
	return ids, nil
}
