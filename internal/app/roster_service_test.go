package app_test

import (
	"context"
	"testing"

	"classroom-service/internal/app"
	"classroom-service/internal/domain"
)

func TestCreateTeacherIsIdempotentByEmail(t *testing.T) {
	ctx := context.Background()
	svc := app.NewRosterService(newStore(t))

	first, existed, err := svc.CreateTeacher(ctx, domain.Teacher{Name: "Ms Rivera", Email: "r@school.test", ClerkUserID: "user_1"})
	if err != nil || existed {
		t.Fatalf("create: %v existed=%v", err, existed)
	}
	again, existed, err := svc.CreateTeacher(ctx, domain.Teacher{Name: "Other", Email: "r@school.test", ClerkUserID: "user_2"})
	if err != nil || !existed || again.ID != first.ID {
		t.Fatalf("expected existing teacher, got %+v existed=%v err=%v", again, existed, err)
	}
	if _, _, err := svc.CreateTeacher(ctx, domain.Teacher{Name: "No Email"}); !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}

	missing, err := svc.TeacherByClerkID(ctx, "user_404")
	if err != nil || missing != nil {
		t.Fatalf("expected nil teacher, got %+v %v", missing, err)
	}
}

func TestTeacherGroupsAndStudents(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	svc := app.NewRosterService(store)

	g1, _ := svc.CreateGroup(ctx, "Sunflowers")
	g2, _ := svc.CreateGroup(ctx, "Tulips")
	teacher, _, _ := svc.CreateTeacher(ctx, domain.Teacher{Name: "Ms Rivera", Email: "r@school.test", ClerkUserID: "user_t"})

	if _, err := svc.CreateStudent(ctx, domain.Student{Name: "Mia", GroupID: g1.ID}); err != nil {
		t.Fatalf("create student: %v", err)
	}
	if _, err := svc.CreateStudent(ctx, domain.Student{Name: "Noah", GroupID: g2.ID}); err != nil {
		t.Fatalf("create student: %v", err)
	}

	none, err := svc.StudentsForTeacher(ctx, "user_t")
	if err != nil || len(none) != 0 {
		t.Fatalf("teacher without groups should see nobody, got %v %v", none, err)
	}
	if err := svc.SetTeacherGroups(ctx, teacher.ID, []string{g1.ID}); err != nil {
		t.Fatalf("set groups: %v", err)
	}
	students, err := svc.StudentsForTeacher(ctx, "user_t")
	if err != nil || len(students) != 1 || students[0].Name != "Mia" {
		t.Fatalf("unexpected students %+v %v", students, err)
	}
	if students[0].Group == nil || students[0].Group.Name != "Sunflowers" {
		t.Fatalf("expected joined group, got %+v", students[0].Group)
	}
	groups, _ := svc.GroupsForTeacher(ctx, "user_t")
	if len(groups) != 1 || groups[0].ID != g1.ID {
		t.Fatalf("unexpected teacher groups %+v", groups)
	}
	withGroups, _ := svc.TeachersWithGroups(ctx)
	if len(withGroups) != 1 || len(withGroups[0].Groups) != 1 || withGroups[0].Groups[0] != "Sunflowers" {
		t.Fatalf("unexpected teachers with groups %+v", withGroups)
	}
	if err := svc.SetTeacherGroups(ctx, teacher.ID, nil); !domain.IsValidation(err) {
		t.Fatalf("expected nil group list to be rejected, got %v", err)
	}
}

func TestUpdateStudentKeepsBlankIdentityFields(t *testing.T) {
	ctx := context.Background()
	svc := app.NewRosterService(newStore(t))
	g, _ := svc.CreateGroup(ctx, "Sunflowers")
	st, _ := svc.CreateStudent(ctx, domain.Student{Name: "Mia", Email: "mia@home.test", ClerkUserID: "user_mia", GroupID: g.ID})

	updated, err := svc.UpdateStudent(ctx, domain.Student{ID: st.ID, Name: "Mia B", Country: "UK", GroupID: g.ID})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Mia B" || updated.ClerkUserID != "user_mia" || updated.Email != "mia@home.test" {
		t.Fatalf("blank fields must not overwrite, got %+v", updated)
	}
}
