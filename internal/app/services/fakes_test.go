package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	appauth "github.com/yigit/schoolhub/internal/app/auth"
	"github.com/yigit/schoolhub/internal/app/models"
	"github.com/yigit/schoolhub/internal/app/repositories"
	"github.com/yigit/schoolhub/internal/pkg/apperrors"
)

// memStore is an in-memory stand-in for the database shared by the fake repositories
type memStore struct {
	mu          sync.Mutex
	nextID      int64
	users       map[int64]*models.User
	classes     map[int64]*models.Class
	subjects    map[int64]*models.Subject
	enrollments map[int64]*models.Enrollment
	timetable   map[int64]*models.TimetableEntry
	attendance  map[int64]*models.Attendance
	grades      map[int64]*models.Grade
}

func newMemStore() *memStore {
	return &memStore{
		users:       map[int64]*models.User{},
		classes:     map[int64]*models.Class{},
		subjects:    map[int64]*models.Subject{},
		enrollments: map[int64]*models.Enrollment{},
		timetable:   map[int64]*models.TimetableEntry{},
		attendance:  map[int64]*models.Attendance{},
		grades:      map[int64]*models.Grade{},
	}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memStore) repositories() *repositories.Repositories {
	return &repositories.Repositories{
		UserRepository:       &fakeUserRepo{m},
		ClassRepository:      &fakeClassRepo{m},
		SubjectRepository:    &fakeSubjectRepo{m},
		EnrollmentRepository: &fakeEnrollmentRepo{m},
		TimetableRepository:  &fakeTimetableRepo{m},
		AttendanceRepository: &fakeAttendanceRepo{m},
		GradeRepository:      &fakeGradeRepo{m},
	}
}

// seed helpers

func (m *memStore) addUser(name string, role models.Role) *models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := &models.User{ID: m.id(), Name: name, Email: strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@school.edu", Role: role}
	m.users[u.ID] = u
	return u
}

func (m *memStore) addClass(name string, grade int) *models.Class {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := &models.Class{ID: m.id(), Name: name, GradeLevel: grade}
	m.classes[c.ID] = c
	return c
}

func (m *memStore) addSubject(name, code string) *models.Subject {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := &models.Subject{ID: m.id(), Name: name, Code: code}
	m.subjects[s.ID] = s
	return s
}

func (m *memStore) enroll(studentID, classID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := &models.Enrollment{ID: m.id(), StudentID: studentID, ClassID: classID}
	m.enrollments[e.ID] = e
}

func (m *memStore) withNames(e *models.TimetableEntry) *models.TimetableEntry {
	out := *e
	if c, ok := m.classes[e.ClassID]; ok {
		out.ClassName = c.Name
		out.GradeLevel = c.GradeLevel
	}
	if s, ok := m.subjects[e.SubjectID]; ok {
		out.SubjectName = s.Name
		out.SubjectCode = s.Code
	}
	if u, ok := m.users[e.TeacherID]; ok {
		out.TeacherName = u.Name
	}
	return &out
}

type fakeUserRepo struct{ m *memStore }

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, u := range r.m.users {
		if u.Email == user.Email {
			return 0, apperrors.ErrEmailAlreadyExists
		}
	}
	u := *user
	u.ID = r.m.id()
	r.m.users[u.ID] = &u
	return u.ID, nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	u, ok := r.m.users[id]
	if !ok {
		return nil, apperrors.NewResourceNotFoundError("user not found")
	}
	out := *u
	return &out, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, u := range r.m.users {
		if u.Email == email {
			out := *u
			return &out, nil
		}
	}
	return nil, apperrors.NewResourceNotFoundError("user not found")
}

func (r *fakeUserRepo) List(_ context.Context, role *models.Role) ([]*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := []*models.User{}
	for _, u := range r.m.users {
		if role == nil || u.Role == *role {
			c := *u
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *models.User, passwordHash *string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	existing, ok := r.m.users[user.ID]
	if !ok {
		return apperrors.NewResourceNotFoundError("user not found")
	}
	u := *user
	u.Password = existing.Password
	if passwordHash != nil {
		u.Password = *passwordHash
	}
	r.m.users[u.ID] = &u
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id int64) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.users[id]; !ok {
		return apperrors.NewResourceNotFoundError("user not found")
	}
	delete(r.m.users, id)
	return nil
}

func (r *fakeUserRepo) EmailTakenByOther(_ context.Context, email string, excludeID int64) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, u := range r.m.users {
		if u.Email == email && u.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

type fakeClassRepo struct{ m *memStore }

func (r *fakeClassRepo) Create(_ context.Context, class *models.Class) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	c := *class
	c.ID = r.m.id()
	r.m.classes[c.ID] = &c
	return c.ID, nil
}

func (r *fakeClassRepo) GetByID(_ context.Context, id int64) (*models.Class, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	c, ok := r.m.classes[id]
	if !ok {
		return nil, apperrors.NewResourceNotFoundError("class not found")
	}
	out := *c
	return &out, nil
}

func (r *fakeClassRepo) List(_ context.Context) ([]*models.Class, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := []*models.Class{}
	for _, c := range r.m.classes {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeClassRepo) ListForTeacher(_ context.Context, teacherID int64) ([]*models.Class, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	seen := map[int64]bool{}
	for _, e := range r.m.timetable {
		if e.TeacherID == teacherID {
			seen[e.ClassID] = true
		}
	}
	out := []*models.Class{}
	for id := range seen {
		cp := *r.m.classes[id]
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeClassRepo) ListForStudent(_ context.Context, studentID int64) ([]*models.Class, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := []*models.Class{}
	for _, e := range r.m.enrollments {
		if e.StudentID == studentID {
			cp := *r.m.classes[e.ClassID]
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeClassRepo) Update(_ context.Context, class *models.Class) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.classes[class.ID]; !ok {
		return apperrors.NewResourceNotFoundError("class not found")
	}
	c := *class
	r.m.classes[c.ID] = &c
	return nil
}

func (r *fakeClassRepo) Delete(_ context.Context, id int64) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.classes[id]; !ok {
		return apperrors.NewResourceNotFoundError("class not found")
	}
	enrollments, entries := 0, 0
	for _, e := range r.m.enrollments {
		if e.ClassID == id {
			enrollments++
		}
	}
	for _, e := range r.m.timetable {
		if e.ClassID == id {
			entries++
		}
	}
	if enrollments+entries > 0 {
		return apperrors.NewResourceInUseError("class has enrollments or timetable entries", map[string]interface{}{
			"enrollments":      enrollments,
			"timetableEntries": entries,
		})
	}
	delete(r.m.classes, id)
	return nil
}

type fakeSubjectRepo struct{ m *memStore }

func (r *fakeSubjectRepo) Create(_ context.Context, subject *models.Subject) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, s := range r.m.subjects {
		if s.Code == subject.Code {
			return 0, apperrors.ErrSubjectCodeExists
		}
	}
	s := *subject
	s.ID = r.m.id()
	r.m.subjects[s.ID] = &s
	return s.ID, nil
}

func (r *fakeSubjectRepo) GetByID(_ context.Context, id int64) (*models.Subject, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	s, ok := r.m.subjects[id]
	if !ok {
		return nil, apperrors.NewResourceNotFoundError("subject not found")
	}
	out := *s
	return &out, nil
}

func (r *fakeSubjectRepo) List(_ context.Context) ([]*models.Subject, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := []*models.Subject{}
	for _, s := range r.m.subjects {
		cp := *s
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeSubjectRepo) listWhere(match func(*models.TimetableEntry) bool) []*models.Subject {
	seen := map[int64]bool{}
	for _, e := range r.m.timetable {
		if match(e) {
			seen[e.SubjectID] = true
		}
	}
	out := []*models.Subject{}
	for id := range seen {
		cp := *r.m.subjects[id]
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (r *fakeSubjectRepo) ListForTeacher(_ context.Context, teacherID int64) ([]*models.Subject, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	return r.listWhere(func(e *models.TimetableEntry) bool { return e.TeacherID == teacherID }), nil
}

func (r *fakeSubjectRepo) ListForTeacherInClass(_ context.Context, teacherID, classID int64) ([]*models.Subject, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	return r.listWhere(func(e *models.TimetableEntry) bool { return e.TeacherID == teacherID && e.ClassID == classID }), nil
}

type fakeEnrollmentRepo struct{ m *memStore }

func (r *fakeEnrollmentRepo) Create(_ context.Context, studentID, classID int64) (*models.Enrollment, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, e := range r.m.enrollments {
		if e.StudentID == studentID && e.ClassID == classID {
			return nil, apperrors.ErrDuplicateEnrollment
		}
	}
	e := &models.Enrollment{ID: r.m.id(), StudentID: studentID, ClassID: classID, EnrolledAt: time.Now()}
	r.m.enrollments[e.ID] = e
	out := *e
	return &out, nil
}

func (r *fakeEnrollmentRepo) Delete(_ context.Context, id int64) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.enrollments[id]; !ok {
		return apperrors.NewResourceNotFoundError("enrollment not found")
	}
	delete(r.m.enrollments, id)
	return nil
}

func (r *fakeEnrollmentRepo) List(_ context.Context, filter repositories.EnrollmentFilter) ([]*models.Enrollment, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := []*models.Enrollment{}
	for _, e := range r.m.enrollments {
		if filter.ClassID != nil && e.ClassID != *filter.ClassID {
			continue
		}
		if filter.StudentID != nil && e.StudentID != *filter.StudentID {
			continue
		}
		cp := *e
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeEnrollmentRepo) IsEnrolled(_ context.Context, studentID, classID int64) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, e := range r.m.enrollments {
		if e.StudentID == studentID && e.ClassID == classID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeEnrollmentRepo) ListStudents(_ context.Context, classID int64) ([]*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := []*models.User{}
	for _, e := range r.m.enrollments {
		if e.ClassID == classID {
			cp := *r.m.users[e.StudentID]
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type fakeTimetableRepo struct{ m *memStore }

func (r *fakeTimetableRepo) GetByID(_ context.Context, id int64) (*models.TimetableEntry, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	e, ok := r.m.timetable[id]
	if !ok {
		return nil, apperrors.NewResourceNotFoundError("timetable entry not found")
	}
	return r.m.withNames(e), nil
}

func (r *fakeTimetableRepo) List(_ context.Context, filter repositories.TimetableFilter) ([]*models.TimetableEntry, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	var studentClasses map[int64]bool
	if filter.StudentID != nil {
		studentClasses = map[int64]bool{}
		for _, e := range r.m.enrollments {
			if e.StudentID == *filter.StudentID {
				studentClasses[e.ClassID] = true
			}
		}
	}

	out := []*models.TimetableEntry{}
	for _, e := range r.m.timetable {
		if filter.TeacherID != nil && e.TeacherID != *filter.TeacherID {
			continue
		}
		if filter.ClassID != nil && e.ClassID != *filter.ClassID {
			continue
		}
		if studentClasses != nil && !studentClasses[e.ClassID] {
			continue
		}
		out = append(out, r.m.withNames(e))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// sameTeacherDay mirrors the repository query the check runs against
func (r *fakeTimetableRepo) sameTeacherDay(entry *models.TimetableEntry) []*models.TimetableEntry {
	out := []*models.TimetableEntry{}
	for _, e := range r.m.timetable {
		if e.TeacherID == entry.TeacherID && e.DayOfWeek == entry.DayOfWeek && e.ID != entry.ID {
			out = append(out, r.m.withNames(e))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime < out[j].StartTime })
	return out
}

func (r *fakeTimetableRepo) CreateChecked(_ context.Context, entry *models.TimetableEntry, check repositories.ConflictCheck) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if err := check(r.sameTeacherDay(entry)); err != nil {
		return 0, err
	}
	e := *entry
	e.ID = r.m.id()
	r.m.timetable[e.ID] = &e
	return e.ID, nil
}

func (r *fakeTimetableRepo) UpdateChecked(_ context.Context, entry *models.TimetableEntry, check repositories.ConflictCheck) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.timetable[entry.ID]; !ok {
		return apperrors.NewResourceNotFoundError("timetable entry not found")
	}
	if err := check(r.sameTeacherDay(entry)); err != nil {
		return err
	}
	e := *entry
	r.m.timetable[e.ID] = &e
	return nil
}

func (r *fakeTimetableRepo) Delete(_ context.Context, id int64) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.timetable[id]; !ok {
		return apperrors.NewResourceNotFoundError("timetable entry not found")
	}
	delete(r.m.timetable, id)
	return nil
}

func (r *fakeTimetableRepo) TeachesSubjectInClass(_ context.Context, teacherID, classID, subjectID int64) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, e := range r.m.timetable {
		if e.TeacherID == teacherID && e.ClassID == classID && e.SubjectID == subjectID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeTimetableRepo) TeachesClass(_ context.Context, teacherID, classID int64) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if c, ok := r.m.classes[classID]; ok && c.TeacherID != nil && *c.TeacherID == teacherID {
		return true, nil
	}
	for _, e := range r.m.timetable {
		if e.TeacherID == teacherID && e.ClassID == classID {
			return true, nil
		}
	}
	return false, nil
}

type fakeAttendanceRepo struct{ m *memStore }

func (r *fakeAttendanceRepo) Upsert(_ context.Context, a *models.Attendance) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for id, existing := range r.m.attendance {
		if existing.StudentID == a.StudentID && existing.ClassID == a.ClassID &&
			existing.SubjectID == a.SubjectID && existing.Date.Equal(a.Date) {
			cp := *a
			cp.ID = id
			r.m.attendance[id] = &cp
			return id, nil
		}
	}
	cp := *a
	cp.ID = r.m.id()
	r.m.attendance[cp.ID] = &cp
	return cp.ID, nil
}

func (r *fakeAttendanceRepo) ListForStudent(_ context.Context, studentID int64, limit int) ([]*models.Attendance, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := []*models.Attendance{}
	for _, a := range r.m.attendance {
		if a.StudentID == studentID {
			cp := *a
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeAttendanceRepo) CountByStatusForClass(_ context.Context, classID int64) (map[models.AttendanceStatus]int, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	counts := map[models.AttendanceStatus]int{}
	for _, a := range r.m.attendance {
		if a.ClassID == classID {
			counts[a.Status]++
		}
	}
	return counts, nil
}

type fakeGradeRepo struct{ m *memStore }

func (r *fakeGradeRepo) Upsert(_ context.Context, g *models.Grade) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	cp := *g
	if s, ok := r.m.subjects[g.SubjectID]; ok {
		cp.SubjectName = s.Name
	}
	for id, existing := range r.m.grades {
		if existing.StudentID == g.StudentID && existing.SubjectID == g.SubjectID &&
			existing.ClassID == g.ClassID && existing.TeacherID == g.TeacherID {
			cp.ID = id
			r.m.grades[id] = &cp
			return id, nil
		}
	}
	cp.ID = r.m.id()
	r.m.grades[cp.ID] = &cp
	return cp.ID, nil
}

func (r *fakeGradeRepo) GetByID(_ context.Context, id int64) (*models.Grade, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	g, ok := r.m.grades[id]
	if !ok {
		return nil, apperrors.NewResourceNotFoundError("grade not found")
	}
	out := *g
	return &out, nil
}

func (r *fakeGradeRepo) Delete(_ context.Context, id int64) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.grades[id]; !ok {
		return apperrors.NewResourceNotFoundError("grade not found")
	}
	delete(r.m.grades, id)
	return nil
}

func (r *fakeGradeRepo) List(_ context.Context, filter repositories.GradeFilter) ([]*models.Grade, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := []*models.Grade{}
	for _, g := range r.m.grades {
		if filter.StudentID != nil && g.StudentID != *filter.StudentID {
			continue
		}
		if filter.ClassID != nil && g.ClassID != *filter.ClassID {
			continue
		}
		if filter.SubjectID != nil && g.SubjectID != *filter.SubjectID {
			continue
		}
		cp := *g
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

type fakeSessions struct {
	issued int
}

func (f *fakeSessions) IssueSession(userID int64, _ string, _ models.Role) (string, time.Time, error) {
	f.issued++
	return "token-" + strings.Repeat("x", int(userID)), time.Now().Add(7 * 24 * time.Hour), nil
}

// fixture wires every service to one memStore
type fixture struct {
	store    *memStore
	sessions *fakeSessions
	svc      *Services
	authz    *appauth.AuthorizationService
}

func newFixture() *fixture {
	store := newMemStore()
	sessions := &fakeSessions{}
	svc := NewServices(store.repositories(), sessions)
	return &fixture{store: store, sessions: sessions, svc: svc, authz: svc.Authorization}
}
