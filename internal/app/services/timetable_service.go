package services

import (
	"context"
	"errors"
	"fmt"

	appauth "github.com/yigit/schoolhub/internal/app/auth"
	"github.com/yigit/schoolhub/internal/app/models"
	"github.com/yigit/schoolhub/internal/app/models/dto"
	"github.com/yigit/schoolhub/internal/app/repositories"
	"github.com/yigit/schoolhub/internal/pkg/apperrors"
	"github.com/yigit/schoolhub/internal/pkg/auth"
	"github.com/yigit/schoolhub/internal/pkg/helpers"
	"github.com/yigit/schoolhub/internal/pkg/logger"
	"github.com/yigit/schoolhub/internal/pkg/schedule"
)

// TimetableService schedules lessons and keeps each teacher's day free of overlaps
type TimetableService struct {
	timetableRepo repositories.ITimetableRepository
	classRepo     repositories.IClassRepository
	subjectRepo   repositories.ISubjectRepository
	userRepo      repositories.IUserRepository
	authz         *appauth.AuthorizationService
}

// NewTimetableService creates a new TimetableService
func NewTimetableService(
	timetableRepo repositories.ITimetableRepository,
	classRepo repositories.IClassRepository,
	subjectRepo repositories.ISubjectRepository,
	userRepo repositories.IUserRepository,
	authz *appauth.AuthorizationService,
) *TimetableService {
	return &TimetableService{
		timetableRepo: timetableRepo,
		classRepo:     classRepo,
		subjectRepo:   subjectRepo,
		userRepo:      userRepo,
		authz:         authz,
	}
}

// slotFields is the structurally validated part of a request
type slotFields struct {
	day      schedule.Weekday
	interval schedule.Interval
}

// parseSlot validates day and times; nothing is read from storage
func parseSlot(req *dto.TimetableEntryRequest) (slotFields, error) {
	if req.ClassID <= 0 {
		return slotFields{}, apperrors.NewFieldValidationError("classId", "class is required")
	}
	if req.SubjectID <= 0 {
		return slotFields{}, apperrors.NewFieldValidationError("subjectId", "subject is required")
	}

	day, err := schedule.ParseWeekday(req.DayOfWeek)
	if err != nil {
		return slotFields{}, apperrors.NewFieldValidationError("dayOfWeek", "day of week must be Monday through Sunday")
	}
	start, err := schedule.ParseClock(req.StartTime)
	if err != nil {
		return slotFields{}, apperrors.NewFieldValidationError("startTime", "start time must be HH:MM")
	}
	end, err := schedule.ParseClock(req.EndTime)
	if err != nil {
		return slotFields{}, apperrors.NewFieldValidationError("endTime", "end time must be HH:MM")
	}

	interval, err := schedule.NewInterval(start, end)
	if err != nil {
		return slotFields{}, apperrors.ErrInvalidTimeRange
	}

	return slotFields{day: day, interval: interval}, nil
}

// resolveTeacher picks the teacher an entry is scheduled for.
// Teachers always schedule themselves; admins name a user with the teacher role.
func (s *TimetableService) resolveTeacher(ctx context.Context, actor *auth.Identity, requested, current int64) (int64, error) {
	if err := appauth.RequireRole(actor, models.RoleTeacher, models.RoleAdmin); err != nil {
		return 0, err
	}

	switch actor.Role {
	case models.RoleTeacher:
		if requested != 0 && requested != actor.ID {
			return 0, apperrors.NewForbiddenError("teachers can only schedule their own lessons")
		}
		return actor.ID, nil

	case models.RoleAdmin:
		teacherID := requested
		if teacherID == 0 {
			teacherID = current
		}
		if teacherID == 0 {
			return 0, apperrors.NewFieldValidationError("teacherId", "teacher is required")
		}
		if teacherID == current {
			return teacherID, nil
		}

		teacher, err := s.userRepo.GetByID(ctx, teacherID)
		if err != nil {
			if errors.Is(err, apperrors.ErrResourceNotFound) {
				return 0, apperrors.NewFieldValidationError("teacherId", "teacher does not exist")
			}
			return 0, err
		}
		if teacher.Role != models.RoleTeacher {
			return 0, apperrors.NewFieldValidationError("teacherId", "assigned user must have the teacher role")
		}
		return teacher.ID, nil
	}

	return 0, apperrors.NewForbiddenError("you don't have permission for this action")
}

// ensureReferences checks that the class and subject exist
func (s *TimetableService) ensureReferences(ctx context.Context, classID, subjectID int64) error {
	if _, err := s.classRepo.GetByID(ctx, classID); err != nil {
		return err
	}
	if _, err := s.subjectRepo.GetByID(ctx, subjectID); err != nil {
		return err
	}
	return nil
}

// conflictCheck rejects the candidate when it overlaps another entry of the same teacher and day
func conflictCheck(candidate *models.TimetableEntry) repositories.ConflictCheck {
	return func(existing []*models.TimetableEntry) error {
		slots := make([]schedule.Slot, 0, len(existing))
		byID := make(map[int64]*models.TimetableEntry, len(existing))
		for _, e := range existing {
			slots = append(slots, e.Slot())
			byID[e.ID] = e
		}

		hit, ok := schedule.FindConflict(candidate.Slot(), slots)
		if !ok {
			return nil
		}

		other := byID[hit.ID]
		return apperrors.NewScheduleConflictError(map[string]interface{}{
			"conflictingEntryId": other.ID,
			"className":          other.ClassName,
			"subjectName":        other.SubjectName,
			"dayOfWeek":          other.DayOfWeek.String(),
			"startTime":          other.StartTime.String(),
			"endTime":            other.EndTime.String(),
		})
	}
}

// Create validates and stores a new entry
func (s *TimetableService) Create(ctx context.Context, actor *auth.Identity, req *dto.TimetableEntryRequest) (*models.TimetableEntry, error) {
	slot, err := parseSlot(req)
	if err != nil {
		return nil, err
	}

	teacherID, err := s.resolveTeacher(ctx, actor, req.TeacherID, 0)
	if err != nil {
		return nil, err
	}

	if err := s.ensureReferences(ctx, req.ClassID, req.SubjectID); err != nil {
		return nil, err
	}

	entry := &models.TimetableEntry{
		ClassID:   req.ClassID,
		SubjectID: req.SubjectID,
		TeacherID: teacherID,
		DayOfWeek: slot.day,
		StartTime: slot.interval.Start,
		EndTime:   slot.interval.End,
		Room:      helpers.NilIfBlank(req.Room),
	}

	id, err := s.timetableRepo.CreateChecked(ctx, entry, conflictCheck(entry))
	if err != nil {
		if errors.Is(err, apperrors.ErrScheduleConflict) {
			logger.Info().Int64("teacherID", teacherID).Str("day", slot.day.String()).
				Str("interval", slot.interval.String()).Msg("Timetable entry rejected: schedule conflict")
		}
		return nil, err
	}

	return s.timetableRepo.GetByID(ctx, id)
}

// Update replaces an entry the actor owns; the entry never conflicts with its own old slot
func (s *TimetableService) Update(ctx context.Context, actor *auth.Identity, id int64, req *dto.TimetableEntryRequest) (*models.TimetableEntry, error) {
	existing, err := s.timetableRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.authz.CanModifyEntry(actor, existing); err != nil {
		return nil, err
	}

	slot, err := parseSlot(req)
	if err != nil {
		return nil, err
	}

	teacherID, err := s.resolveTeacher(ctx, actor, req.TeacherID, existing.TeacherID)
	if err != nil {
		return nil, err
	}

	if err := s.ensureReferences(ctx, req.ClassID, req.SubjectID); err != nil {
		return nil, err
	}

	updated := &models.TimetableEntry{
		ID:        existing.ID,
		ClassID:   req.ClassID,
		SubjectID: req.SubjectID,
		TeacherID: teacherID,
		DayOfWeek: slot.day,
		StartTime: slot.interval.Start,
		EndTime:   slot.interval.End,
		Room:      helpers.NilIfBlank(req.Room),
	}

	if err := s.timetableRepo.UpdateChecked(ctx, updated, conflictCheck(updated)); err != nil {
		return nil, err
	}

	return s.timetableRepo.GetByID(ctx, id)
}

// Delete removes an entry the actor owns, freeing its slot immediately
func (s *TimetableService) Delete(ctx context.Context, actor *auth.Identity, id int64) error {
	existing, err := s.timetableRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.authz.CanModifyEntry(actor, existing); err != nil {
		return err
	}

	return s.timetableRepo.Delete(ctx, id)
}

func sortEntries(entries []*models.TimetableEntry) {
	schedule.SortFunc(entries, func(e *models.TimetableEntry) schedule.Slot { return e.Slot() })
}

// ListForTeacher returns a teacher's week, Monday first, by start time
func (s *TimetableService) ListForTeacher(ctx context.Context, teacherID int64) ([]*models.TimetableEntry, error) {
	entries, err := s.timetableRepo.List(ctx, repositories.TimetableFilter{TeacherID: &teacherID})
	if err != nil {
		return nil, fmt.Errorf("error listing teacher timetable: %w", err)
	}
	sortEntries(entries)
	return entries, nil
}

// ListForStudent returns the week of every class the student is enrolled in
func (s *TimetableService) ListForStudent(ctx context.Context, studentID int64) ([]*models.TimetableEntry, error) {
	entries, err := s.timetableRepo.List(ctx, repositories.TimetableFilter{StudentID: &studentID})
	if err != nil {
		return nil, fmt.Errorf("error listing student timetable: %w", err)
	}
	sortEntries(entries)
	return entries, nil
}

// ListAssignments groups every entry by teacher, optionally for one teacher only
func (s *TimetableService) ListAssignments(ctx context.Context, teacherID *int64) ([]dto.TeacherAssignments, error) {
	entries, err := s.timetableRepo.List(ctx, repositories.TimetableFilter{TeacherID: teacherID})
	if err != nil {
		return nil, fmt.Errorf("error listing assignments: %w", err)
	}
	return GroupByTeacher(entries), nil
}

// GroupByTeacher buckets entries per teacher in first-seen order, each bucket in week order
func GroupByTeacher(entries []*models.TimetableEntry) []dto.TeacherAssignments {
	groups := make([]dto.TeacherAssignments, 0)
	index := make(map[int64]int)

	for _, e := range entries {
		i, ok := index[e.TeacherID]
		if !ok {
			i = len(groups)
			index[e.TeacherID] = i
			groups = append(groups, dto.TeacherAssignments{TeacherID: e.TeacherID, TeacherName: e.TeacherName})
		}
		groups[i].Entries = append(groups[i].Entries, e)
	}

	for i := range groups {
		sortEntries(groups[i].Entries)
	}
	return groups
}
