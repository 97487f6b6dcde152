package service

import (
	"context"
	"fmt"
	"slices"

	"github.com/pkg/errors"
	"github.com/yakoovad/meeting-guide/internal/db"
	"github.com/yakoovad/meeting-guide/internal/model"
	"github.com/yakoovad/meeting-guide/internal/repository"
	"github.com/yakoovad/meeting-guide/pkg/logger"
	"go.uber.org/zap"
)

type MeetingService struct {
	writer

	locations    repository.LocationRepository
	meetings     repository.MeetingRepository
	meetingTypes repository.MeetingTypeRepository
}

func NewMeetingService(tx db.Transactor) *MeetingService {
	return &MeetingService{writer: newWriter(tx)}
}

// resolveTypes checks the requested types and applies the online tag: the
// ONL type is attached exactly when the meeting has a conference URL.
func (m *MeetingService) resolveTypes(ctx context.Context, meeting *model.Meeting) ([]int64, *Error) {
	l := logger.FromContext(ctx)

	requested := make([]int64, 0, len(meeting.TypeIDs))
	for _, id := range meeting.TypeIDs {
		if !slices.Contains(requested, id) {
			requested = append(requested, id)
		}
	}

	var online *model.MeetingType
	onl, err := m.meetingTypes.GetBySpecCode(ctx, model.SpecCodeOnline)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		l.Warn("online meeting type is missing, skipping automatic tagging")
	case err != nil:
		l.Error("failed to get online meeting type", zap.Error(err))
		return nil, NewError(ErrorCodeUnspecified, "failed to get meeting types")
	default:
		online = onl
	}

	typeIDs := make([]int64, 0, len(requested)+1)
	if len(requested) > 0 {
		types, err := m.meetingTypes.List(ctx, requested)
		if err != nil {
			l.Error("failed to list meeting types", zap.Error(err))
			return nil, NewError(ErrorCodeUnspecified, "failed to get meeting types")
		}
		if len(types) != len(requested) {
			return nil, &Error{
				Code:    ErrorCodeValidationFailed,
				Message: "validation failed",
				Details: []string{"types: Unknown meeting type."},
			}
		}

		for _, t := range types {
			if online != nil && t.ID == online.ID {
				continue
			}
			if !t.Selectable() {
				return nil, &Error{
					Code:    ErrorCodeValidationFailed,
					Message: "validation failed",
					Details: []string{fmt.Sprintf("types: %s cannot be assigned to a meeting.", t.TypeName)},
				}
			}
			typeIDs = append(typeIDs, t.ID)
		}
	}

	if online != nil && meeting.IsOnline() {
		typeIDs = append(typeIDs, online.ID)
	}
	return typeIDs, nil
}

func (m *MeetingService) prepare(ctx context.Context, meeting *model.Meeting) ([]int64, *Error) {
	if err := m.check(meeting); err != nil {
		return nil, err
	}

	_, err := m.locations.Get(ctx, meeting.LocationID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, NewError(ErrorCodeValidationFailed, "location not found")
	case err != nil:
		logger.FromContext(ctx).Error("failed to get location", zap.Int64("location_id", meeting.LocationID), zap.Error(err))
		return nil, NewError(ErrorCodeUnspecified, "failed to get location")
	}

	if meeting.Slug == "" {
		meeting.Slug = slugify(meeting.Title)
	}

	return m.resolveTypes(ctx, meeting)
}

func (m *MeetingService) CreateMeeting(ctx context.Context, meeting *model.Meeting) *Error {
	l := logger.FromContext(ctx)
	l.Info("creating meeting", zap.String("title", meeting.Title), zap.Int64("location_id", meeting.LocationID))

	typeIDs, e := m.prepare(ctx, meeting)
	if e != nil {
		return e
	}

	e = m.inTx(ctx, func(ctx context.Context) error {
		err := m.meetings.Create(ctx, meeting)
		switch {
		case errors.Is(err, repository.ErrAlreadyExists):
			return NewError(ErrorCodeAlreadyExists, "a meeting with this slug already exists at the location")
		case errors.Is(err, repository.ErrNotFound):
			return NewError(ErrorCodeValidationFailed, "group not found")
		case err != nil:
			l.Error("failed to create meeting", zap.String("title", meeting.Title), zap.Error(err))
			return NewError(ErrorCodeUnspecified, "failed to create meeting")
		}

		if err := m.meetings.SetTypes(ctx, meeting.ID, typeIDs); err != nil {
			l.Error("failed to set meeting types", zap.Int64("meeting_id", meeting.ID), zap.Error(err))
			return NewError(ErrorCodeUnspecified, "failed to set meeting types")
		}
		return nil
	})
	if e != nil {
		return e
	}

	meeting.TypeIDs = typeIDs
	if meeting.Live {
		m.cache.Flush()
	}
	return nil
}

func (m *MeetingService) UpdateMeeting(ctx context.Context, meeting *model.Meeting) *Error {
	l := logger.FromContext(ctx)
	l.Info("updating meeting", zap.Int64("meeting_id", meeting.ID))

	if _, e := m.GetMeeting(ctx, meeting.ID); e != nil {
		return e
	}

	typeIDs, e := m.prepare(ctx, meeting)
	if e != nil {
		return e
	}

	e = m.inTx(ctx, func(ctx context.Context) error {
		err := m.meetings.Update(ctx, meeting)
		switch {
		case errors.Is(err, repository.ErrAlreadyExists):
			return NewError(ErrorCodeAlreadyExists, "a meeting with this slug already exists at the location")
		case errors.Is(err, repository.ErrNotFound):
			return NewError(ErrorCodeNotFound, "meeting or group not found")
		case err != nil:
			l.Error("failed to update meeting", zap.Int64("meeting_id", meeting.ID), zap.Error(err))
			return NewError(ErrorCodeUnspecified, "failed to update meeting")
		}

		if err := m.meetings.SetTypes(ctx, meeting.ID, typeIDs); err != nil {
			l.Error("failed to set meeting types", zap.Int64("meeting_id", meeting.ID), zap.Error(err))
			return NewError(ErrorCodeUnspecified, "failed to set meeting types")
		}
		return nil
	})
	if e != nil {
		return e
	}

	meeting.TypeIDs = typeIDs
	m.cache.Flush()
	return nil
}

func (m *MeetingService) GetMeeting(ctx context.Context, id int64) (*model.Meeting, *Error) {
	l := logger.FromContext(ctx)

	meeting, err := m.meetings.Get(ctx, id)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, NewError(ErrorCodeNotFound, "meeting not found")
	case err != nil:
		l.Error("failed to get meeting", zap.Int64("meeting_id", id), zap.Error(err))
		return nil, NewError(ErrorCodeUnspecified, "failed to get meeting")
	}

	if meeting.TypeIDs, err = m.meetings.GetTypeIDs(ctx, id); err != nil {
		l.Error("failed to get meeting types", zap.Int64("meeting_id", id), zap.Error(err))
		return nil, NewError(ErrorCodeUnspecified, "failed to get meeting types")
	}
	return meeting, nil
}

func (m *MeetingService) ListMeetings(ctx context.Context, locationID *int64) ([]*model.Meeting, *Error) {
	l := logger.FromContext(ctx)

	meetings, err := m.meetings.List(ctx, locationID)
	if err != nil {
		l.Error("failed to list meetings", zap.Error(err))
		return nil, NewError(ErrorCodeUnspecified, "failed to list meetings")
	}

	ids := make([]int64, 0, len(meetings))
	for _, meeting := range meetings {
		ids = append(ids, meeting.ID)
	}
	types, err := m.meetings.TypesByMeeting(ctx, ids)
	if err != nil {
		l.Error("failed to list meeting types", zap.Error(err))
		return nil, NewError(ErrorCodeUnspecified, "failed to list meetings")
	}

	for _, meeting := range meetings {
		meeting.TypeIDs = make([]int64, 0, len(types[meeting.ID]))
		for _, t := range types[meeting.ID] {
			meeting.TypeIDs = append(meeting.TypeIDs, t.ID)
		}
	}
	return meetings, nil
}

func (m *MeetingService) SetMeetingLive(ctx context.Context, id int64, live bool) (*model.Meeting, *Error) {
	l := logger.FromContext(ctx)
	l.Info("changing meeting publication", zap.Int64("meeting_id", id), zap.Bool("live", live))

	meeting, err := m.meetings.SetLive(ctx, id, live)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, NewError(ErrorCodeNotFound, "meeting not found")
	case err != nil:
		l.Error("failed to change meeting publication", zap.Int64("meeting_id", id), zap.Error(err))
		return nil, NewError(ErrorCodeUnspecified, "failed to change meeting publication")
	}

	if meeting.TypeIDs, err = m.meetings.GetTypeIDs(ctx, id); err != nil {
		l.Error("failed to get meeting types", zap.Int64("meeting_id", id), zap.Error(err))
		return nil, NewError(ErrorCodeUnspecified, "failed to get meeting types")
	}

	m.cache.Flush()
	return meeting, nil
}

func (m *MeetingService) DeleteMeeting(ctx context.Context, id int64) *Error {
	l := logger.FromContext(ctx)
	l.Info("deleting meeting", zap.Int64("meeting_id", id))

	err := m.meetings.Delete(ctx, id)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return NewError(ErrorCodeNotFound, "meeting not found")
	case err != nil:
		l.Error("failed to delete meeting", zap.Int64("meeting_id", id), zap.Error(err))
		return NewError(ErrorCodeUnspecified, "failed to delete meeting")
	}

	m.cache.Flush()
	return nil
}

func (m *MeetingService) WithLocationRepo(r repository.LocationRepository) *MeetingService {
	m.locations = r
	return m
}

func (m *MeetingService) WithMeetingRepo(r repository.MeetingRepository) *MeetingService {
	m.meetings = r
	return m
}

func (m *MeetingService) WithMeetingTypeRepo(r repository.MeetingTypeRepository) *MeetingService {
	m.meetingTypes = r
	return m
}

func (m *MeetingService) WithCache(c CacheInvalidator) *MeetingService {
	m.cache = c
	return m
}
