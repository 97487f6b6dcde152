package service

import (
	"context"

	"github.com/pkg/errors"
	"github.com/yakoovad/meeting-guide/internal/db"
	"github.com/yakoovad/meeting-guide/internal/model"
	"github.com/yakoovad/meeting-guide/internal/repository"
	"github.com/yakoovad/meeting-guide/pkg/logger"
	"go.uber.org/zap"
)

type MeetingTypeService struct {
	writer

	types repository.MeetingTypeRepository
}

func NewMeetingTypeService(tx db.Transactor) *MeetingTypeService {
	return &MeetingTypeService{writer: newWriter(tx)}
}

func (m *MeetingTypeService) CreateMeetingType(ctx context.Context, t *model.MeetingType) *Error {
	l := logger.FromContext(ctx)
	l.Info("creating meeting type", zap.String("type_name", t.TypeName))

	if err := m.check(t); err != nil {
		return err
	}

	if err := m.types.Create(ctx, t); err != nil {
		l.Error("failed to create meeting type", zap.String("type_name", t.TypeName), zap.Error(err))
		return NewError(ErrorCodeUnspecified, "failed to create meeting type")
	}

	m.cache.Flush()
	return nil
}

func (m *MeetingTypeService) UpdateMeetingType(ctx context.Context, t *model.MeetingType) *Error {
	l := logger.FromContext(ctx)
	l.Info("updating meeting type", zap.Int64("meeting_type_id", t.ID))

	if err := m.check(t); err != nil {
		return err
	}

	err := m.types.Update(ctx, t)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return NewError(ErrorCodeNotFound, "meeting type not found")
	case err != nil:
		l.Error("failed to update meeting type", zap.Int64("meeting_type_id", t.ID), zap.Error(err))
		return NewError(ErrorCodeUnspecified, "failed to update meeting type")
	}

	m.cache.Flush()
	return nil
}

func (m *MeetingTypeService) GetMeetingType(ctx context.Context, id int64) (*model.MeetingType, *Error) {
	t, err := m.types.Get(ctx, id)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, NewError(ErrorCodeNotFound, "meeting type not found")
	case err != nil:
		logger.FromContext(ctx).Error("failed to get meeting type", zap.Int64("meeting_type_id", id), zap.Error(err))
		return nil, NewError(ErrorCodeUnspecified, "failed to get meeting type")
	}
	return t, nil
}

// ListMeetingTypes returns every type ordered by display order then name.
func (m *MeetingTypeService) ListMeetingTypes(ctx context.Context) ([]*model.MeetingType, *Error) {
	types, err := m.types.List(ctx, nil)
	if err != nil {
		logger.FromContext(ctx).Error("failed to list meeting types", zap.Error(err))
		return nil, NewError(ErrorCodeUnspecified, "failed to list meeting types")
	}
	return types, nil
}

func (m *MeetingTypeService) DeleteMeetingType(ctx context.Context, id int64) *Error {
	l := logger.FromContext(ctx)
	l.Info("deleting meeting type", zap.Int64("meeting_type_id", id))

	err := m.types.Delete(ctx, id)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return NewError(ErrorCodeNotFound, "meeting type not found")
	case err != nil:
		l.Error("failed to delete meeting type", zap.Int64("meeting_type_id", id), zap.Error(err))
		return NewError(ErrorCodeUnspecified, "failed to delete meeting type")
	}

	m.cache.Flush()
	return nil
}

func (m *MeetingTypeService) WithMeetingTypeRepo(r repository.MeetingTypeRepository) *MeetingTypeService {
	m.types = r
	return m
}

func (m *MeetingTypeService) WithCache(c CacheInvalidator) *MeetingTypeService {
	m.cache = c
	return m
}
