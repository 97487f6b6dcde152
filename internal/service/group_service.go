package service

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/yakoovad/meeting-guide/internal/db"
	"github.com/yakoovad/meeting-guide/internal/model"
	"github.com/yakoovad/meeting-guide/internal/repository"
	"github.com/yakoovad/meeting-guide/pkg/logger"
	"go.uber.org/zap"
)

type GroupService struct {
	writer

	groups        repository.GroupRepository
	contributions repository.ContributionRepository

	now func() time.Time
}

func NewGroupService(tx db.Transactor) *GroupService {
	return &GroupService{writer: newWriter(tx), now: time.Now}
}

func (g *GroupService) CreateGroup(ctx context.Context, group *model.Group) *Error {
	l := logger.FromContext(ctx)
	l.Info("creating group", zap.String("name", group.Name))

	if err := g.check(group); err != nil {
		return err
	}

	if err := g.groups.Create(ctx, group); err != nil {
		l.Error("failed to create group", zap.String("name", group.Name), zap.Error(err))
		return NewError(ErrorCodeUnspecified, "failed to create group")
	}
	return nil
}

func (g *GroupService) UpdateGroup(ctx context.Context, group *model.Group) *Error {
	l := logger.FromContext(ctx)
	l.Info("updating group", zap.Int64("group_id", group.ID))

	if err := g.check(group); err != nil {
		return err
	}

	err := g.groups.Update(ctx, group)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return NewError(ErrorCodeNotFound, "group not found")
	case err != nil:
		l.Error("failed to update group", zap.Int64("group_id", group.ID), zap.Error(err))
		return NewError(ErrorCodeUnspecified, "failed to update group")
	}

	// GSO numbers are part of the public listing.
	g.cache.Flush()
	return nil
}

func (g *GroupService) GetGroup(ctx context.Context, id int64) (*model.Group, *Error) {
	group, err := g.groups.Get(ctx, id)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, NewError(ErrorCodeNotFound, "group not found")
	case err != nil:
		logger.FromContext(ctx).Error("failed to get group", zap.Int64("group_id", id), zap.Error(err))
		return nil, NewError(ErrorCodeUnspecified, "failed to get group")
	}
	return group, nil
}

func (g *GroupService) ListGroups(ctx context.Context, search string) ([]*model.Group, *Error) {
	groups, err := g.groups.List(ctx, search)
	if err != nil {
		logger.FromContext(ctx).Error("failed to list groups", zap.String("search", search), zap.Error(err))
		return nil, NewError(ErrorCodeUnspecified, "failed to list groups")
	}
	return groups, nil
}

// DeleteGroup removes a group and its contributions; its meetings are kept
// without a group.
func (g *GroupService) DeleteGroup(ctx context.Context, id int64) *Error {
	l := logger.FromContext(ctx)
	l.Info("deleting group", zap.Int64("group_id", id))

	err := g.groups.Delete(ctx, id)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return NewError(ErrorCodeNotFound, "group not found")
	case err != nil:
		l.Error("failed to delete group", zap.Int64("group_id", id), zap.Error(err))
		return NewError(ErrorCodeUnspecified, "failed to delete group")
	}

	g.cache.Flush()
	return nil
}

// AddContribution records a contribution, dated today unless a date is set.
func (g *GroupService) AddContribution(ctx context.Context, c *model.GroupContribution) *Error {
	l := logger.FromContext(ctx)
	l.Info("adding contribution", zap.Int64("group_id", c.GroupID), zap.String("amount", c.Amount))

	if err := g.check(c); err != nil {
		return err
	}
	if c.Date.IsZero() {
		now := g.now()
		c.Date = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	}

	return g.inTx(ctx, func(txCtx context.Context) error {
		group, err := g.groups.Get(txCtx, c.GroupID)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return NewError(ErrorCodeValidationFailed, "group not found")
		case err != nil:
			l.Error("failed to get group", zap.Int64("group_id", c.GroupID), zap.Error(err))
			return NewError(ErrorCodeUnspecified, "failed to get group")
		}

		if err = g.contributions.Create(txCtx, c); err != nil {
			l.Error("failed to create contribution", zap.Int64("group_id", c.GroupID), zap.Error(err))
			return NewError(ErrorCodeUnspecified, "failed to create contribution")
		}
		c.GroupName = group.Name
		return nil
	})
}

func (g *GroupService) GetContribution(ctx context.Context, id int64) (*model.GroupContribution, *Error) {
	c, err := g.contributions.Get(ctx, id)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, NewError(ErrorCodeNotFound, "contribution not found")
	case err != nil:
		logger.FromContext(ctx).Error("failed to get contribution", zap.Int64("contribution_id", id), zap.Error(err))
		return nil, NewError(ErrorCodeUnspecified, "failed to get contribution")
	}
	return c, nil
}

func (g *GroupService) ListContributions(ctx context.Context, groupID *int64) ([]*model.GroupContribution, *Error) {
	res, err := g.contributions.List(ctx, groupID)
	if err != nil {
		logger.FromContext(ctx).Error("failed to list contributions", zap.Error(err))
		return nil, NewError(ErrorCodeUnspecified, "failed to list contributions")
	}
	return res, nil
}

func (g *GroupService) DeleteContribution(ctx context.Context, id int64) *Error {
	err := g.contributions.Delete(ctx, id)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return NewError(ErrorCodeNotFound, "contribution not found")
	case err != nil:
		logger.FromContext(ctx).Error("failed to delete contribution", zap.Int64("contribution_id", id), zap.Error(err))
		return NewError(ErrorCodeUnspecified, "failed to delete contribution")
	}
	return nil
}

func (g *GroupService) WithGroupRepo(r repository.GroupRepository) *GroupService {
	g.groups = r
	return g
}

func (g *GroupService) WithContributionRepo(r repository.ContributionRepository) *GroupService {
	g.contributions = r
	return g
}

func (g *GroupService) WithCache(c CacheInvalidator) *GroupService {
	g.cache = c
	return g
}
