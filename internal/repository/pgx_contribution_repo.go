package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dm"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/yakoovad/meeting-guide/internal/db"
	"github.com/yakoovad/meeting-guide/internal/model"
)

type ContributionRepository interface {
	Create(ctx context.Context, c *model.GroupContribution) error
	Get(ctx context.Context, id int64) (*model.GroupContribution, error)
	// List returns contributions ordered by group name and newest first,
	// optionally restricted to one group.
	List(ctx context.Context, groupID *int64) ([]*model.GroupContribution, error)
	Delete(ctx context.Context, id int64) error
}

type pgxContributionRepository struct {
	pool *pgxpool.Pool
}

func NewPgxContributionRepository(pool *pgxpool.Pool) ContributionRepository {
	return &pgxContributionRepository{pool: pool}
}

var contributionColumns = []any{
	"group_contribution.id",
	"group_contribution.group_id",
	"meeting_group.name",
	"group_contribution.date",
	"group_contribution.amount::text",
}

func (p *pgxContributionRepository) selectQuery() selectQuery {
	return psql.Select(
		sm.Columns(contributionColumns...),
		sm.From("group_contribution"),
		sm.InnerJoin("meeting_group").On(psql.Quote("meeting_group", "id").EQ(psql.Quote("group_contribution", "group_id"))),
	)
}

func scanContribution(row pgx.Row) (*model.GroupContribution, error) {
	c := &model.GroupContribution{}
	err := row.Scan(&c.ID, &c.GroupID, &c.GroupName, &c.Date, &c.Amount)
	return c, err
}

func (p *pgxContributionRepository) Create(ctx context.Context, c *model.GroupContribution) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	var amount pgtype.Numeric
	if err := amount.Scan(c.Amount); err != nil {
		return errors.Wrapf(err, "invalid amount %q", c.Amount)
	}

	q := psql.Insert(
		im.Into("group_contribution", "group_id", "date", "amount"),
		im.Values(psql.Arg(c.GroupID), psql.Arg(c.Date), psql.Arg(amount)),
		im.Returning("id"),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return err
	}

	return translateWriteError(e.QueryRow(ctx, sql, args...).Scan(&c.ID))
}

func (p *pgxContributionRepository) Get(ctx context.Context, id int64) (*model.GroupContribution, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := p.selectQuery()
	q.Apply(sm.Where(psql.Quote("group_contribution", "id").EQ(psql.Arg(id))))

	sql, args, err := q.Build(ctx)
	if err != nil {
		return nil, err
	}

	c, err := scanContribution(e.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, translateReadError(err)
	}
	return c, nil
}

func (p *pgxContributionRepository) List(ctx context.Context, groupID *int64) ([]*model.GroupContribution, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := p.selectQuery()
	if groupID != nil {
		q.Apply(sm.Where(psql.Quote("group_contribution", "group_id").EQ(psql.Arg(*groupID))))
	}
	q.Apply(
		sm.OrderBy("meeting_group.name"),
		sm.OrderBy("group_contribution.date").Desc(),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := e.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*model.GroupContribution, error) {
		return scanContribution(row)
	})
}

func (p *pgxContributionRepository) Delete(ctx context.Context, id int64) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Delete(
		dm.From("group_contribution"),
		dm.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return err
	}

	tag, err := e.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
