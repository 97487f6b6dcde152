package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dm"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/bob/dialect/psql/um"
	"github.com/yakoovad/meeting-guide/internal/db"
	"github.com/yakoovad/meeting-guide/internal/model"
)

type GroupRepository interface {
	Create(ctx context.Context, group *model.Group) error
	Update(ctx context.Context, group *model.Group) error
	Get(ctx context.Context, id int64) (*model.Group, error)
	// List returns groups ordered by name. A non-empty search matches names
	// case-insensitively.
	List(ctx context.Context, search string) ([]*model.Group, error)
	Delete(ctx context.Context, id int64) error
}

type pgxGroupRepository struct {
	pool *pgxpool.Pool
}

func NewPgxGroupRepository(pool *pgxpool.Pool) GroupRepository {
	return &pgxGroupRepository{pool: pool}
}

var groupColumns = []any{"id", "name", "gso_number", "status", "founded", "history"}

func scanGroup(row pgx.Row) (*model.Group, error) {
	g := &model.Group{}
	err := row.Scan(&g.ID, &g.Name, &g.GSONumber, &g.Status, &g.Founded, &g.History)
	return g, err
}

func (p *pgxGroupRepository) Create(ctx context.Context, group *model.Group) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Insert(
		im.Into("meeting_group", "name", "gso_number", "status", "founded", "history"),
		im.Values(psql.Arg(group.Name), psql.Arg(group.GSONumber), psql.Arg(group.Status),
			psql.Arg(group.Founded), psql.Arg(group.History)),
		im.Returning("id"),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return err
	}

	return translateWriteError(e.QueryRow(ctx, sql, args...).Scan(&group.ID))
}

func (p *pgxGroupRepository) Update(ctx context.Context, group *model.Group) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Update(
		um.Table("meeting_group"),
		um.SetCol("name").ToArg(group.Name),
		um.SetCol("gso_number").ToArg(group.GSONumber),
		um.SetCol("status").ToArg(group.Status),
		um.SetCol("founded").ToArg(group.Founded),
		um.SetCol("history").ToArg(group.History),
		um.Where(psql.Quote("id").EQ(psql.Arg(group.ID))),
		um.Returning("id"),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return err
	}

	return translateWriteError(e.QueryRow(ctx, sql, args...).Scan(&group.ID))
}

func (p *pgxGroupRepository) Get(ctx context.Context, id int64) (*model.Group, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns(groupColumns...),
		sm.From("meeting_group"),
		sm.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return nil, err
	}

	g, err := scanGroup(e.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, translateReadError(err)
	}
	return g, nil
}

func (p *pgxGroupRepository) List(ctx context.Context, search string) ([]*model.Group, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns(groupColumns...),
		sm.From("meeting_group"),
		sm.OrderBy("name"),
	)
	if search != "" {
		q.Apply(sm.Where(psql.Raw("name ILIKE ?", "%"+search+"%")))
	}

	sql, args, err := q.Build(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := e.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*model.Group, error) {
		return scanGroup(row)
	})
}

func (p *pgxGroupRepository) Delete(ctx context.Context, id int64) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Delete(
		dm.From("meeting_group"),
		dm.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return err
	}

	tag, err := e.Exec(ctx, sql, args...)
	if err != nil {
		return translateDeleteError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
