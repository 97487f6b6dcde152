package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dm"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/bob/dialect/psql/um"
	"github.com/yakoovad/meeting-guide/internal/db"
	"github.com/yakoovad/meeting-guide/internal/model"
)

// LiveMeetingQuery selects the meetings shown publicly. RegionIDs, when not
// nil, restricts the listing to locations in those regions.
type LiveMeetingQuery struct {
	Day       *model.Weekday
	RegionIDs []int64
	SpecCode  *string
}

type MeetingRepository interface {
	Create(ctx context.Context, meeting *model.Meeting) error
	Update(ctx context.Context, meeting *model.Meeting) error
	Get(ctx context.Context, id int64) (*model.Meeting, error)
	// List returns meetings ordered by day and start time, optionally those
	// of a single location.
	List(ctx context.Context, locationID *int64) ([]*model.Meeting, error)
	SetLive(ctx context.Context, id int64, live bool) (*model.Meeting, error)
	Delete(ctx context.Context, id int64) error

	// SetTypes replaces the meeting's type associations.
	SetTypes(ctx context.Context, meetingID int64, typeIDs []int64) error
	GetTypeIDs(ctx context.Context, meetingID int64) ([]int64, error)
	// TypesByMeeting loads the types of every listed meeting, keyed by
	// meeting id and ordered by display order.
	TypesByMeeting(ctx context.Context, meetingIDs []int64) (map[int64][]*model.MeetingType, error)

	// ListLive returns live, active meetings at live locations ordered by
	// day and start time.
	ListLive(ctx context.Context, query LiveMeetingQuery) ([]*model.ListedMeeting, error)
}

type pgxMeetingRepository struct {
	pool *pgxpool.Pool
}

func NewPgxMeetingRepository(pool *pgxpool.Pool) MeetingRepository {
	return &pgxMeetingRepository{pool: pool}
}

var meetingColumns = []any{
	"meeting.id",
	"meeting.location_id",
	"meeting.group_id",
	"meeting.title",
	"meeting.slug",
	"meeting.day_of_week",
	"meeting.start_time",
	"meeting.end_time",
	"meeting.status",
	"meeting.details",
	"meeting.area",
	"meeting.district",
	"meeting.conference_url",
	"meeting.conference_phone",
	"meeting.venmo",
	"meeting.paypal",
	"meeting.cashapp",
	"meeting.live",
	"meeting.last_published_at",
}

// meetingScanner collects a meeting row; pgtype.Time columns are converted
// once the row is scanned.
type meetingScanner struct {
	m     *model.Meeting
	start pgtype.Time
	end   pgtype.Time
}

func newMeetingScanner() *meetingScanner {
	return &meetingScanner{m: &model.Meeting{}}
}

func (s *meetingScanner) dest() []any {
	m := s.m
	return []any{
		&m.ID, &m.LocationID, &m.GroupID, &m.Title, &m.Slug, &m.DayOfWeek, &s.start, &s.end, &m.Status,
		&m.Details, &m.Area, &m.District, &m.ConferenceURL, &m.ConferencePhone, &m.Venmo, &m.PayPal,
		&m.CashApp, &m.Live, &m.LastPublishedAt,
	}
}

func (s *meetingScanner) meeting() *model.Meeting {
	s.m.StartTime = fromPgTime(s.start)
	s.m.EndTime = fromPgTime(s.end)
	return s.m
}

func (p *pgxMeetingRepository) Create(ctx context.Context, m *model.Meeting) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Insert(
		im.Into("meeting", "location_id", "group_id", "title", "slug", "day_of_week", "start_time", "end_time",
			"status", "details", "area", "district", "conference_url", "conference_phone", "venmo", "paypal",
			"cashapp", "live", "last_published_at"),
		im.Values(psql.Arg(m.LocationID), psql.Arg(m.GroupID), psql.Arg(m.Title), psql.Arg(m.Slug),
			psql.Arg(m.DayOfWeek), psql.Arg(toPgTime(m.StartTime)), psql.Arg(toPgTime(m.EndTime)),
			psql.Arg(m.Status), psql.Arg(m.Details), psql.Arg(m.Area), psql.Arg(m.District),
			psql.Arg(m.ConferenceURL), psql.Arg(m.ConferencePhone), psql.Arg(m.Venmo), psql.Arg(m.PayPal),
			psql.Arg(m.CashApp), psql.Arg(m.Live), publishedAt(m.Live)),
		im.Returning("id", "last_published_at"),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return err
	}

	return translateWriteError(e.QueryRow(ctx, sql, args...).Scan(&m.ID, &m.LastPublishedAt))
}

func (p *pgxMeetingRepository) Update(ctx context.Context, m *model.Meeting) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Update(
		um.Table("meeting"),
		um.SetCol("location_id").ToArg(m.LocationID),
		um.SetCol("group_id").ToArg(m.GroupID),
		um.SetCol("title").ToArg(m.Title),
		um.SetCol("slug").ToArg(m.Slug),
		um.SetCol("day_of_week").ToArg(m.DayOfWeek),
		um.SetCol("start_time").ToArg(toPgTime(m.StartTime)),
		um.SetCol("end_time").ToArg(toPgTime(m.EndTime)),
		um.SetCol("status").ToArg(m.Status),
		um.SetCol("details").ToArg(m.Details),
		um.SetCol("area").ToArg(m.Area),
		um.SetCol("district").ToArg(m.District),
		um.SetCol("conference_url").ToArg(m.ConferenceURL),
		um.SetCol("conference_phone").ToArg(m.ConferencePhone),
		um.SetCol("venmo").ToArg(m.Venmo),
		um.SetCol("paypal").ToArg(m.PayPal),
		um.SetCol("cashapp").ToArg(m.CashApp),
		um.Where(psql.Quote("id").EQ(psql.Arg(m.ID))),
		um.Returning("live", "last_published_at"),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return err
	}

	return translateWriteError(e.QueryRow(ctx, sql, args...).Scan(&m.Live, &m.LastPublishedAt))
}

func (p *pgxMeetingRepository) Get(ctx context.Context, id int64) (*model.Meeting, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns(meetingColumns...),
		sm.From("meeting"),
		sm.Where(psql.Quote("meeting", "id").EQ(psql.Arg(id))),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return nil, err
	}

	s := newMeetingScanner()
	if err = e.QueryRow(ctx, sql, args...).Scan(s.dest()...); err != nil {
		return nil, translateReadError(err)
	}
	return s.meeting(), nil
}

func (p *pgxMeetingRepository) List(ctx context.Context, locationID *int64) ([]*model.Meeting, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns(meetingColumns...),
		sm.From("meeting"),
		sm.OrderBy("meeting.day_of_week"),
		sm.OrderBy("meeting.start_time"),
		sm.OrderBy("meeting.id"),
	)
	if locationID != nil {
		q.Apply(sm.Where(psql.Quote("meeting", "location_id").EQ(psql.Arg(*locationID))))
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

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*model.Meeting, error) {
		s := newMeetingScanner()
		if err := row.Scan(s.dest()...); err != nil {
			return nil, err
		}
		return s.meeting(), nil
	})
}

func (p *pgxMeetingRepository) SetLive(ctx context.Context, id int64, live bool) (*model.Meeting, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Update(
		um.Table("meeting"),
		um.SetCol("live").ToArg(live),
		um.Where(psql.Quote("id").EQ(psql.Arg(id))),
		um.Returning(meetingColumns...),
	)
	if live {
		q.Apply(um.SetCol("last_published_at").To(psql.Raw("now()")))
	}

	sql, args, err := q.Build(ctx)
	if err != nil {
		return nil, err
	}

	s := newMeetingScanner()
	if err = e.QueryRow(ctx, sql, args...).Scan(s.dest()...); err != nil {
		return nil, translateReadError(err)
	}
	return s.meeting(), nil
}

func (p *pgxMeetingRepository) Delete(ctx context.Context, id int64) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Delete(
		dm.From("meeting"),
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

func (p *pgxMeetingRepository) SetTypes(ctx context.Context, meetingID int64, typeIDs []int64) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	del := psql.Delete(
		dm.From("meeting_meeting_type"),
		dm.Where(psql.Quote("meeting_id").EQ(psql.Arg(meetingID))),
	)

	sql, args, err := del.Build(ctx)
	if err != nil {
		return err
	}
	if _, err = e.Exec(ctx, sql, args...); err != nil {
		return err
	}

	if len(typeIDs) == 0 {
		return nil
	}

	ins := psql.Insert(
		im.Into("meeting_meeting_type", "meeting_id", "meeting_type_id"),
		im.OnConflict().DoNothing(),
	)
	for _, typeID := range typeIDs {
		ins.Apply(im.Values(psql.Arg(meetingID), psql.Arg(typeID)))
	}

	sql, args, err = ins.Build(ctx)
	if err != nil {
		return err
	}

	_, err = e.Exec(ctx, sql, args...)
	return translateWriteError(err)
}

func (p *pgxMeetingRepository) GetTypeIDs(ctx context.Context, meetingID int64) ([]int64, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns("meeting_type_id"),
		sm.From("meeting_meeting_type"),
		sm.Where(psql.Quote("meeting_id").EQ(psql.Arg(meetingID))),
		sm.OrderBy("meeting_type_id"),
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

	return pgx.CollectRows(rows, pgx.RowTo[int64])
}

func (p *pgxMeetingRepository) TypesByMeeting(ctx context.Context, meetingIDs []int64) (map[int64][]*model.MeetingType, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	res := make(map[int64][]*model.MeetingType, len(meetingIDs))
	if len(meetingIDs) == 0 {
		return res, nil
	}

	q := psql.Select(
		sm.Columns(append(append([]any{}, meetingTypeColumns...), "meeting_meeting_type.meeting_id")...),
		sm.From("meeting_meeting_type"),
		sm.InnerJoin("meeting_type").On(psql.Quote("meeting_type", "id").EQ(psql.Quote("meeting_meeting_type", "meeting_type_id"))),
		sm.Where(psql.Raw("meeting_meeting_type.meeting_id = ANY(?)", meetingIDs)),
		sm.OrderBy("meeting_type.display_order"),
		sm.OrderBy("meeting_type.type_name"),
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

	for rows.Next() {
		var meetingID int64
		t, err := scanMeetingType(rows, &meetingID)
		if err != nil {
			return nil, err
		}
		res[meetingID] = append(res[meetingID], t)
	}

	return res, rows.Err()
}

func (p *pgxMeetingRepository) ListLive(ctx context.Context, query LiveMeetingQuery) ([]*model.ListedMeeting, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	columns := append(append([]any{}, meetingColumns...), locationColumns...)
	columns = append(columns, "meeting_group.gso_number")

	q := psql.Select(
		sm.Columns(columns...),
		sm.From("meeting"),
		sm.InnerJoin("location").On(psql.Quote("location", "id").EQ(psql.Quote("meeting", "location_id"))),
		sm.LeftJoin("meeting_group").On(psql.Quote("meeting_group", "id").EQ(psql.Quote("meeting", "group_id"))),
		sm.Where(psql.Quote("meeting", "live").EQ(psql.Arg(true))),
		sm.Where(psql.Quote("location", "live").EQ(psql.Arg(true))),
		sm.Where(psql.Quote("meeting", "status").EQ(psql.Arg(model.MeetingStatusActive))),
		sm.OrderBy("meeting.day_of_week"),
		sm.OrderBy("meeting.start_time"),
		sm.OrderBy("meeting.id"),
	)
	if query.Day != nil {
		q.Apply(sm.Where(psql.Quote("meeting", "day_of_week").EQ(psql.Arg(*query.Day))))
	}
	if query.RegionIDs != nil {
		q.Apply(sm.Where(psql.Raw("location.region_id = ANY(?)", query.RegionIDs)))
	}
	if query.SpecCode != nil {
		q.Apply(sm.Where(psql.Raw(
			"EXISTS (SELECT 1 FROM meeting_meeting_type mmt JOIN meeting_type mt ON mt.id = mmt.meeting_type_id "+
				"WHERE mmt.meeting_id = meeting.id AND mt.spec_code = ?)", *query.SpecCode)))
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

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*model.ListedMeeting, error) {
		s := newMeetingScanner()
		l := &model.Location{}
		listed := &model.ListedMeeting{Location: l}

		dest := append(s.dest(), locationDest(l)...)
		dest = append(dest, &listed.GSONumber)
		if err := row.Scan(dest...); err != nil {
			return nil, err
		}
		listed.Meeting = s.meeting()
		return listed, nil
	})
}
