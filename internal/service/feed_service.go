package service

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/yakoovad/meeting-guide/internal/cache"
	"github.com/yakoovad/meeting-guide/internal/model"
	"github.com/yakoovad/meeting-guide/internal/repository"
	"github.com/yakoovad/meeting-guide/pkg/logger"
	"go.uber.org/zap"
)

const updatedLayout = "2006-01-02 15:04:05"

// FeedService builds the public meeting listing and the print dataset. Both
// are kept in the response cache until content changes.
type FeedService struct {
	regions  repository.RegionRepository
	meetings repository.MeetingRepository

	cache        *cache.ResponseCache
	baseURL      string
	displayFlags []string
	now          func() time.Time
}

func NewFeedService(c *cache.ResponseCache, baseURL string) *FeedService {
	return &FeedService{
		cache:   c,
		baseURL: baseURL,
		now:     time.Now,
	}
}

func feedKey(filter model.MeetingFilter) string {
	key := "meetings"
	if filter.Day != nil {
		key += ":day=" + strconv.Itoa(int(*filter.Day))
	}
	if filter.RegionID != nil {
		key += ":region=" + strconv.FormatInt(*filter.RegionID, 10)
	}
	if filter.SpecCode != nil {
		key += ":type=" + *filter.SpecCode
	}
	return key
}

// listLive loads the live meetings matching filter with their types and
// region ancestors attached.
func (f *FeedService) listLive(ctx context.Context, filter model.MeetingFilter) ([]*model.ListedMeeting, *regionIndex, error) {
	l := logger.FromContext(ctx)

	regions, err := f.regions.List(ctx)
	if err != nil {
		l.Error("failed to list regions", zap.Error(err))
		return nil, nil, NewError(ErrorCodeUnspecified, "failed to list regions")
	}
	idx := newRegionIndex(regions)

	query := repository.LiveMeetingQuery{Day: filter.Day, SpecCode: filter.SpecCode}
	if filter.RegionID != nil {
		if _, ok := idx.byID[*filter.RegionID]; !ok {
			return nil, nil, NewError(ErrorCodeNotFound, "region not found")
		}
		query.RegionIDs = idx.descendants(*filter.RegionID)
	}

	listed, err := f.meetings.ListLive(ctx, query)
	if err != nil {
		l.Error("failed to list live meetings", zap.Error(err))
		return nil, nil, NewError(ErrorCodeUnspecified, "failed to list meetings")
	}

	ids := make([]int64, 0, len(listed))
	for _, lm := range listed {
		ids = append(ids, lm.Meeting.ID)
	}
	types, err := f.meetings.TypesByMeeting(ctx, ids)
	if err != nil {
		l.Error("failed to list meeting types", zap.Error(err))
		return nil, nil, NewError(ErrorCodeUnspecified, "failed to list meetings")
	}

	for _, lm := range listed {
		lm.Types = types[lm.Meeting.ID]
		lm.Regions = idx.ancestors(lm.Location.RegionID)
	}
	return listed, idx, nil
}

func unwrapError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return NewError(ErrorCodeUnspecified, err.Error())
}

// Meetings returns the public listing for filter.
func (f *FeedService) Meetings(ctx context.Context, filter model.MeetingFilter) ([]*model.FeedMeeting, *Error) {
	now := f.now()
	key := feedKey(filter)
	if filter.FromToday {
		key += ":from=" + strconv.Itoa(int(now.Weekday()))
	}

	res, err := cache.Remember(f.cache, key, func() ([]*model.FeedMeeting, error) {
		logger.FromContext(ctx).Debug("building meeting feed", zap.String("key", key))

		listed, _, err := f.listLive(ctx, filter)
		if err != nil {
			return nil, err
		}
		if filter.FromToday {
			sortFromToday(listed, now)
		}

		out := make([]*model.FeedMeeting, 0, len(listed))
		for _, lm := range listed {
			out = append(out, f.feedMeeting(lm))
		}
		return out, nil
	})
	if err != nil {
		return nil, unwrapError(err)
	}
	return res, nil
}

// sortFromToday reorders meetings already sorted by day and time so that
// today's meetings come first and yesterday's last.
func sortFromToday(listed []*model.ListedMeeting, now time.Time) {
	slices.SortStableFunc(listed, func(a, b *model.ListedMeeting) int {
		return a.Meeting.DayOfWeek.DaySortOrder(now) - b.Meeting.DayOfWeek.DaySortOrder(now)
	})
}

func locationTitle(lm *model.ListedMeeting) string {
	if lm.Meeting.District != "" {
		return fmt.Sprintf("%s (D%s)", lm.Location.Title, lm.Meeting.District)
	}
	return lm.Location.Title
}

// groupInfo renders "D<district> / GSO #<n>". The separator is kept when
// the district is blank, as existing feed consumers expect.
func groupInfo(lm *model.ListedMeeting) string {
	info := ""
	if lm.Meeting.District != "" {
		info = "D" + lm.Meeting.District
	}
	if lm.GSONumber != nil && *lm.GSONumber != "" {
		info += " / GSO #" + *lm.GSONumber
	}
	return info
}

func clock(t *model.ClockTime) string {
	if t == nil {
		return ""
	}
	return t.String()
}

func (f *FeedService) feedMeeting(lm *model.ListedMeeting) *model.FeedMeeting {
	m := lm.Meeting

	updated := f.now()
	if m.LastPublishedAt != nil {
		updated = *m.LastPublishedAt
	}

	codes := make([]string, 0, len(lm.Types))
	for _, t := range lm.Types {
		if t.SpecCode != nil && *t.SpecCode != "" {
			codes = append(codes, *t.SpecCode)
		}
	}

	paypal := ""
	if m.PayPal != "" {
		paypal = "https://paypal.me/" + m.PayPal
	}

	return &model.FeedMeeting{
		Name:             m.Title,
		Slug:             m.Slug,
		Notes:            m.Details,
		Updated:          updated.Format(updatedLayout),
		URL:              fmt.Sprintf("%s/%s/%s/", f.baseURL, lm.Location.Slug, m.Slug),
		Day:              m.DayOfWeek,
		Time:             clock(m.StartTime),
		EndTime:          clock(m.EndTime),
		ConferenceURL:    m.ConferenceURL,
		ConferencePhone:  m.ConferencePhone,
		Types:            codes,
		Location:         locationTitle(lm),
		FormattedAddress: lm.Location.FormattedAddress,
		Latitude:         lm.Location.Latitude,
		Longitude:        lm.Location.Longitude,
		Regions:          lm.Regions,
		Group:            groupInfo(lm),
		PayPal:           paypal,
		Venmo:            m.Venmo,
		CashApp:          m.CashApp,
	}
}

// PrintRegions returns every live meeting grouped by region path, regions in
// path order and meetings by day and start time.
func (f *FeedService) PrintRegions(ctx context.Context) ([]*model.PrintRegion, *Error) {
	res, err := cache.Remember(f.cache, "print", func() ([]*model.PrintRegion, error) {
		logger.FromContext(ctx).Debug("building print listing")

		listed, idx, err := f.listLive(ctx, model.MeetingFilter{})
		if err != nil {
			return nil, err
		}

		byRegion := make(map[string]*model.PrintRegion)
		for _, lm := range listed {
			name := idx.path(lm.Location.RegionID)
			region, ok := byRegion[name]
			if !ok {
				region = &model.PrintRegion{Name: name}
				byRegion[name] = region
			}
			region.Meetings = append(region.Meetings, f.printMeeting(lm))
		}

		out := make([]*model.PrintRegion, 0, len(byRegion))
		for _, region := range byRegion {
			out = append(out, region)
		}
		sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
		return out, nil
	})
	if err != nil {
		return nil, unwrapError(err)
	}
	return res, nil
}

func kitchen(t *model.ClockTime) string {
	if t == nil {
		return ""
	}
	return t.Kitchen()
}

func (f *FeedService) printMeeting(lm *model.ListedMeeting) *model.PrintMeeting {
	m := lm.Meeting
	pm := &model.PrintMeeting{
		Day:      m.DayOfWeek,
		Time:     kitchen(m.StartTime),
		EndTime:  kitchen(m.EndTime),
		Name:     m.Title,
		Location: locationTitle(lm),
		Online:   m.IsOnline(),
	}
	if lm.Location.FormattedAddress != nil {
		pm.Address = *lm.Location.FormattedAddress
	}
	if m.Details != nil {
		pm.Notes = *m.Details
	}

	for _, t := range lm.Types {
		if slices.Contains(f.displayFlags, t.TypeName) {
			pm.Flags = append(pm.Flags, t.TypeName)
			continue
		}
		if t.SpecCode == nil || *t.SpecCode == "" {
			continue
		}
		// printed as the Online label
		if pm.Online && *t.SpecCode == model.SpecCodeOnline {
			continue
		}
		pm.Types = append(pm.Types, *t.SpecCode)
	}
	return pm
}

func (f *FeedService) WithRegionRepo(r repository.RegionRepository) *FeedService {
	f.regions = r
	return f
}

func (f *FeedService) WithMeetingRepo(r repository.MeetingRepository) *FeedService {
	f.meetings = r
	return f
}

func (f *FeedService) WithDisplayFlags(flags []string) *FeedService {
	f.displayFlags = flags
	return f
}
