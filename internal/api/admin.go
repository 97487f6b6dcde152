package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/yakoovad/meeting-guide/internal/model"
	"github.com/yakoovad/meeting-guide/pkg/logger"
	"go.uber.org/zap"
)

func (h *Handler) CreateRegion(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	region := &model.Region{}
	if err := ProcessRequest(e, region, decodeBody[model.Region]); err != nil {
		l.Error("invalid request", zap.Any("error", err))
		return h.transportError(e, err)
	}

	if err := h.regions.CreateRegion(e.Request().Context(), region); err != nil {
		l.Error("failed to create region", zap.String("name", region.Name), zap.Any("error", err))
		return h.transportError(e, err)
	}
	return e.JSON(http.StatusCreated, region)
}

func (h *Handler) UpdateRegion(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	region := &model.Region{}
	err := ProcessRequest(e, region,
		decodeBody[model.Region],
		withPathID(func(r *model.Region, id int64) { r.ID = id }),
	)
	if err != nil {
		l.Error("invalid request", zap.Any("error", err))
		return h.transportError(e, err)
	}

	if err := h.regions.UpdateRegion(e.Request().Context(), region); err != nil {
		l.Error("failed to update region", zap.Int64("region_id", region.ID), zap.Any("error", err))
		return h.transportError(e, err)
	}
	return e.JSON(http.StatusOK, region)
}

func (h *Handler) DeleteRegion(e echo.Context) error {
	id, err := pathID(e)
	if err != nil {
		return h.transportError(e, err)
	}
	if err := h.regions.DeleteRegion(e.Request().Context(), id); err != nil {
		return h.transportError(e, err)
	}
	return e.NoContent(http.StatusNoContent)
}

func (h *Handler) ListGroups(e echo.Context) error {
	groups, err := h.groups.ListGroups(e.Request().Context(), e.QueryParam("search"))
	if err != nil {
		return h.transportError(e, err)
	}
	return e.JSON(http.StatusOK, groups)
}

func (h *Handler) CreateGroup(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	group := &model.Group{Status: model.GroupStatusActive}
	if err := ProcessRequest(e, group, decodeBody[model.Group]); err != nil {
		l.Error("invalid request", zap.Any("error", err))
		return h.transportError(e, err)
	}

	if err := h.groups.CreateGroup(e.Request().Context(), group); err != nil {
		l.Error("failed to create group", zap.String("name", group.Name), zap.Any("error", err))
		return h.transportError(e, err)
	}
	return e.JSON(http.StatusCreated, group)
}

func (h *Handler) GetGroup(e echo.Context) error {
	id, err := pathID(e)
	if err != nil {
		return h.transportError(e, err)
	}
	group, err := h.groups.GetGroup(e.Request().Context(), id)
	if err != nil {
		return h.transportError(e, err)
	}
	return e.JSON(http.StatusOK, group)
}

func (h *Handler) UpdateGroup(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	group := &model.Group{Status: model.GroupStatusActive}
	err := ProcessRequest(e, group,
		decodeBody[model.Group],
		withPathID(func(g *model.Group, id int64) { g.ID = id }),
	)
	if err != nil {
		l.Error("invalid request", zap.Any("error", err))
		return h.transportError(e, err)
	}

	if err := h.groups.UpdateGroup(e.Request().Context(), group); err != nil {
		l.Error("failed to update group", zap.Int64("group_id", group.ID), zap.Any("error", err))
		return h.transportError(e, err)
	}
	return e.JSON(http.StatusOK, group)
}

func (h *Handler) DeleteGroup(e echo.Context) error {
	id, err := pathID(e)
	if err != nil {
		return h.transportError(e, err)
	}
	if err := h.groups.DeleteGroup(e.Request().Context(), id); err != nil {
		return h.transportError(e, err)
	}
	return e.NoContent(http.StatusNoContent)
}

func (h *Handler) ListContributions(e echo.Context) error {
	groupID, err := queryInt64(e, "group_id")
	if err != nil {
		return h.transportError(e, err)
	}
	contributions, err := h.groups.ListContributions(e.Request().Context(), groupID)
	if err != nil {
		return h.transportError(e, err)
	}
	return e.JSON(http.StatusOK, contributions)
}

func (h *Handler) AddContribution(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	var req struct {
		GroupID int64       `json:"group_id" validate:"required"`
		Date    string      `json:"date" validate:"omitempty,datetime=2006-01-02"`
		Amount  json.Number `json:"amount" validate:"required"`
	}
	if err := decodeBody(e, &req); err != nil {
		l.Error("invalid request", zap.Any("error", err))
		return h.transportError(e, err)
	}

	c := &model.GroupContribution{GroupID: req.GroupID, Amount: req.Amount.String()}
	if req.Date != "" {
		c.Date, _ = time.Parse(time.DateOnly, req.Date)
	}

	if err := h.groups.AddContribution(e.Request().Context(), c); err != nil {
		l.Error("failed to add contribution", zap.Int64("group_id", c.GroupID), zap.Any("error", err))
		return h.transportError(e, err)
	}
	return e.JSON(http.StatusCreated, c)
}

func (h *Handler) GetContribution(e echo.Context) error {
	id, err := pathID(e)
	if err != nil {
		return h.transportError(e, err)
	}
	c, err := h.groups.GetContribution(e.Request().Context(), id)
	if err != nil {
		return h.transportError(e, err)
	}
	return e.JSON(http.StatusOK, c)
}

func (h *Handler) DeleteContribution(e echo.Context) error {
	id, err := pathID(e)
	if err != nil {
		return h.transportError(e, err)
	}
	if err := h.groups.DeleteContribution(e.Request().Context(), id); err != nil {
		return h.transportError(e, err)
	}
	return e.NoContent(http.StatusNoContent)
}

func (h *Handler) CreateMeetingType(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	t := &model.MeetingType{DisplayOrder: model.DefaultDisplayOrder}
	if err := ProcessRequest(e, t, decodeBody[model.MeetingType]); err != nil {
		l.Error("invalid request", zap.Any("error", err))
		return h.transportError(e, err)
	}

	if err := h.meetingTypes.CreateMeetingType(e.Request().Context(), t); err != nil {
		l.Error("failed to create meeting type", zap.String("type_name", t.TypeName), zap.Any("error", err))
		return h.transportError(e, err)
	}
	return e.JSON(http.StatusCreated, t)
}

func (h *Handler) GetMeetingType(e echo.Context) error {
	id, err := pathID(e)
	if err != nil {
		return h.transportError(e, err)
	}
	t, err := h.meetingTypes.GetMeetingType(e.Request().Context(), id)
	if err != nil {
		return h.transportError(e, err)
	}
	return e.JSON(http.StatusOK, t)
}

func (h *Handler) UpdateMeetingType(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	t := &model.MeetingType{DisplayOrder: model.DefaultDisplayOrder}
	err := ProcessRequest(e, t,
		decodeBody[model.MeetingType],
		withPathID(func(t *model.MeetingType, id int64) { t.ID = id }),
	)
	if err != nil {
		l.Error("invalid request", zap.Any("error", err))
		return h.transportError(e, err)
	}

	if err := h.meetingTypes.UpdateMeetingType(e.Request().Context(), t); err != nil {
		l.Error("failed to update meeting type", zap.Int64("meeting_type_id", t.ID), zap.Any("error", err))
		return h.transportError(e, err)
	}
	return e.JSON(http.StatusOK, t)
}

func (h *Handler) DeleteMeetingType(e echo.Context) error {
	id, err := pathID(e)
	if err != nil {
		return h.transportError(e, err)
	}
	if err := h.meetingTypes.DeleteMeetingType(e.Request().Context(), id); err != nil {
		return h.transportError(e, err)
	}
	return e.NoContent(http.StatusNoContent)
}

func (h *Handler) ListLocations(e echo.Context) error {
	regionID, err := queryInt64(e, "region")
	if err != nil {
		return h.transportError(e, err)
	}
	locations, err := h.locations.ListLocations(e.Request().Context(), regionID)
	if err != nil {
		return h.transportError(e, err)
	}
	return e.JSON(http.StatusOK, locations)
}

func (h *Handler) CreateLocation(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	location := &model.Location{}
	if err := ProcessRequest(e, location, decodeBody[model.Location]); err != nil {
		l.Error("invalid request", zap.Any("error", err))
		return h.transportError(e, err)
	}

	if err := h.locations.CreateLocation(e.Request().Context(), location); err != nil {
		l.Error("failed to create location", zap.String("title", location.Title), zap.Any("error", err))
		return h.transportError(e, err)
	}
	return e.JSON(http.StatusCreated, location)
}

func (h *Handler) GetLocation(e echo.Context) error {
	id, err := pathID(e)
	if err != nil {
		return h.transportError(e, err)
	}
	location, err := h.locations.GetLocation(e.Request().Context(), id)
	if err != nil {
		return h.transportError(e, err)
	}
	return e.JSON(http.StatusOK, location)
}

func (h *Handler) UpdateLocation(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	location := &model.Location{}
	err := ProcessRequest(e, location,
		decodeBody[model.Location],
		withPathID(func(loc *model.Location, id int64) { loc.ID = id }),
	)
	if err != nil {
		l.Error("invalid request", zap.Any("error", err))
		return h.transportError(e, err)
	}

	if err := h.locations.UpdateLocation(e.Request().Context(), location); err != nil {
		l.Error("failed to update location", zap.Int64("location_id", location.ID), zap.Any("error", err))
		return h.transportError(e, err)
	}
	return e.JSON(http.StatusOK, location)
}

func (h *Handler) DeleteLocation(e echo.Context) error {
	id, err := pathID(e)
	if err != nil {
		return h.transportError(e, err)
	}
	if err := h.locations.DeleteLocation(e.Request().Context(), id); err != nil {
		return h.transportError(e, err)
	}
	return e.NoContent(http.StatusNoContent)
}

func (h *Handler) setLocationLive(e echo.Context, live bool) error {
	id, err := pathID(e)
	if err != nil {
		return h.transportError(e, err)
	}
	location, err := h.locations.SetLocationLive(e.Request().Context(), id, live)
	if err != nil {
		return h.transportError(e, err)
	}
	return e.JSON(http.StatusOK, location)
}

func (h *Handler) PublishLocation(e echo.Context) error {
	return h.setLocationLive(e, true)
}

func (h *Handler) UnpublishLocation(e echo.Context) error {
	return h.setLocationLive(e, false)
}

func (h *Handler) ListMeetings(e echo.Context) error {
	locationID, err := queryInt64(e, "location_id")
	if err != nil {
		return h.transportError(e, err)
	}
	meetings, err := h.meetings.ListMeetings(e.Request().Context(), locationID)
	if err != nil {
		return h.transportError(e, err)
	}
	return e.JSON(http.StatusOK, meetings)
}

func (h *Handler) CreateMeeting(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	meeting := &model.Meeting{Status: model.MeetingStatusActive}
	if err := ProcessRequest(e, meeting, decodeBody[model.Meeting]); err != nil {
		l.Error("invalid request", zap.Any("error", err))
		return h.transportError(e, err)
	}

	if err := h.meetings.CreateMeeting(e.Request().Context(), meeting); err != nil {
		l.Error("failed to create meeting", zap.String("title", meeting.Title), zap.Any("error", err))
		return h.transportError(e, err)
	}
	return e.JSON(http.StatusCreated, meeting)
}

func (h *Handler) GetMeeting(e echo.Context) error {
	id, err := pathID(e)
	if err != nil {
		return h.transportError(e, err)
	}
	meeting, err := h.meetings.GetMeeting(e.Request().Context(), id)
	if err != nil {
		return h.transportError(e, err)
	}
	return e.JSON(http.StatusOK, meeting)
}

func (h *Handler) UpdateMeeting(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	meeting := &model.Meeting{Status: model.MeetingStatusActive}
	err := ProcessRequest(e, meeting,
		decodeBody[model.Meeting],
		withPathID(func(m *model.Meeting, id int64) { m.ID = id }),
	)
	if err != nil {
		l.Error("invalid request", zap.Any("error", err))
		return h.transportError(e, err)
	}

	if err := h.meetings.UpdateMeeting(e.Request().Context(), meeting); err != nil {
		l.Error("failed to update meeting", zap.Int64("meeting_id", meeting.ID), zap.Any("error", err))
		return h.transportError(e, err)
	}
	return e.JSON(http.StatusOK, meeting)
}

func (h *Handler) DeleteMeeting(e echo.Context) error {
	id, err := pathID(e)
	if err != nil {
		return h.transportError(e, err)
	}
	if err := h.meetings.DeleteMeeting(e.Request().Context(), id); err != nil {
		return h.transportError(e, err)
	}
	return e.NoContent(http.StatusNoContent)
}

func (h *Handler) setMeetingLive(e echo.Context, live bool) error {
	id, err := pathID(e)
	if err != nil {
		return h.transportError(e, err)
	}
	meeting, err := h.meetings.SetMeetingLive(e.Request().Context(), id, live)
	if err != nil {
		return h.transportError(e, err)
	}
	return e.JSON(http.StatusOK, meeting)
}

func (h *Handler) PublishMeeting(e echo.Context) error {
	return h.setMeetingLive(e, true)
}

func (h *Handler) UnpublishMeeting(e echo.Context) error {
	return h.setMeetingLive(e, false)
}

func (h *Handler) Geocode(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	var req struct {
		Address string `json:"address" validate:"required,max=255"`
	}
	if err := decodeBody(e, &req); err != nil {
		l.Error("invalid request", zap.Any("error", err))
		return h.transportError(e, err)
	}

	res, err := h.locations.GeocodeAddress(e.Request().Context(), req.Address)
	if err != nil {
		l.Error("failed to geocode address", zap.String("address", req.Address), zap.Any("error", err))
		return h.transportError(e, err)
	}
	return e.JSON(http.StatusOK, res)
}
