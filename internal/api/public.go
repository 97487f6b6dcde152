package api

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/yakoovad/meeting-guide/internal/model"
	"github.com/yakoovad/meeting-guide/internal/service"
	"github.com/yakoovad/meeting-guide/pkg/logger"
	"go.uber.org/zap"
)

// meetingFilter reads the day, region, type and from query parameters.
func meetingFilter(e echo.Context) (model.MeetingFilter, *service.Error) {
	var filter model.MeetingFilter

	if raw := e.QueryParam("day"); raw != "" {
		day, err := strconv.Atoi(raw)
		if err != nil || day < int(model.Sunday) || day > int(model.Saturday) {
			return filter, service.NewError(service.ErrorCodeInvalidBody, "day must be between 0 and 6")
		}
		d := model.Weekday(day)
		filter.Day = &d
	}

	regionID, err := queryInt64(e, "region")
	if err != nil {
		return filter, err
	}
	filter.RegionID = regionID

	if code := e.QueryParam("type"); code != "" {
		filter.SpecCode = &code
	}

	switch e.QueryParam("from") {
	case "":
	case "today":
		filter.FromToday = true
	default:
		return filter, service.NewError(service.ErrorCodeInvalidBody, "from must be \"today\"")
	}
	return filter, nil
}

func (h *Handler) ListMeetingFeed(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	filter, err := meetingFilter(e)
	if err != nil {
		l.Error("invalid meeting filter", zap.Any("error", err))
		return h.transportError(e, err)
	}

	meetings, err := h.feed.Meetings(e.Request().Context(), filter)
	if err != nil {
		l.Error("failed to list meetings", zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusOK, meetings)
}

func (h *Handler) ListRegions(e echo.Context) error {
	parentID, err := queryInt64(e, "parent")
	if err != nil {
		return h.transportError(e, err)
	}

	regions, err := h.regions.ListRegions(e.Request().Context(), parentID)
	if err != nil {
		return h.transportError(e, err)
	}
	return e.JSON(http.StatusOK, regions)
}

func (h *Handler) GetRegionTree(e echo.Context) error {
	tree, err := h.regions.RegionTree(e.Request().Context())
	if err != nil {
		return h.transportError(e, err)
	}
	return e.JSON(http.StatusOK, tree)
}

func (h *Handler) GetRegion(e echo.Context) error {
	id, err := pathID(e)
	if err != nil {
		return h.transportError(e, err)
	}

	region, err := h.regions.GetRegion(e.Request().Context(), id)
	if err != nil {
		return h.transportError(e, err)
	}
	return e.JSON(http.StatusOK, region)
}

func (h *Handler) ListMeetingTypes(e echo.Context) error {
	types, err := h.meetingTypes.ListMeetingTypes(e.Request().Context())
	if err != nil {
		return h.transportError(e, err)
	}
	return e.JSON(http.StatusOK, types)
}

func (h *Handler) PrintView(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	regions, err := h.feed.PrintRegions(e.Request().Context())
	if err != nil {
		l.Error("failed to build print listing", zap.Any("error", err))
		return h.transportError(e, err)
	}

	var buf bytes.Buffer
	if err := h.printer.HTML(&buf, regions); err != nil {
		l.Error("failed to render print view", zap.Error(err))
		return h.transportError(e, service.NewError(service.ErrorCodeUnspecified, "failed to render print view"))
	}
	return e.HTMLBlob(http.StatusOK, buf.Bytes())
}

func (h *Handler) PrintPDF(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	regions, err := h.feed.PrintRegions(e.Request().Context())
	if err != nil {
		l.Error("failed to build print listing", zap.Any("error", err))
		return h.transportError(e, err)
	}

	var buf bytes.Buffer
	if err := h.printer.PDF(&buf, regions); err != nil {
		l.Error("failed to render pdf", zap.Error(err))
		return h.transportError(e, service.NewError(service.ErrorCodeUnspecified, "failed to render pdf"))
	}

	e.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="meetings.pdf"`)
	return e.Blob(http.StatusOK, "application/pdf", buf.Bytes())
}
