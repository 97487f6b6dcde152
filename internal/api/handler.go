package api

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/yakoovad/meeting-guide/internal/auth"
	"github.com/yakoovad/meeting-guide/internal/render"
	"github.com/yakoovad/meeting-guide/internal/service"
	"go.uber.org/zap"
)

type Handler struct {
	regions      *service.RegionService
	groups       *service.GroupService
	meetingTypes *service.MeetingTypeService
	locations    *service.LocationService
	meetings     *service.MeetingService
	feed         *service.FeedService

	printer       *render.Printer
	tokens        *auth.Tokens
	healthChecker HealthChecker

	logger *zap.Logger
}

func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{
		logger: logger,
	}
}

func (h *Handler) WithHealthChecker(c HealthChecker) *Handler {
	h.healthChecker = c
	return h
}

func (h *Handler) WithRegionService(s *service.RegionService) *Handler {
	h.regions = s
	return h
}

func (h *Handler) WithGroupService(s *service.GroupService) *Handler {
	h.groups = s
	return h
}

func (h *Handler) WithMeetingTypeService(s *service.MeetingTypeService) *Handler {
	h.meetingTypes = s
	return h
}

func (h *Handler) WithLocationService(s *service.LocationService) *Handler {
	h.locations = s
	return h
}

func (h *Handler) WithMeetingService(s *service.MeetingService) *Handler {
	h.meetings = s
	return h
}

func (h *Handler) WithFeedService(s *service.FeedService) *Handler {
	h.feed = s
	return h
}

func (h *Handler) WithPrinter(p *render.Printer) *Handler {
	h.printer = p
	return h
}

func (h *Handler) WithTokens(t *auth.Tokens) *Handler {
	h.tokens = t
	return h
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.Validator = NewValidator()
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(ZapLoggerMiddleware(h.logger))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	if h.healthChecker != nil {
		e.GET("/health", h.healthChecker.HealthCheck())
	}

	public := e.Group("/api", middleware.Gzip())

	public.GET("/", h.ListMeetingFeed)
	public.GET("/meetings", h.ListMeetingFeed)
	public.GET("/regions", h.ListRegions)
	public.GET("/regions/tree", h.GetRegionTree)
	public.GET("/regions/:id", h.GetRegion)
	public.GET("/meeting-types", h.ListMeetingTypes)

	e.GET("/print", h.PrintView)
	e.GET("/print.pdf", h.PrintPDF)

	// user tokens may read, writes need an admin token
	admin := e.Group("/admin", AuthMiddleware(h.tokens, auth.TokenTypeAdmin, auth.TokenTypeUser))
	write := AuthMiddleware(h.tokens, auth.TokenTypeAdmin)

	admin.POST("/regions", h.CreateRegion, write)
	admin.PUT("/regions/:id", h.UpdateRegion, write)
	admin.DELETE("/regions/:id", h.DeleteRegion, write)

	admin.GET("/groups", h.ListGroups)
	admin.POST("/groups", h.CreateGroup, write)
	admin.GET("/groups/:id", h.GetGroup)
	admin.PUT("/groups/:id", h.UpdateGroup, write)
	admin.DELETE("/groups/:id", h.DeleteGroup, write)

	admin.GET("/contributions", h.ListContributions)
	admin.POST("/contributions", h.AddContribution, write)
	admin.GET("/contributions/:id", h.GetContribution)
	admin.DELETE("/contributions/:id", h.DeleteContribution, write)

	admin.POST("/meeting-types", h.CreateMeetingType, write)
	admin.GET("/meeting-types/:id", h.GetMeetingType)
	admin.PUT("/meeting-types/:id", h.UpdateMeetingType, write)
	admin.DELETE("/meeting-types/:id", h.DeleteMeetingType, write)

	admin.GET("/locations", h.ListLocations)
	admin.POST("/locations", h.CreateLocation, write)
	admin.GET("/locations/:id", h.GetLocation)
	admin.PUT("/locations/:id", h.UpdateLocation, write)
	admin.DELETE("/locations/:id", h.DeleteLocation, write)
	admin.POST("/locations/:id/publish", h.PublishLocation, write)
	admin.POST("/locations/:id/unpublish", h.UnpublishLocation, write)

	admin.GET("/meetings", h.ListMeetings)
	admin.POST("/meetings", h.CreateMeeting, write)
	admin.GET("/meetings/:id", h.GetMeeting)
	admin.PUT("/meetings/:id", h.UpdateMeeting, write)
	admin.DELETE("/meetings/:id", h.DeleteMeeting, write)
	admin.POST("/meetings/:id/publish", h.PublishMeeting, write)
	admin.POST("/meetings/:id/unpublish", h.UnpublishMeeting, write)

	admin.POST("/geocode", h.Geocode, write)
}

func (h *Handler) transportError(e echo.Context, err *service.Error) error {
	response := struct {
		Error *service.Error `json:"error"`
	}{Error: err}

	switch err.Code {
	case service.ErrorCodeNotFound:
		return e.JSON(http.StatusNotFound, response)
	case service.ErrorCodeInvalidBody:
		return e.JSON(http.StatusBadRequest, response)
	case service.ErrorCodeValidationFailed:
		return e.JSON(http.StatusUnprocessableEntity, response)
	case service.ErrorCodeProtected, service.ErrorCodeAlreadyExists:
		return e.JSON(http.StatusConflict, response)
	case service.ErrorCodeUnauthorized:
		return e.JSON(http.StatusUnauthorized, response)
	case service.ErrorCodeForbidden:
		return e.JSON(http.StatusForbidden, response)
	default:
		return e.JSON(http.StatusInternalServerError, response)
	}
}
