package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/yakoovad/meeting-guide/internal/auth"
	"github.com/yakoovad/meeting-guide/internal/cache"
	"github.com/yakoovad/meeting-guide/internal/model"
	"github.com/yakoovad/meeting-guide/internal/render"
	"github.com/yakoovad/meeting-guide/internal/repository"
	"github.com/yakoovad/meeting-guide/internal/service"
	"go.uber.org/zap"
)

const testSecret = "handler-test-secret"

type testEnv struct {
	echo      *echo.Echo
	regions   *service.MockRegionRepository
	locations *service.MockLocationRepository
	meetings  *service.MockMeetingRepository
	types     *service.MockMeetingTypeRepository
	groups    *service.MockGroupRepository
	tokens    *auth.Tokens
}

func newTestEnv() *testEnv {
	env := &testEnv{
		echo:      echo.New(),
		regions:   new(service.MockRegionRepository),
		locations: new(service.MockLocationRepository),
		meetings:  new(service.MockMeetingRepository),
		types:     new(service.MockMeetingTypeRepository),
		groups:    new(service.MockGroupRepository),
		tokens:    auth.NewTokens(testSecret),
	}

	tx := new(service.MockTransactor)
	responses := cache.NewResponseCache(cache.DefaultKeyPrefix, time.Hour)

	handler := NewHandler(zap.NewNop()).
		WithRegionService(service.NewRegionService(tx).WithRegionRepo(env.regions).WithLocationRepo(env.locations).WithCache(responses)).
		WithGroupService(service.NewGroupService(tx).WithGroupRepo(env.groups).WithCache(responses)).
		WithMeetingTypeService(service.NewMeetingTypeService(tx).WithMeetingTypeRepo(env.types).WithCache(responses)).
		WithLocationService(service.NewLocationService(tx).WithRegionRepo(env.regions).WithLocationRepo(env.locations).WithCache(responses)).
		WithMeetingService(service.NewMeetingService(tx).WithLocationRepo(env.locations).WithMeetingRepo(env.meetings).WithMeetingTypeRepo(env.types).WithCache(responses)).
		WithFeedService(service.NewFeedService(responses, "https://example.org").WithRegionRepo(env.regions).WithMeetingRepo(env.meetings)).
		WithPrinter(render.NewPrinter("Meetings", "")).
		WithTokens(env.tokens)
	handler.RegisterRoutes(env.echo)

	return env
}

func (env *testEnv) do(t *testing.T, method, target, body string, tokenType auth.TokenType) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if tokenType != auth.TokenTypeUndefined {
		token, err := env.tokens.Generate(tokenType, "tester", time.Hour)
		require.NoError(t, err)
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	env.echo.ServeHTTP(rec, req)
	return rec
}

func testRegions() []*model.Region {
	root := int64(1)
	return []*model.Region{
		{ID: 1, Name: "Colorado"},
		{ID: 2, Name: "Denver", ParentID: &root},
	}
}

func testListed() []*model.ListedMeeting {
	start := model.NewClockTime(19, 30)
	return []*model.ListedMeeting{{
		Meeting:  &model.Meeting{ID: 1, Title: "Evening Step", Slug: "evening-step", DayOfWeek: model.Tuesday, StartTime: &start},
		Location: &model.Location{ID: 3, Title: "Grace Church", Slug: "grace-church", RegionID: 2},
	}}
}

func TestHandler_ListMeetingFeed(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		setupMocks func(*testEnv)
		status     int
	}{
		{
			name:   "success",
			target: "/api/meetings",
			setupMocks: func(env *testEnv) {
				env.regions.On("List", mock.Anything).Return(testRegions(), nil)
				env.meetings.On("ListLive", mock.Anything, repository.LiveMeetingQuery{}).Return(testListed(), nil)
				env.meetings.On("TypesByMeeting", mock.Anything, []int64{1}).Return(map[int64][]*model.MeetingType{}, nil)
			},
			status: http.StatusOK,
		},
		{
			name:       "failure: day out of range",
			target:     "/api/?day=9",
			setupMocks: func(env *testEnv) {},
			status:     http.StatusBadRequest,
		},
		{
			name:   "success: from today",
			target: "/api/meetings?from=today",
			setupMocks: func(env *testEnv) {
				env.regions.On("List", mock.Anything).Return(testRegions(), nil)
				env.meetings.On("ListLive", mock.Anything, repository.LiveMeetingQuery{}).Return(testListed(), nil)
				env.meetings.On("TypesByMeeting", mock.Anything, []int64{1}).Return(map[int64][]*model.MeetingType{}, nil)
			},
			status: http.StatusOK,
		},
		{
			name:       "failure: unknown from",
			target:     "/api/meetings?from=yesterday",
			setupMocks: func(env *testEnv) {},
			status:     http.StatusBadRequest,
		},
		{
			name:       "failure: region not a number",
			target:     "/api/meetings?region=north",
			setupMocks: func(env *testEnv) {},
			status:     http.StatusBadRequest,
		},
		{
			name:   "failure: unknown region",
			target: "/api/meetings?region=42",
			setupMocks: func(env *testEnv) {
				env.regions.On("List", mock.Anything).Return(testRegions(), nil)
			},
			status: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv()
			tt.setupMocks(env)

			rec := env.do(t, http.MethodGet, tt.target, "", auth.TokenTypeUndefined)
			assert.Equal(t, tt.status, rec.Code)

			if tt.status == http.StatusOK {
				var res []map[string]any
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
				require.Len(t, res, 1)
				assert.Equal(t, "Evening Step", res[0]["name"])
				assert.Equal(t, "19:30", res[0]["time"])
				assert.Equal(t, "https://example.org/grace-church/evening-step/", res[0]["url"])
				assert.Equal(t, []any{"Colorado", "Denver"}, res[0]["regions"])
			}
		})
	}
}

func TestHandler_AdminAuth(t *testing.T) {
	tests := []struct {
		name      string
		tokenType auth.TokenType
		status    int
		code      string
	}{
		{name: "failure: no token", tokenType: auth.TokenTypeUndefined, status: http.StatusUnauthorized, code: "UNAUTHORIZED"},
		{name: "failure: user token", tokenType: auth.TokenTypeUser, status: http.StatusForbidden, code: "FORBIDDEN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv()
			rec := env.do(t, http.MethodPost, "/admin/regions", `{"name":"Utah"}`, tt.tokenType)

			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.code)
			env.regions.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestHandler_UserTokenReadsAdmin(t *testing.T) {
	env := newTestEnv()
	env.groups.On("List", mock.Anything, "").Return([]*model.Group{{ID: 1, Name: "Sunrise"}}, nil)

	rec := env.do(t, http.MethodGet, "/admin/groups", "", auth.TokenTypeUser)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Sunrise")

	rec = env.do(t, http.MethodDelete, "/admin/groups/1", "", auth.TokenTypeUser)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	env.groups.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestHandler_CreateRegion(t *testing.T) {
	env := newTestEnv()
	env.regions.On("List", mock.Anything).Return(testRegions(), nil)
	env.regions.On("Create", mock.Anything, mock.AnythingOfType("*model.Region")).
		Run(func(args mock.Arguments) { args.Get(1).(*model.Region).ID = 7 }).
		Return(nil)

	rec := env.do(t, http.MethodPost, "/admin/regions", `{"name":"Aurora","parent_id":2}`, auth.TokenTypeAdmin)
	require.Equal(t, http.StatusCreated, rec.Code)

	var region model.Region
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &region))
	assert.Equal(t, int64(7), region.ID)
	assert.Equal(t, "Colorado > Denver > Aurora", region.Path)
}

func TestHandler_DeleteRegionProtected(t *testing.T) {
	env := newTestEnv()
	env.regions.On("Delete", mock.Anything, int64(2)).Return(repository.ErrProtected)

	rec := env.do(t, http.MethodDelete, "/admin/regions/2", "", auth.TokenTypeAdmin)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "PROTECTED")
}

func TestHandler_CreateMeetingValidation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		status  int
		message string
	}{
		{
			name:    "invalid venmo",
			body:    `{"location_id":3,"title":"Evening Step","day_of_week":2,"venmo":"nope"}`,
			status:  http.StatusUnprocessableEntity,
			message: "Enter a valid Venmo username.",
		},
		{
			name:    "invalid cashapp",
			body:    `{"location_id":3,"title":"Evening Step","day_of_week":2,"cashapp":"@nope"}`,
			status:  http.StatusUnprocessableEntity,
			message: "Enter a valid CashApp username.",
		},
		{
			name:   "malformed body",
			body:   `{"location_id":`,
			status: http.StatusBadRequest,
		},
		{
			name:   "bad start time",
			body:   `{"location_id":3,"title":"Evening Step","start_time":"25:99"}`,
			status: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv()
			rec := env.do(t, http.MethodPost, "/admin/meetings", tt.body, auth.TokenTypeAdmin)

			assert.Equal(t, tt.status, rec.Code)
			if tt.message != "" {
				assert.Contains(t, rec.Body.String(), tt.message)
			}
			env.meetings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestHandler_PublishMeeting(t *testing.T) {
	env := newTestEnv()
	env.meetings.On("SetLive", mock.Anything, int64(5), true).Return(&model.Meeting{ID: 5, Title: "Evening Step", Live: true}, nil)
	env.meetings.On("GetTypeIDs", mock.Anything, int64(5)).Return([]int64{}, nil)

	rec := env.do(t, http.MethodPost, "/admin/meetings/5/publish", "", auth.TokenTypeAdmin)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"live":true`)

	rec = env.do(t, http.MethodPost, "/admin/meetings/abc/publish", "", auth.TokenTypeAdmin)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_Print(t *testing.T) {
	env := newTestEnv()
	env.regions.On("List", mock.Anything).Return(testRegions(), nil)
	env.meetings.On("ListLive", mock.Anything, repository.LiveMeetingQuery{}).Return(testListed(), nil)
	env.meetings.On("TypesByMeeting", mock.Anything, []int64{1}).Return(map[int64][]*model.MeetingType{}, nil)

	rec := env.do(t, http.MethodGet, "/print", "", auth.TokenTypeUndefined)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentType), "text/html")
	assert.Contains(t, rec.Body.String(), "Colorado &gt; Denver")
	assert.Contains(t, rec.Body.String(), "Evening Step")

	rec = env.do(t, http.MethodGet, "/print.pdf", "", auth.TokenTypeUndefined)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get(echo.HeaderContentType))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "%PDF"))

	// the second request is served from the response cache
	env.meetings.AssertNumberOfCalls(t, "ListLive", 1)
}
