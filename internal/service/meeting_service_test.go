package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/yakoovad/meeting-guide/internal/model"
	"github.com/yakoovad/meeting-guide/internal/repository"
)

var (
	onlineType  = &model.MeetingType{ID: 1, TypeName: "Online", SpecCode: ptr("ONL")}
	speakerType = &model.MeetingType{ID: 3, TypeName: "Speaker", IntergroupCode: ptr("SP"), SpecCode: ptr("SP")}
	womenType   = &model.MeetingType{ID: 4, TypeName: "Women", IntergroupCode: ptr("W"), SpecCode: ptr("W")}
	legacyType  = &model.MeetingType{ID: 5, TypeName: "Legacy", SpecCode: ptr("LG")}
)

func testMeeting() *model.Meeting {
	return &model.Meeting{
		LocationID: 10,
		Title:      "Morning Serenity",
		DayOfWeek:  model.Monday,
		Status:     model.MeetingStatusActive,
		TypeIDs:    []int64{3},
	}
}

type meetingMocks struct {
	locations *MockLocationRepository
	meetings  *MockMeetingRepository
	types     *MockMeetingTypeRepository
}

func TestMeetingService_CreateMeeting(t *testing.T) {
	tests := []struct {
		name       string
		meeting    func() *model.Meeting
		setupMocks func(meetingMocks)
		errorCode  ErrorCode
		typeIDs    []int64
	}{
		{
			name: "success: online meeting gets ONL",
			meeting: func() *model.Meeting {
				m := testMeeting()
				m.ConferenceURL = "https://zoom.us/j/123"
				return m
			},
			setupMocks: func(mm meetingMocks) {
				mm.locations.On("Get", mock.Anything, int64(10)).Return(&model.Location{ID: 10}, nil)
				mm.types.On("GetBySpecCode", mock.Anything, "ONL").Return(onlineType, nil)
				mm.types.On("List", mock.Anything, []int64{3}).Return([]*model.MeetingType{speakerType}, nil)
				mm.meetings.On("Create", mock.Anything, mock.Anything).
					Run(func(args mock.Arguments) { args.Get(1).(*model.Meeting).ID = 100 }).
					Return(nil)
				mm.meetings.On("SetTypes", mock.Anything, int64(100), []int64{3, 1}).Return(nil)
			},
			typeIDs: []int64{3, 1},
		},
		{
			name: "success: ONL removed without conference url",
			meeting: func() *model.Meeting {
				m := testMeeting()
				m.TypeIDs = []int64{1, 3, 4, 3}
				return m
			},
			setupMocks: func(mm meetingMocks) {
				mm.locations.On("Get", mock.Anything, int64(10)).Return(&model.Location{ID: 10}, nil)
				mm.types.On("GetBySpecCode", mock.Anything, "ONL").Return(onlineType, nil)
				mm.types.On("List", mock.Anything, []int64{1, 3, 4}).
					Return([]*model.MeetingType{onlineType, speakerType, womenType}, nil)
				mm.meetings.On("Create", mock.Anything, mock.Anything).
					Run(func(args mock.Arguments) { args.Get(1).(*model.Meeting).ID = 101 }).
					Return(nil)
				mm.meetings.On("SetTypes", mock.Anything, int64(101), []int64{3, 4}).Return(nil)
			},
			typeIDs: []int64{3, 4},
		},
		{
			name: "success: missing online type skips tagging",
			meeting: func() *model.Meeting {
				m := testMeeting()
				m.ConferenceURL = "https://zoom.us/j/123"
				return m
			},
			setupMocks: func(mm meetingMocks) {
				mm.locations.On("Get", mock.Anything, int64(10)).Return(&model.Location{ID: 10}, nil)
				mm.types.On("GetBySpecCode", mock.Anything, "ONL").Return(nil, repository.ErrNotFound)
				mm.types.On("List", mock.Anything, []int64{3}).Return([]*model.MeetingType{speakerType}, nil)
				mm.meetings.On("Create", mock.Anything, mock.Anything).
					Run(func(args mock.Arguments) { args.Get(1).(*model.Meeting).ID = 102 }).
					Return(nil)
				mm.meetings.On("SetTypes", mock.Anything, int64(102), []int64{3}).Return(nil)
			},
			typeIDs: []int64{3},
		},
		{
			name: "failure: type without intergroup code",
			meeting: func() *model.Meeting {
				m := testMeeting()
				m.TypeIDs = []int64{5}
				return m
			},
			setupMocks: func(mm meetingMocks) {
				mm.locations.On("Get", mock.Anything, int64(10)).Return(&model.Location{ID: 10}, nil)
				mm.types.On("GetBySpecCode", mock.Anything, "ONL").Return(onlineType, nil)
				mm.types.On("List", mock.Anything, []int64{5}).Return([]*model.MeetingType{legacyType}, nil)
			},
			errorCode: ErrorCodeValidationFailed,
		},
		{
			name: "failure: unknown type",
			meeting: func() *model.Meeting {
				m := testMeeting()
				m.TypeIDs = []int64{3, 77}
				return m
			},
			setupMocks: func(mm meetingMocks) {
				mm.locations.On("Get", mock.Anything, int64(10)).Return(&model.Location{ID: 10}, nil)
				mm.types.On("GetBySpecCode", mock.Anything, "ONL").Return(onlineType, nil)
				mm.types.On("List", mock.Anything, []int64{3, 77}).Return([]*model.MeetingType{speakerType}, nil)
			},
			errorCode: ErrorCodeValidationFailed,
		},
		{
			name: "failure: invalid venmo handle",
			meeting: func() *model.Meeting {
				m := testMeeting()
				m.Venmo = "sunrise"
				return m
			},
			setupMocks: func(mm meetingMocks) {},
			errorCode:  ErrorCodeValidationFailed,
		},
		{
			name: "failure: invalid conference phone",
			meeting: func() *model.Meeting {
				m := testMeeting()
				m.ConferencePhone = "call 555-1234"
				return m
			},
			setupMocks: func(mm meetingMocks) {},
			errorCode:  ErrorCodeValidationFailed,
		},
		{
			name: "failure: location not found",
			meeting: func() *model.Meeting {
				return testMeeting()
			},
			setupMocks: func(mm meetingMocks) {
				mm.locations.On("Get", mock.Anything, int64(10)).Return(nil, repository.ErrNotFound)
			},
			errorCode: ErrorCodeValidationFailed,
		},
		{
			name: "failure: duplicate slug",
			meeting: func() *model.Meeting {
				return testMeeting()
			},
			setupMocks: func(mm meetingMocks) {
				mm.locations.On("Get", mock.Anything, int64(10)).Return(&model.Location{ID: 10}, nil)
				mm.types.On("GetBySpecCode", mock.Anything, "ONL").Return(onlineType, nil)
				mm.types.On("List", mock.Anything, []int64{3}).Return([]*model.MeetingType{speakerType}, nil)
				mm.meetings.On("Create", mock.Anything, mock.Anything).Return(repository.ErrAlreadyExists)
			},
			errorCode: ErrorCodeAlreadyExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mm := meetingMocks{
				locations: new(MockLocationRepository),
				meetings:  new(MockMeetingRepository),
				types:     new(MockMeetingTypeRepository),
			}
			tt.setupMocks(mm)

			s := NewMeetingService(new(MockTransactor)).
				WithLocationRepo(mm.locations).
				WithMeetingRepo(mm.meetings).
				WithMeetingTypeRepo(mm.types)

			meeting := tt.meeting()
			err := s.CreateMeeting(context.Background(), meeting)

			if tt.errorCode != "" {
				require.NotNil(t, err)
				assert.Equal(t, tt.errorCode, err.Code)
			} else {
				require.Nil(t, err)
				assert.Equal(t, tt.typeIDs, meeting.TypeIDs)
				assert.Equal(t, "morning-serenity", meeting.Slug)
			}
			mm.locations.AssertExpectations(t)
			mm.meetings.AssertExpectations(t)
			mm.types.AssertExpectations(t)
		})
	}
}

func TestMeetingService_UpdateMeeting(t *testing.T) {
	mm := meetingMocks{
		locations: new(MockLocationRepository),
		meetings:  new(MockMeetingRepository),
		types:     new(MockMeetingTypeRepository),
	}
	mm.meetings.On("Get", mock.Anything, int64(100)).Return(&model.Meeting{ID: 100}, nil)
	mm.meetings.On("GetTypeIDs", mock.Anything, int64(100)).Return([]int64{3, 1}, nil)
	mm.locations.On("Get", mock.Anything, int64(10)).Return(&model.Location{ID: 10}, nil)
	mm.types.On("GetBySpecCode", mock.Anything, "ONL").Return(onlineType, nil)
	mm.types.On("List", mock.Anything, []int64{3, 1}).Return([]*model.MeetingType{speakerType, onlineType}, nil)
	mm.meetings.On("Update", mock.Anything, mock.Anything).Return(nil)
	mm.meetings.On("SetTypes", mock.Anything, int64(100), []int64{3}).Return(nil)
	c := new(MockCache)
	c.On("Flush").Return()

	s := NewMeetingService(new(MockTransactor)).
		WithLocationRepo(mm.locations).
		WithMeetingRepo(mm.meetings).
		WithMeetingTypeRepo(mm.types).
		WithCache(c)

	meeting := testMeeting()
	meeting.ID = 100
	meeting.Slug = "sunrise"
	meeting.TypeIDs = []int64{3, 1}

	err := s.UpdateMeeting(context.Background(), meeting)
	require.Nil(t, err)
	assert.Equal(t, []int64{3}, meeting.TypeIDs)
	assert.Equal(t, "sunrise", meeting.Slug)
	mm.meetings.AssertExpectations(t)
	c.AssertExpectations(t)
}

func TestMeetingService_UpdateMeetingNotFound(t *testing.T) {
	meetings := new(MockMeetingRepository)
	meetings.On("Get", mock.Anything, int64(5)).Return(nil, repository.ErrNotFound)

	s := NewMeetingService(new(MockTransactor)).WithMeetingRepo(meetings)
	meeting := testMeeting()
	meeting.ID = 5

	err := s.UpdateMeeting(context.Background(), meeting)
	require.NotNil(t, err)
	assert.Equal(t, ErrorCodeNotFound, err.Code)
}

func TestMeetingService_ListMeetings(t *testing.T) {
	meetings := new(MockMeetingRepository)
	locationID := ptr(int64(10))
	meetings.On("List", mock.Anything, locationID).Return([]*model.Meeting{{ID: 1}, {ID: 2}}, nil)
	meetings.On("TypesByMeeting", mock.Anything, []int64{1, 2}).Return(map[int64][]*model.MeetingType{
		1: {speakerType, womenType},
	}, nil)

	s := NewMeetingService(new(MockTransactor)).WithMeetingRepo(meetings)
	res, err := s.ListMeetings(context.Background(), locationID)

	require.Nil(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, []int64{3, 4}, res[0].TypeIDs)
	assert.Empty(t, res[1].TypeIDs)
}

func TestMeetingService_SetMeetingLive(t *testing.T) {
	tests := []struct {
		name      string
		repoErr   error
		errorCode ErrorCode
	}{
		{name: "success"},
		{name: "failure: not found", repoErr: repository.ErrNotFound, errorCode: ErrorCodeNotFound},
		{name: "failure: db error", repoErr: errors.New("db error"), errorCode: ErrorCodeUnspecified},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meetings := new(MockMeetingRepository)
			c := new(MockCache)
			if tt.repoErr != nil {
				meetings.On("SetLive", mock.Anything, int64(1), true).Return(nil, tt.repoErr)
			} else {
				meetings.On("SetLive", mock.Anything, int64(1), true).Return(&model.Meeting{ID: 1, Live: true}, nil)
				meetings.On("GetTypeIDs", mock.Anything, int64(1)).Return([]int64{3}, nil)
				c.On("Flush").Return()
			}

			s := NewMeetingService(new(MockTransactor)).WithMeetingRepo(meetings).WithCache(c)
			meeting, err := s.SetMeetingLive(context.Background(), 1, true)

			if tt.errorCode != "" {
				require.NotNil(t, err)
				assert.Equal(t, tt.errorCode, err.Code)
			} else {
				require.Nil(t, err)
				assert.True(t, meeting.Live)
				assert.Equal(t, []int64{3}, meeting.TypeIDs)
			}
			c.AssertExpectations(t)
		})
	}
}
