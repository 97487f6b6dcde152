package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/yakoovad/meeting-guide/internal/model"
	"github.com/yakoovad/meeting-guide/internal/repository"
)

func TestMeetingTypeService(t *testing.T) {
	tests := []struct {
		name       string
		run        func(*MeetingTypeService) *Error
		setupMocks func(*MockMeetingTypeRepository, *MockCache)
		errorCode  ErrorCode
	}{
		{
			name: "create flushes cache",
			run: func(s *MeetingTypeService) *Error {
				return s.CreateMeetingType(context.Background(), &model.MeetingType{
					TypeName: "Speaker", IntergroupCode: ptr("SP"), SpecCode: ptr("SP"), DisplayOrder: model.DefaultDisplayOrder,
				})
			},
			setupMocks: func(r *MockMeetingTypeRepository, c *MockCache) {
				r.On("Create", mock.Anything, mock.Anything).Return(nil)
				c.On("Flush").Return()
			},
		},
		{
			name: "create rejects long spec code",
			run: func(s *MeetingTypeService) *Error {
				return s.CreateMeetingType(context.Background(), &model.MeetingType{TypeName: "Speaker", SpecCode: ptr("SPEAKER")})
			},
			setupMocks: func(r *MockMeetingTypeRepository, c *MockCache) {},
			errorCode:  ErrorCodeValidationFailed,
		},
		{
			name: "update missing type",
			run: func(s *MeetingTypeService) *Error {
				return s.UpdateMeetingType(context.Background(), &model.MeetingType{ID: 9, TypeName: "Speaker"})
			},
			setupMocks: func(r *MockMeetingTypeRepository, c *MockCache) {
				r.On("Update", mock.Anything, mock.Anything).Return(repository.ErrNotFound)
			},
			errorCode: ErrorCodeNotFound,
		},
		{
			name: "delete",
			run: func(s *MeetingTypeService) *Error {
				return s.DeleteMeetingType(context.Background(), 4)
			},
			setupMocks: func(r *MockMeetingTypeRepository, c *MockCache) {
				r.On("Delete", mock.Anything, int64(4)).Return(nil)
				c.On("Flush").Return()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockMeetingTypeRepository)
			c := new(MockCache)
			tt.setupMocks(repo, c)

			s := NewMeetingTypeService(new(MockTransactor)).WithMeetingTypeRepo(repo).WithCache(c)
			err := tt.run(s)

			if tt.errorCode != "" {
				require.NotNil(t, err)
				assert.Equal(t, tt.errorCode, err.Code)
			} else {
				assert.Nil(t, err)
			}
			repo.AssertExpectations(t)
			c.AssertExpectations(t)
		})
	}
}
