package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/jmoiron/sqlx/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"spacebook/config"
	"spacebook/infras/otel/mocks"
	"spacebook/internal/domains/availability/engine"
	spaceMocks "spacebook/internal/domains/space/mocks"
	"spacebook/internal/domains/space/model"
	"spacebook/internal/domains/space/model/dto"
	"spacebook/internal/domains/space/service"
	cacheMocks "spacebook/shared/cache/mocks"
	"spacebook/shared/failure"
)

func newService(ctrl *gomock.Controller) (service.Space, *spaceMocks.MockSpace, *spaceMocks.MockException, *cacheMocks.MockRedisCache) {
	repo := spaceMocks.NewMockSpace(ctrl)
	exceptionRepo := spaceMocks.NewMockException(ctrl)
	cache := cacheMocks.NewMockRedisCache(ctrl)

	cfg := &config.Config{}
	cfg.Cache.TTL = 60

	return service.New(repo, exceptionRepo, cfg, cache, mocks.NewOtel()), repo, exceptionRepo, cache
}

func TestSpaceService_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, repo, _, cache := newService(ctrl)

	tests := []struct {
		name      string
		setupMock func()
		wantErr   bool
		wantCode  int
		wantName  string
	}{
		{
			name: "cache hit",
			setupMock: func() {
				cache.EXPECT().
					Get(gomock.Any(), "space:get:space-1", gomock.Any()).
					DoAndReturn(func(_ context.Context, _ string, value any) error {
						res, _ := value.(*dto.SpaceResponse)
						res.ID = "space-1"
						res.Name = "Cached loft"

						return nil
					})
			},
			wantName: "Cached loft",
		},
		{
			name: "cache miss loads from repository",
			setupMock: func() {
				cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss"))
				repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Space{ID: "space-1", Name: "Loft", Schedule: types.JSONText(`{}`)}, nil)
				cache.EXPECT().Save(gomock.Any(), "space:get:space-1", gomock.Any(), 60*time.Second).Return(nil).AnyTimes()
			},
			wantName: "Loft",
		},
		{
			name: "not found",
			setupMock: func() {
				cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss"))
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Space{}, nil)
			},
			wantErr:  true,
			wantCode: http.StatusNotFound,
		},
		{
			name: "repository error",
			setupMock: func() {
				cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss"))
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Space{}, errors.New("database error"))
			},
			wantErr:  true,
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			res, err := svc.Get(context.Background(), "space-1")

			time.Sleep(10 * time.Millisecond)

			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantName, res.Name)
		})
	}
}

func TestSpaceService_Exceptions(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _, exceptionRepo, cache := newService(ctrl)

	cache.EXPECT().Get(gomock.Any(), "space:exceptions:space-1:2030-03-04", gomock.Any()).Return(errors.New("cache miss"))
	exceptionRepo.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]model.Exception{{ID: "ex", Date: time.Date(2030, 3, 4, 0, 0, 0, 0, time.UTC), Enabled: false}}, nil)
	cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	res, err := svc.Exceptions(context.Background(), "space-1", "2030-03-04")

	time.Sleep(10 * time.Millisecond)

	require.NoError(t, err)
	assert.Equal(t, []engine.Exception{{Date: "2030-03-04", Enabled: false}}, res)
}

func TestSpaceService_ExceptionsError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _, exceptionRepo, cache := newService(ctrl)

	cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss"))
	exceptionRepo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("database error"))

	_, err := svc.Exceptions(context.Background(), "space-1", "2030-03-04")
	assert.Error(t, err)
}
