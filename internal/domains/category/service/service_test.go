package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"concierge/config"
	"concierge/infras/otel/mocks"
	categoryMocks "concierge/internal/domains/category/mocks"
	"concierge/internal/domains/category/model"
	"concierge/internal/domains/category/service"
	"concierge/permissions"
	cacheMocks "concierge/shared/cache/mocks"
	gDto "concierge/shared/dto"
	"concierge/shared/failure"
)

func TestCategoryService_GetAll(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockRepo := categoryMocks.NewMockCategory(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(mockRepo, cfg, mockCache, mocks.NewOtel())
	params := gDto.QueryParams{Page: 1, Limit: 10}

	mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss"))
	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), 3600).Return(nil).AnyTimes()
	mockRepo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(1, nil)
	mockRepo.EXPECT().GetAll(gomock.Any(), params, gomock.Any()).Return([]model.Category{
		{
			ID:           "c1",
			Name:         "Plumbing Issues",
			AssignedRole: permissions.RolePlumber,
			Keywords:     pq.StringArray{"leak", "toilet"},
		},
	}, nil)

	res, err := svc.GetAll(context.Background(), params)
	require.NoError(t, err)
	require.Len(t, res.Categories, 1)
	assert.Equal(t, permissions.RolePlumber, res.Categories[0].AssignedRole)
	assert.Equal(t, []string{"leak", "toilet"}, res.Categories[0].Keywords)
}

func TestCategoryService_Get(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(repo *categoryMocks.MockCategory, cache *cacheMocks.MockRedisCache)
		wantCode  int
	}{
		{
			name: "cache hit skips repository",
			setupMock: func(_ *categoryMocks.MockCategory, cache *cacheMocks.MockRedisCache) {
				cache.EXPECT().Get(gomock.Any(), "category:get:c1", gomock.Any()).Return(nil)
			},
		},
		{
			name: "not found",
			setupMock: func(repo *categoryMocks.MockCategory, cache *cacheMocks.MockRedisCache) {
				cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss"))
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Category{}, nil)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name: "repository error",
			setupMock: func(repo *categoryMocks.MockCategory, cache *cacheMocks.MockRedisCache) {
				cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss"))
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Category{}, errors.New("database error"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)

			mockRepo := categoryMocks.NewMockCategory(ctrl)
			mockCache := cacheMocks.NewMockRedisCache(ctrl)
			tt.setupMock(mockRepo, mockCache)

			svc := service.New(mockRepo, &config.Config{}, mockCache, mocks.NewOtel())

			_, err := svc.Get(context.Background(), "c1")

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
		})
	}
}
