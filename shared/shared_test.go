package shared_test

import (
	"concierge/shared"
	"concierge/shared/cache/mocks"
	"concierge/shared/constant"
	"concierge/shared/dto"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func boolPtr(b bool) *bool {
	return &b
}

func TestConvertStringToBool(t *testing.T) {
	tests := []struct {
		input    string
		expected *bool
	}{
		{input: "", expected: nil},
		{input: "true", expected: boolPtr(true)},
		{input: "0", expected: boolPtr(false)},
		{input: "maybe", expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, shared.ConvertStringToBool(tt.input))
		})
	}
}

func TestCalculateTotalPage(t *testing.T) {
	assert.Equal(t, 1, shared.CalculateTotalPage(0, 10))
	assert.Equal(t, 1, shared.CalculateTotalPage(10, 0))
	assert.Equal(t, 3, shared.CalculateTotalPage(21, 10))
	assert.Equal(t, 2, shared.CalculateTotalPage(20, 10))
}

func TestTransformFields(t *testing.T) {
	type patch struct {
		Name     string `db:"name"`
		IsActive *bool  `db:"is_active"`
		Ignored  string
		Role     string `db:"role"`
	}

	fields := shared.TransformFields(patch{Name: "Lisa", IsActive: boolPtr(false), Ignored: "x"}, "admin-id")

	assert.Equal(t, "Lisa", fields["name"])
	assert.Equal(t, false, fields["is_active"])
	assert.NotContains(t, fields, "role")
	assert.Equal(t, "admin-id", fields[constant.FieldModifiedBy])
	assert.Contains(t, fields, constant.FieldModifiedAt)
}

func TestFilterByID(t *testing.T) {
	group := shared.FilterByID("42", "id", "bookings")

	where, args := group.GetWhereClause()
	assert.Equal(t, "(bookings.id = :id)", where)
	assert.Equal(t, "42", args["id"])
}

func TestBuildCacheKey(t *testing.T) {
	assert.Equal(t, "booking:get:42", shared.BuildCacheKey("booking:get", "42"))
	assert.Equal(t, "category:gets", shared.BuildCacheKey("category:gets"))
}

func TestBuildCacheKeyWithQuery(t *testing.T) {
	params := dto.QueryParams{Page: 1, Limit: 10}
	first := shared.BuildCacheKeyWithQuery("staff:gets", params, dto.SearchFilter("lisa", "staff_users", "name"))
	again := shared.BuildCacheKeyWithQuery("staff:gets", params, dto.SearchFilter("lisa", "staff_users", "name"))
	other := shared.BuildCacheKeyWithQuery("staff:gets", params, dto.SearchFilter("tom", "staff_users", "name"))

	assert.Equal(t, first, again)
	assert.NotEqual(t, first, other)
	assert.True(t, strings.HasPrefix(first, "staff:gets:"))
}

func TestInvalidateCaches(t *testing.T) {
	ctrl := gomock.NewController(t)
	redisCache := mocks.NewMockRedisCache(ctrl)

	redisCache.EXPECT().Clear(gomock.Any(), "staff:gets:*").Return(nil)
	redisCache.EXPECT().Clear(gomock.Any(), "staff:count:*").Return(errors.New("redis down"))

	shared.InvalidateCaches(context.Background(), redisCache, "staff:gets")
	shared.InvalidateCaches(context.Background(), redisCache, "staff:count")
}

func TestFingerprint(t *testing.T) {
	key := shared.Fingerprint("voice-assistant-secret")

	assert.Len(t, key, 16)
	assert.Equal(t, key, shared.Fingerprint("voice-assistant-secret"))
	assert.NotContains(t, key, "secret")
	assert.NotEqual(t, key, shared.Fingerprint("Mozilla/5.0"))
}
