package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"concierge/config"
	"concierge/infras/otel/mocks"
	bookingMocks "concierge/internal/domains/booking/mocks"
	categoryMocks "concierge/internal/domains/category/mocks"
	categoryModel "concierge/internal/domains/category/model"
	requestMocks "concierge/internal/domains/request/mocks"
	"concierge/internal/domains/request/model"
	"concierge/internal/domains/request/model/dto"
	"concierge/internal/domains/request/service"
	eventMocks "concierge/internal/domains/requestevent/mocks"
	eventModel "concierge/internal/domains/requestevent/model"
	staffMocks "concierge/internal/domains/staff/mocks"
	staffModel "concierge/internal/domains/staff/model"
	"concierge/permissions"
	feedMocks "concierge/shared/changefeed/mocks"
	gDto "concierge/shared/dto"
	"concierge/shared/failure"
	gModel "concierge/shared/model"
	"concierge/shared/session"
)

const (
	guestID    = "7d9f7a8e-0b7e-4c1e-9a51-1d1f8f0b2a10"
	requestID  = "req-1"
	plumberID  = "plumber-1"
	plumbingID = "cat-plumbing"
)

type fixture struct {
	repo       *requestMocks.MockRequest
	bookings   *bookingMocks.MockBooking
	categories *categoryMocks.MockCategory
	staff      *staffMocks.MockStaff
	events     *eventMocks.MockRequestEvent
	svc        service.Request
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := fixture{
		repo:       requestMocks.NewMockRequest(ctrl),
		bookings:   bookingMocks.NewMockBooking(ctrl),
		categories: categoryMocks.NewMockCategory(ctrl),
		staff:      staffMocks.NewMockStaff(ctrl),
		events:     eventMocks.NewMockRequestEvent(ctrl),
	}

	feed := feedMocks.NewMockFeed(ctrl)
	feed.EXPECT().Publish(gomock.Any(), model.TableName).Return(nil).AnyTimes()

	f.svc = service.New(f.repo, f.bookings, f.categories, f.staff, f.events, feed, &config.Config{}, mocks.NewOtel())

	return f
}

func as(role permissions.Role, id string) context.Context {
	return session.WithIdentity(context.Background(), "sid-"+id, &session.Identity{ID: id, Role: role, IsActive: true})
}

func ptr[T any](v T) *T {
	return &v
}

func stored(status model.Status, assignedTo *string) model.Request {
	return model.Request{
		ID:         requestID,
		GuestID:    guestID,
		Type:       model.TypeComplaint,
		Message:    "The sink is leaking",
		Status:     status,
		Priority:   model.PriorityMedium,
		CategoryID: ptr(plumbingID),
		AssignedTo: assignedTo,
		Metadata:   gModel.Metadata{CreatedAt: time.Now().Add(-time.Hour)},
	}
}

var plumbing = categoryModel.Category{
	ID:           plumbingID,
	Name:         "Plumbing Issues",
	AssignedRole: permissions.RolePlumber,
	Keywords:     pq.StringArray{"leak", "sink", "toilet"},
}

func TestRequestService_Create(t *testing.T) {
	t.Run("defaults and keyword classification", func(t *testing.T) {
		f := newFixture(t)

		f.bookings.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		f.categories.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]categoryModel.Category{plumbing}, nil)
		f.repo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, req model.Request) error {
				assert.Equal(t, model.StatusPending, req.Status)
				assert.Equal(t, model.PriorityMedium, req.Priority)
				assert.Equal(t, model.TypeRequest, req.Type)
				require.NotNil(t, req.CategoryID)
				assert.Equal(t, plumbingID, *req.CategoryID)
				assert.Nil(t, req.AssignedTo)
				assert.Nil(t, req.AssignedAt)
				assert.Nil(t, req.ResolvedAt)

				return nil
			})
		f.events.EXPECT().
			Record(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, event eventModel.Event) error {
				assert.Equal(t, eventModel.TypeCreated, event.Type)
				assert.Equal(t, "system", event.ActorID)

				return nil
			})

		res, err := f.svc.Create(context.Background(), dto.CreateRequestRequest{GuestID: guestID, Message: "My toilet is leaking"})
		require.NoError(t, err)
		assert.Equal(t, model.StatusPending, res.Status)
	})

	t.Run("unknown guest", func(t *testing.T) {
		f := newFixture(t)

		f.bookings.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)

		_, err := f.svc.Create(context.Background(), dto.CreateRequestRequest{GuestID: guestID, Message: "hi"})
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("unknown category", func(t *testing.T) {
		f := newFixture(t)

		f.bookings.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		f.categories.EXPECT().Get(gomock.Any(), gomock.Any()).Return(categoryModel.Category{}, nil)

		_, err := f.svc.Create(context.Background(), dto.CreateRequestRequest{GuestID: guestID, Message: "hi", CategoryID: ptr("missing")})
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("repository error aborts without event", func(t *testing.T) {
		f := newFixture(t)

		f.bookings.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		f.categories.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
		f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errors.New("database error"))

		_, err := f.svc.Create(context.Background(), dto.CreateRequestRequest{GuestID: guestID, Message: "hi"})
		assert.Equal(t, http.StatusInternalServerError, failure.GetCode(err))
	})
}

func TestRequestService_GetAll_Visibility(t *testing.T) {
	tests := []struct {
		name       string
		ctx        context.Context
		wantFilter bool
	}{
		{name: "admin sees everything", ctx: as(permissions.RoleAdmin, "admin-1")},
		{name: "staff see their assignments", ctx: as(permissions.RolePlumber, plumberID), wantFilter: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			params := gDto.QueryParams{Page: 1, Limit: 10}

			check := func(filter gDto.FilterGroup) {
				where, args := filter.GetWhereClause()

				if tt.wantFilter {
					assert.Contains(t, where, "requests.assigned_to = :visible_to")
					assert.Equal(t, plumberID, args["visible_to"])

					return
				}

				assert.NotContains(t, where, "assigned_to")
			}

			f.repo.EXPECT().
				Count(gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, filter gDto.FilterGroup) (int, error) {
					check(filter)

					return 1, nil
				})
			f.repo.EXPECT().
				GetAll(gomock.Any(), params, gomock.Any()).
				DoAndReturn(func(_ context.Context, _ gDto.QueryParams, filter gDto.FilterGroup, _ ...string) ([]model.Request, error) {
					check(filter)

					return []model.Request{stored(model.StatusPending, ptr(plumberID))}, nil
				})

			res, err := f.svc.GetAll(tt.ctx, params, gDto.FilterGroup{})
			require.NoError(t, err)
			assert.Len(t, res.Requests, 1)
		})
	}
}

func TestRequestService_Get_HidesOthersRequests(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(stored(model.StatusPending, ptr("someone-else")), nil)

	_, err := f.svc.Get(as(permissions.RolePlumber, plumberID), requestID)
	assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
}

func TestRequestService_UpdateStatus(t *testing.T) {
	tests := []struct {
		name      string
		ctx       context.Context
		current   model.Request
		next      model.Status
		setupMock func(f fixture)
		wantCode  int
	}{
		{
			name:    "assignee resolves",
			ctx:     as(permissions.RolePlumber, plumberID),
			current: stored(model.StatusInProgress, ptr(plumberID)),
			next:    model.StatusResolved,
			setupMock: func(f fixture) {
				f.repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
						assert.Equal(t, model.StatusResolved, fields[model.FieldStatus])
						assert.IsType(t, time.Time{}, fields[model.FieldResolvedAt])
						assert.Equal(t, plumberID, fields["modified_by"])

						return nil
					})
				f.events.EXPECT().Record(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name:    "admin reopens without clearing resolved_at",
			ctx:     as(permissions.RoleAdmin, "admin-1"),
			current: stored(model.StatusResolved, nil),
			next:    model.StatusPending,
			setupMock: func(f fixture) {
				f.repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
						assert.NotContains(t, fields, model.FieldResolvedAt)

						return nil
					})
				f.events.EXPECT().Record(gomock.Any(), gomock.Any()).Return(errors.New("event store down"))
			},
		},
		{
			name:      "other staff cannot see it",
			ctx:       as(permissions.RolePlumber, plumberID),
			current:   stored(model.StatusPending, ptr("someone-else")),
			next:      model.StatusResolved,
			setupMock: func(fixture) {},
			wantCode:  http.StatusNotFound,
		},
		{
			name:    "repository error surfaces unchanged",
			ctx:     as(permissions.RoleAdmin, "admin-1"),
			current: stored(model.StatusPending, nil),
			next:    model.StatusInProgress,
			setupMock: func(f fixture) {
				f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("database error"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(tt.current, nil)
			tt.setupMock(f)

			err := f.svc.UpdateStatus(tt.ctx, dto.UpdateStatusRequest{Status: tt.next}, requestID)

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestRequestService_UpdateStatus_ViewOnlyIdentityIsForbidden(t *testing.T) {
	f := newFixture(t)

	// an identity that can see the request but holds neither status permission
	ctx := session.WithIdentity(context.Background(), "sid", &session.Identity{ID: plumberID, Role: "guest"})

	f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(stored(model.StatusPending, ptr(plumberID)), nil)

	err := f.svc.UpdateStatus(ctx, dto.UpdateStatusRequest{Status: model.StatusResolved}, requestID)
	assert.Equal(t, http.StatusForbidden, failure.GetCode(err))
}

func TestRequestService_UpdatePriority(t *testing.T) {
	t.Run("admin", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(stored(model.StatusPending, nil), nil)
		f.repo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
				assert.Equal(t, model.PriorityHigh, fields[model.FieldPriority])

				return nil
			})
		f.events.EXPECT().Record(gomock.Any(), gomock.Any()).Return(nil)

		assert.NoError(t, f.svc.UpdatePriority(as(permissions.RoleAdmin, "admin-1"), dto.UpdatePriorityRequest{Priority: model.PriorityHigh}, requestID))
	})

	t.Run("assignee may not", func(t *testing.T) {
		f := newFixture(t)

		err := f.svc.UpdatePriority(as(permissions.RolePlumber, plumberID), dto.UpdatePriorityRequest{Priority: model.PriorityHigh}, requestID)
		assert.Equal(t, http.StatusForbidden, failure.GetCode(err))
	})
}

func TestRequestService_Assign(t *testing.T) {
	admin := as(permissions.RoleAdmin, "admin-1")

	tests := []struct {
		name     string
		current  model.Request
		staff    staffModel.Staff
		wantCode int
	}{
		{
			name:    "reassigning a resolved request reopens it",
			current: stored(model.StatusResolved, ptr("plumber-0")),
			staff:   staffModel.Staff{ID: plumberID, Role: permissions.RolePlumber, IsActive: true},
		},
		{
			name:    "admin is always eligible",
			current: stored(model.StatusPending, nil),
			staff:   staffModel.Staff{ID: "admin-2", Role: permissions.RoleAdmin, IsActive: true},
		},
		{
			name:     "role mismatch",
			current:  stored(model.StatusPending, nil),
			staff:    staffModel.Staff{ID: "waiter-1", Role: permissions.RoleWaiter, IsActive: true},
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "inactive staff",
			current:  stored(model.StatusPending, nil),
			staff:    staffModel.Staff{ID: plumberID, Role: permissions.RolePlumber, IsActive: false},
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "unknown staff",
			current:  stored(model.StatusPending, nil),
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(tt.current, nil)
			f.staff.EXPECT().Get(gomock.Any(), gomock.Any()).Return(tt.staff, nil)
			f.categories.EXPECT().Get(gomock.Any(), gomock.Any()).Return(plumbing, nil).AnyTimes()

			if tt.wantCode == 0 {
				f.repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
						assert.Equal(t, model.StatusInProgress, fields[model.FieldStatus])
						assert.Equal(t, tt.staff.ID, fields[model.FieldAssignedTo])
						assert.IsType(t, time.Time{}, fields[model.FieldAssignedAt])

						return nil
					})
				f.events.EXPECT().
					Record(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, event eventModel.Event) error {
						assert.Equal(t, eventModel.TypeAssigned, event.Type)
						assert.Equal(t, tt.staff.ID, *event.ToValue)

						return nil
					})
			}

			err := f.svc.Assign(admin, dto.AssignRequest{StaffID: tt.staff.ID}, requestID)

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestRequestService_Candidates(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(stored(model.StatusPending, nil), nil)
	f.categories.EXPECT().Get(gomock.Any(), gomock.Any()).Return(plumbing, nil)
	f.staff.EXPECT().ListActive(gomock.Any()).Return([]staffModel.Staff{
		{ID: "admin-1", Name: "Admin User", Role: permissions.RoleAdmin, IsActive: true},
		{ID: plumberID, Name: "Mike Plumber", Role: permissions.RolePlumber, IsActive: true},
		{ID: "waiter-1", Name: "Sarah Waiter", Role: permissions.RoleWaiter, IsActive: true},
	}, nil)

	res, err := f.svc.Candidates(as(permissions.RoleAdmin, "admin-1"), requestID)
	require.NoError(t, err)

	require.Len(t, res, 2)
	assert.Equal(t, "admin-1", res[0].ID)
	assert.Equal(t, plumberID, res[1].ID)
}

func TestRequestService_Events(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(stored(model.StatusPending, ptr(plumberID)), nil)
	f.events.EXPECT().List(gomock.Any(), requestID).Return(nil, nil)

	_, err := f.svc.Events(as(permissions.RolePlumber, plumberID), requestID)
	assert.NoError(t, err)
}
