package request

import (
	"concierge/infras/otel"
	"concierge/internal/domains/request/model"
	"concierge/internal/domains/request/model/dto"
	"concierge/internal/domains/request/service"
	"concierge/shared/constant"
	gDto "concierge/shared/dto"
	"concierge/shared/validator"
	"concierge/transport/http/response"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// listFilters are the query parameters that narrow GET /requests by exact match.
var listFilters = []string{
	model.FieldStatus,
	model.FieldType,
	model.FieldPriority,
	model.FieldCategoryID,
	model.FieldAssignedTo,
	model.FieldGuestID,
}

type Handler struct {
	service service.Request
	otel    otel.Otel
}

func New(service service.Request, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/requests", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateRequest)
		routerGroup.Get("/", handler.GetRequests)
		routerGroup.Get("/{id}", handler.GetRequestByID)
		routerGroup.Patch("/{id}/status", handler.UpdateRequestStatus)
		routerGroup.Patch("/{id}/priority", handler.UpdateRequestPriority)
		routerGroup.Post("/{id}/assign", handler.AssignRequest)
		routerGroup.Get("/{id}/candidates", handler.GetCandidates)
		routerGroup.Get("/{id}/events", handler.GetEvents)
	})
}

// CreateRequest files a guest request or complaint.
// @Summary File a guest request
// @Description Used by the voice front end. Without a category the message is classified by keyword.
// @Tags Request
// @Accept json
// @Produce json
// @Param request body dto.CreateRequestRequest true "Create Request"
// @Success 201 {object} response.Data[dto.RequestResponse] "Created request"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/requests [post]
// @Security BearerAuth
// @Security ApiKeyAuth
func (handler *Handler) CreateRequest(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateRequest")
	defer scope.End()

	req := dto.CreateRequestRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	created, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create request")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Request created successfully")

	response.WithJSON(writer, http.StatusCreated, created)
}

// GetRequests lists the requests visible to the caller.
// @Summary Get requests
// @Description Managers see every request. Other staff only see requests assigned to them.
// @Tags Request
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param q query string false "Search the message, guest name or room number"
// @Param status query string false "Filter by status (pending, in_progress, resolved)"
// @Param type query string false "Filter by type (request, complaint)"
// @Param priority query string false "Filter by priority (low, medium, high)"
// @Param category_id query string false "Filter by category"
// @Param assigned_to query string false "Filter by assignee"
// @Param guest_id query string false "Filter by guest"
// @Success 200 {object} response.Data[dto.GetRequestsResponse] "List of requests"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/requests [get]
// @Security BearerAuth
func (handler *Handler) GetRequests(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetRequests")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)
	queryParams.RestrictSort(constant.FieldCreatedAt, model.FieldStatus, model.FieldPriority, model.FieldResolvedAt)

	query := r.URL.Query()

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			dto.SearchFilter(query.Get(constant.RequestParamSearch)),
		},
	}

	for _, field := range listFilters {
		if value := query.Get(field); value != "" {
			filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
				Field:    field,
				Operator: gDto.FilterOperatorEq,
				Value:    value,
				Table:    model.TableName,
			})
		}
	}

	requests, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get requests")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, requests)
}

// GetRequestByID retrieves a request by its ID.
// @Summary Get a request by ID
// @Description Requests the caller may not see answer 404.
// @Tags Request
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} response.Data[dto.RequestResponse] "Request details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/requests/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetRequestByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetRequestByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := validator.ValidateID(id); err != nil {
		response.WithError(w, err)

		return
	}

	req, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get request by ID")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, req)
}

// UpdateRequestStatus moves a request to another status.
// @Summary Update request status
// @Description Managers may update any request, assignees only their own. Resolving stamps the resolution time.
// @Tags Request
// @Accept json
// @Produce json
// @Param id path string true "Request ID"
// @Param request body dto.UpdateStatusRequest true "Status"
// @Success 200 {object} response.Message "Request status updated successfully"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/requests/{id}/status [patch]
// @Security BearerAuth
func (handler *Handler) UpdateRequestStatus(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateRequestStatus")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := validator.ValidateID(id); err != nil {
		response.WithError(w, err)

		return
	}

	req := dto.UpdateStatusRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.UpdateStatus(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update request status")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Request status updated to " + string(req.Status))

	response.WithMessage(w, http.StatusOK, "Request status updated successfully")
}

// UpdateRequestPriority changes the priority of a request.
// @Summary Update request priority
// @Tags Request
// @Accept json
// @Produce json
// @Param id path string true "Request ID"
// @Param request body dto.UpdatePriorityRequest true "Priority"
// @Success 200 {object} response.Message "Request priority updated successfully"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/requests/{id}/priority [patch]
// @Security BearerAuth
func (handler *Handler) UpdateRequestPriority(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateRequestPriority")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := validator.ValidateID(id); err != nil {
		response.WithError(w, err)

		return
	}

	req := dto.UpdatePriorityRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.UpdatePriority(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update request priority")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Request priority updated successfully")
}

// AssignRequest hands a request to a staff member.
// @Summary Assign a request
// @Description The assignee must be an active staff member whose role handles the category, or an admin. Assigning always moves the request to in_progress.
// @Tags Request
// @Accept json
// @Produce json
// @Param id path string true "Request ID"
// @Param request body dto.AssignRequest true "Assignee"
// @Success 200 {object} response.Message "Request assigned successfully"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/requests/{id}/assign [post]
// @Security BearerAuth
func (handler *Handler) AssignRequest(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".AssignRequest")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := validator.ValidateID(id); err != nil {
		response.WithError(w, err)

		return
	}

	req := dto.AssignRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Assign(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to assign request")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Request assigned to " + req.StaffID)

	response.WithMessage(w, http.StatusOK, "Request assigned successfully")
}

// GetCandidates lists who a request may be assigned to.
// @Summary Get assignment candidates
// @Tags Request
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} response.Data[[]dto.CandidateResponse] "Eligible staff"
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/requests/{id}/candidates [get]
// @Security BearerAuth
func (handler *Handler) GetCandidates(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetCandidates")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := validator.ValidateID(id); err != nil {
		response.WithError(w, err)

		return
	}

	candidates, err := handler.service.Candidates(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get assignment candidates")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, candidates)
}

// GetEvents returns the audit trail of a request.
// @Summary Get request history
// @Description Lifecycle events of the request, oldest first.
// @Tags Request
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} response.Data[[]eventDto.EventResponse] "Events"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/requests/{id}/events [get]
// @Security BearerAuth
func (handler *Handler) GetEvents(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetEvents")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := validator.ValidateID(id); err != nil {
		response.WithError(w, err)

		return
	}

	events, err := handler.service.Events(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get request events")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, events)
}
