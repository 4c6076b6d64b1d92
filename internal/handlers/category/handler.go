package category

import (
	"concierge/infras/otel"
	"concierge/internal/domains/category/model"
	"concierge/internal/domains/category/service"
	"concierge/shared/constant"
	gDto "concierge/shared/dto"
	"concierge/shared/validator"
	"concierge/transport/http/response"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Category
	otel    otel.Otel
}

func New(service service.Category, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/categories", func(routerGroup chi.Router) {
		routerGroup.Get("/", handler.GetCategories)
		routerGroup.Get("/{id}", handler.GetCategoryByID)
	})
}

// GetCategories lists the request categories.
// @Summary Get all request categories
// @Description Each category names the role that handles it and the keywords used to classify incoming requests.
// @Tags Category
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[dto.GetCategoriesResponse] "List of categories"
// @Failure 500 {object} response.Error
// @Router /v1/categories [get]
// @Security BearerAuth
// @Security ApiKeyAuth
func (handler *Handler) GetCategories(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetCategories")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)
	queryParams.RestrictSort(model.FieldName, constant.FieldCreatedAt)

	categories, err := handler.service.GetAll(ctx, queryParams)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get categories")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, categories)
}

// GetCategoryByID retrieves a request category by its ID.
// @Summary Get a request category by ID
// @Tags Category
// @Produce json
// @Param id path string true "Category ID"
// @Success 200 {object} response.Data[dto.CategoryResponse] "Category details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/categories/{id} [get]
// @Security BearerAuth
// @Security ApiKeyAuth
func (handler *Handler) GetCategoryByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetCategoryByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := validator.ValidateID(id); err != nil {
		response.WithError(w, err)

		return
	}

	category, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get category by ID")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, category)
}
