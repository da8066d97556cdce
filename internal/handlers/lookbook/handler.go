package lookbook

import (
	"net/http"
	"stylebook/infras/otel"
	"stylebook/internal/domains/gallery/model"
	"stylebook/internal/domains/gallery/model/dto"
	"stylebook/internal/domains/gallery/service"
	"stylebook/shared"
	"stylebook/shared/constant"
	gDto "stylebook/shared/dto"
	"stylebook/shared/validator"
	"stylebook/transport/http/middleware"
	"stylebook/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

type Handler struct {
	service    service.Lookbook
	middleware middleware.AuthRole
	otel       otel.Otel
}

func New(service service.Lookbook, middleware middleware.AuthRole, otel otel.Otel) Handler {
	return Handler{
		service:    service,
		middleware: middleware,
		otel:       otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/lookbook", func(routerGroup chi.Router) {
		routerGroup.Use(handler.middleware.Auth)
		routerGroup.Use(handler.middleware.RequireRole(constant.RoleOwner, constant.RoleAdmin))

		routerGroup.Post("/", handler.CreateStyle)
		routerGroup.Get("/", handler.GetStyles)
		routerGroup.Get("/{id}", handler.GetStyleByID)
		routerGroup.Patch("/{id}", handler.UpdateStyle)
		routerGroup.Delete("/{id}", handler.DeleteStyle)
		routerGroup.Post("/upload", handler.UploadImage)
		routerGroup.Delete("/images", handler.DeleteImages)
	})
}

// CreateStyle adds a style to the lookbook.
// @Summary Create a new lookbook style
// @Description Create a new lookbook style with the provided details.
// @Tags Lookbook
// @Accept json
// @Produce json
// @Param request body dto.CreateStyleRequest true "Create Style Request"
// @Success 201 {object} response.Message "Style created successfully"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/lookbook [post]
// @Security BearerAuth
func (handler *Handler) CreateStyle(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateStyle")
	defer scope.End()

	req := dto.CreateStyleRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	if err := handler.service.Create(ctx, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create style")

		response.WithError(writer, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Style created successfully by user " + user)

	response.WithMessage(writer, http.StatusCreated, "Style created successfully")
}

// GetStyles lists lookbook styles for the admin area.
// @Summary Get all lookbook styles
// @Description Retrieve lookbook styles with optional filtering and pagination.
// @Tags Lookbook
// @Produce json
// @Param style_name query string false "Filter by style name"
// @Param featured query boolean false "Filter by featured flag"
// @Success 200 {object} dto.GetStylesResponse "List of styles"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/lookbook [get]
// @Security BearerAuth
func (handler *Handler) GetStyles(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetStyles")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	styleName := r.URL.Query().Get(model.FieldStyleName)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldStyleName,
				Operator: gDto.FilterOperatorLike,
				Value:    styleName,
				Table:    model.TableName,
			},
		},
	}

	if featured := shared.ConvertStringToBool(r.URL.Query().Get(model.FieldFeatured)); featured != nil {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldFeatured,
			Operator: gDto.FilterOperatorEq,
			Value:    *featured,
			Table:    model.TableName,
		})
	}

	styles, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get styles")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, styles)
}

// GetStyleByID retrieves one lookbook style.
// @Summary Get a lookbook style by ID
// @Description Retrieve a lookbook style by its unique identifier.
// @Tags Lookbook
// @Produce json
// @Param id path string true "Style ID"
// @Success 200 {object} dto.StyleResponse "Style details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/lookbook/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetStyleByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetStyleByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	res, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get style by ID")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// UpdateStyle updates an existing lookbook style.
// @Summary Update a lookbook style by ID
// @Description Update the details of an existing lookbook style.
// @Tags Lookbook
// @Accept json
// @Produce json
// @Param id path string true "Style ID"
// @Param request body dto.UpdateStyleRequest true "Update Style Request"
// @Success 200 {object} response.Message "Style updated successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/lookbook/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateStyle(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateStyle")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.UpdateStyleRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Update(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update style")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Style updated successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Style updated successfully")
}

// DeleteStyle removes a style from the lookbook.
// @Summary Delete a lookbook style by ID
// @Description Delete a lookbook style using its unique identifier.
// @Tags Lookbook
// @Produce json
// @Param id path string true "Style ID"
// @Success 200 {object} response.Message "Style deleted successfully"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/lookbook/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteStyle(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteStyle")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete style")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Style deleted successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Style deleted successfully")
}

// UploadImage stores a lookbook image in object storage.
// @Summary Upload a lookbook image
// @Description Upload an image file and receive its public URL.
// @Tags Lookbook
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Image file"
// @Success 200 {object} dto.UploadImageResponse "Uploaded image details"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/lookbook/upload [post]
// @Security BearerAuth
func (handler *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UploadImage")
	defer scope.End()

	if err := r.ParseMultipartForm(constant.RequestMaxMemory); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to parse multipart form")

		response.WithError(w, err)

		return
	}

	file, fileHeader, err := r.FormFile(constant.FormFile)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get file from form")

		response.WithError(w, err)

		return
	}
	defer file.Close()

	req := dto.UploadImageRequest{
		Image:     fileHeader,
		ImageFile: file,
	}

	res, err := handler.service.UploadImage(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to upload file")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Image uploaded successfully by user " + user)

	response.WithJSON(w, http.StatusOK, res)
}

// DeleteImages removes images from object storage.
// @Summary Delete lookbook images
// @Description Delete multiple images from storage by providing their URLs.
// @Tags Lookbook
// @Accept json
// @Produce json
// @Param request body dto.DeleteImagesRequest true "Delete Images Request"
// @Success 200 {object} response.Message "Images deleted successfully"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/lookbook/images [delete]
// @Security BearerAuth
func (handler *Handler) DeleteImages(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteImages")
	defer scope.End()

	req := dto.DeleteImagesRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.DeleteImagesFromS3(ctx, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete images")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Images deleted successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Images deleted successfully")
}
