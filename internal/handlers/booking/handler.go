package booking

import (
	"net/http"
	"spacebook/infras/otel"
	"spacebook/internal/domains/booking/model"
	"spacebook/internal/domains/booking/model/dto"
	"spacebook/internal/domains/booking/service"
	"spacebook/shared/constant"
	gDto "spacebook/shared/dto"
	"spacebook/shared/validator"
	"spacebook/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Booking
	otel    otel.Otel
}

func New(service service.Booking, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/reservations", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.Claim)
		routerGroup.Get("/mine", handler.GetMine)
		routerGroup.Get("/{id}", handler.GetByID)
		routerGroup.Post("/{id}/payment", handler.InitiatePayment)
		routerGroup.Get("/{id}/payment", handler.SyncPayment)
	})
}

// claimStatus maps a rejected claim to the status code sent with its body.
func claimStatus(res dto.ClaimResponse) int {
	if res.Success {
		return http.StatusCreated
	}

	switch res.ErrorCode {
	case model.ErrorCodeConflict:
		return http.StatusConflict
	case model.ErrorCodeInsufficientCapacity:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// Claim reserves a time range for the signed in guest.
// @Summary Claim a time range
// @Description Atomically reserve a range. Rejections keep the claim body and carry an error_code of CONFLICT, INSUFFICIENT_CAPACITY or INSERT_FAILED.
// @Tags Reservation
// @Accept json
// @Produce json
// @Param request body dto.ClaimRequest true "Claim Request"
// @Success 201 {object} response.Data[dto.ClaimResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Data[dto.ClaimResponse]
// @Failure 422 {object} response.Data[dto.ClaimResponse]
// @Failure 500 {object} response.Data[dto.ClaimResponse]
// @Router /v1/reservations [post]
// @Security BearerAuth
func (handler *Handler) Claim(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Claim")
	defer scope.End()

	req := dto.ClaimRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate claim body")

		response.WithError(writer, err)

		return
	}

	res, err := handler.service.Claim(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("space", req.SpaceID).Msg("failed to claim range")

		response.WithError(writer, err)

		return
	}

	if res.Success {
		user, _ := ctx.Value(constant.ContextKeyUserID).(string)
		scope.AddEvent("Range claimed by user " + user)
	} else {
		scope.SetAttribute("claim.error_code", res.ErrorCode)
	}

	response.WithJSON(writer, claimStatus(res), res)
}

// GetMine lists the signed in guest's reservations.
// @Summary Get my reservations
// @Tags Reservation
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[dto.GetBookingsResponse]
// @Failure 401 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reservations/mine [get]
// @Security BearerAuth
func (handler *Handler) GetMine(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMine")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(request, gDto.DefaultQueryParams())

	if err := validator.ValidateStruct(&queryParams); err != nil {
		response.WithError(writer, err)

		return
	}

	res, err := handler.service.GetMine(ctx, queryParams)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to list reservations")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}

// GetByID returns one of the guest's reservations.
// @Summary Get reservation
// @Tags Reservation
// @Produce json
// @Param id path string true "Reservation ID"
// @Success 200 {object} response.Data[dto.BookingResponse]
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/reservations/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetByID(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetByID")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	res, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}

// InitiatePayment opens a checkout session for a reservation awaiting payment.
// @Summary Start payment
// @Tags Reservation
// @Produce json
// @Param id path string true "Reservation ID"
// @Success 201 {object} response.Data[dto.PaymentResponse]
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reservations/{id}/payment [post]
// @Security BearerAuth
func (handler *Handler) InitiatePayment(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".InitiatePayment")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	res, err := handler.service.InitiatePayment(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("booking", id).Msg("failed to initiate payment")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Checkout session created for booking " + id)

	response.WithJSON(writer, http.StatusCreated, res)
}

// SyncPayment checks the checkout session and confirms the reservation once paid.
// @Summary Check payment
// @Tags Reservation
// @Produce json
// @Param id path string true "Reservation ID"
// @Success 200 {object} response.Data[dto.PaymentResponse]
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reservations/{id}/payment [get]
// @Security BearerAuth
func (handler *Handler) SyncPayment(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".SyncPayment")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	res, err := handler.service.SyncPayment(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("booking", id).Msg("failed to sync payment")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}
