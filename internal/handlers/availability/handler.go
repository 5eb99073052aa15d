package availability

import (
	"net/http"
	"spacebook/infras/otel"
	"spacebook/internal/domains/availability/model/dto"
	"spacebook/internal/domains/availability/service"
	"spacebook/shared/constant"
	"spacebook/shared/failure"
	"spacebook/shared/validator"
	"spacebook/transport/http/response"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Availability
	otel    otel.Otel
}

func New(service service.Availability, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/spaces/{id}", func(routerGroup chi.Router) {
		routerGroup.Get("/slots", handler.GetSlots)
		routerGroup.Get("/durations", handler.GetDurations)
		routerGroup.Get("/capacity", handler.GetCapacity)
		routerGroup.Get("/quote", handler.GetQuote)
	})
}

// GetSlots lists the start times of a day.
// @Summary Get time slots
// @Description List every start time of the day with its availability. A signed in guest also sees their own bookings as blocking.
// @Tags Availability
// @Produce json
// @Param id path string true "Space ID"
// @Param date query string true "Calendar date (YYYY-MM-DD)"
// @Param granularity query int false "Slot step in minutes"
// @Success 200 {object} response.Data[dto.SlotsResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/spaces/{id}/slots [get]
func (handler *Handler) GetSlots(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetSlots")
	defer scope.End()

	spaceID := chi.URLParam(request, constant.RequestParamID)
	date := request.URL.Query().Get(constant.RequestParamDate)

	if err := validator.ValidateVar(date, "required,datetime=2006-01-02"); err != nil {
		response.WithError(writer, failure.InvalidDateParam)

		return
	}

	granularity := 0
	if raw := request.URL.Query().Get(constant.RequestParamGranularity); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value <= 0 {
			response.WithError(writer, failure.BadRequestFromString("granularity must be a positive number of minutes"))

			return
		}

		granularity = value
	}

	res, err := handler.service.Slots(ctx, spaceID, date, granularity)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("space", spaceID).Str("date", date).Msg("failed to list slots")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}

// GetDurations lists the full-day booking options of a day.
// @Summary Get duration options
// @Description List the booking options of a space that is rented by the day.
// @Tags Availability
// @Produce json
// @Param id path string true "Space ID"
// @Param date query string true "Calendar date (YYYY-MM-DD)"
// @Success 200 {object} response.Data[dto.DurationsResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/spaces/{id}/durations [get]
func (handler *Handler) GetDurations(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetDurations")
	defer scope.End()

	spaceID := chi.URLParam(request, constant.RequestParamID)
	date := request.URL.Query().Get(constant.RequestParamDate)

	if err := validator.ValidateVar(date, "required,datetime=2006-01-02"); err != nil {
		response.WithError(writer, failure.InvalidDateParam)

		return
	}

	res, err := handler.service.Durations(ctx, spaceID, date)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("space", spaceID).Str("date", date).Msg("failed to list durations")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}

// GetCapacity reports the spots left for a time range.
// @Summary Get remaining capacity
// @Tags Availability
// @Produce json
// @Param id path string true "Space ID"
// @Param date query string true "Calendar date (YYYY-MM-DD)"
// @Param start_time query string true "Start time (HH:MM)"
// @Param end_time query string true "End time (HH:MM)"
// @Success 200 {object} response.Data[dto.CapacityResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/spaces/{id}/capacity [get]
func (handler *Handler) GetCapacity(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetCapacity")
	defer scope.End()

	spaceID := chi.URLParam(request, constant.RequestParamID)
	query := request.URL.Query()

	req := dto.CapacityRequest{
		Date:      query.Get(constant.RequestParamDate),
		StartTime: query.Get(constant.RequestParamStartTime),
		EndTime:   query.Get(constant.RequestParamEndTime),
	}

	if err := validator.ValidateStruct(&req); err != nil {
		response.WithError(writer, err)

		return
	}

	res, err := handler.service.Capacity(ctx, spaceID, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("space", spaceID).Msg("failed to compute capacity")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}

// GetQuote prices a time range.
// @Summary Get price quote
// @Tags Availability
// @Produce json
// @Param id path string true "Space ID"
// @Param start_time query string true "Start time (HH:MM)"
// @Param end_time query string true "End time (HH:MM)"
// @Param guests_count query int false "Number of guests"
// @Success 200 {object} response.Data[dto.QuoteResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/spaces/{id}/quote [get]
func (handler *Handler) GetQuote(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetQuote")
	defer scope.End()

	spaceID := chi.URLParam(request, constant.RequestParamID)
	query := request.URL.Query()

	req := dto.QuoteRequest{
		StartTime: query.Get(constant.RequestParamStartTime),
		EndTime:   query.Get(constant.RequestParamEndTime),
	}

	if raw := query.Get(constant.RequestParamGuestsCount); raw != "" {
		guests, err := strconv.Atoi(raw)
		if err != nil {
			response.WithError(writer, failure.BadRequestFromString("guests_count must be a number"))

			return
		}

		req.GuestsCount = guests
	}

	if err := validator.ValidateStruct(&req); err != nil {
		response.WithError(writer, err)

		return
	}

	res, err := handler.service.Quote(ctx, spaceID, req)
	if err != nil {
		scope.TraceError(err)

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}
