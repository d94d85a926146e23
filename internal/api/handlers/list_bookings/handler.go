package list_bookings

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/SMC-BanquetService/internal/api/handlers"
	"github.com/m04kA/SMC-BanquetService/internal/service/bookings"
	"github.com/m04kA/SMC-BanquetService/internal/service/bookings/models"
	"github.com/m04kA/SMC-BanquetService/pkg/types"
)

const (
	msgInvalidPaging = "limit и offset должны быть неотрицательными целыми числами"
	msgInvalidDate   = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidStatus = "неизвестный статус бронирования"
)

type Handler struct {
	service BookingService
	loc     *time.Location
	logger  Logger
}

func NewHandler(service BookingService, loc *time.Location, logger Logger) *Handler {
	return &Handler{
		service: service,
		loc:     loc,
		logger:  logger,
	}
}

// Handle GET /api/v1/bookings?status=&date=&venue=&limit=&offset=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	req := &models.ListBookingsRequest{
		Status: handlers.QueryString(r, "status"),
		Venue:  handlers.QueryString(r, "venue"),
	}

	if raw := handlers.QueryString(r, "date"); raw != nil {
		date, err := types.ParseDate(*raw, h.loc)
		if err != nil {
			h.logger.Warn("GET /bookings - Invalid date %q: %v", *raw, err)
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		req.Date = &date
	}

	var err error
	if req.Limit, err = handlers.QueryUint(r, "limit"); err != nil {
		handlers.RespondBadRequest(w, msgInvalidPaging)
		return
	}
	if req.Offset, err = handlers.QueryUint(r, "offset"); err != nil {
		handlers.RespondBadRequest(w, msgInvalidPaging)
		return
	}

	resp, err := h.service.List(r.Context(), req)
	if err != nil {
		if errors.Is(err, bookings.ErrInvalidInput) {
			h.logger.Warn("GET /bookings - Invalid filter: %v", err)
			handlers.RespondBadRequest(w, msgInvalidStatus)
			return
		}
		h.logger.Error("GET /bookings - Failed to list bookings: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}
