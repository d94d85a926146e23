package create_booking

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/SMC-BanquetService/internal/api/handlers"
	"github.com/m04kA/SMC-BanquetService/internal/api/middleware"
	bookingModels "github.com/m04kA/SMC-BanquetService/internal/service/bookings/models"
	createBooking "github.com/m04kA/SMC-BanquetService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgUnauthorized        = "требуется аутентификация"
	msgEnquiryNotFound     = "заявка не найдена"
	msgEnquiryNotConverted = "бронирование создается только из заявки в статусе converted"
)

type Handler struct {
	useCase CreateBookingUseCase
	loc     *time.Location
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, loc *time.Location, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		loc:     loc,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Конвертируем HTTP запрос в модель use case (с парсингом дат сессий)
	useCaseReq, err := req.ToUseCaseRequest(userID, h.loc)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse sessions: %v", err)
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	// Вызываем use case
	booking, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		if conflictErr, ok := handlers.AsConflict(err); ok {
			h.logger.Warn("POST /bookings - Venue conflict: user_id=%d, conflicts=%d", userID, len(conflictErr.Conflicts))
			handlers.RespondConflict(w, conflictErr)
			return
		}
		switch {
		case errors.Is(err, createBooking.ErrEnquiryNotFound):
			h.logger.Warn("POST /bookings - Enquiry not found: enquiry_id=%v", req.EnquiryID)
			handlers.RespondNotFound(w, msgEnquiryNotFound)

		case errors.Is(err, createBooking.ErrEnquiryNotConverted):
			h.logger.Warn("POST /bookings - Enquiry not converted: %v", err)
			handlers.RespondUnprocessable(w, msgEnquiryNotConverted)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Validation failed: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("POST /bookings - Failed to create booking: user_id=%d, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created: booking_id=%d, number=%s, user_id=%d",
		booking.ID, booking.BookingNumber, userID)
	handlers.RespondJSON(w, http.StatusCreated, bookingModels.FromDomainBooking(booking))
}
