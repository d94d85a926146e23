package change_enquiry_status

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-BanquetService/internal/api/handlers"
	"github.com/m04kA/SMC-BanquetService/internal/api/middleware"
	enquiryModels "github.com/m04kA/SMC-BanquetService/internal/service/enquiries/models"
	changeStatus "github.com/m04kA/SMC-BanquetService/internal/usecase/change_enquiry_status"
)

const (
	msgInvalidEnquiryID   = "некорректный ID заявки"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgUnauthorized       = "требуется аутентификация"
	msgNotFound           = "заявка не найдена"
	msgInvalidTransition  = "переход в этот статус запрещен"
	msgBookedViaBooking   = "статус booked заявка получает только при создании бронирования"
	msgStatusChanged      = "статус заявки уже изменен другим запросом"
)

type Handler struct {
	useCase ChangeStatusUseCase
	logger  Logger
}

func NewHandler(useCase ChangeStatusUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/enquiries/{enquiryId}/status
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	enquiryID, err := handlers.PathID(r, "enquiryId")
	if err != nil {
		h.logger.Warn("PATCH /enquiries/{id}/status - Invalid enquiry ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidEnquiryID)
		return
	}

	var req ChangeStatusRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /enquiries/{id}/status - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	enquiry, err := h.useCase.Execute(r.Context(), &changeStatus.Request{
		ID:      enquiryID,
		ActorID: userID,
		Status:  req.Status,
	})
	if err != nil {
		if conflictErr, ok := handlers.AsConflict(err); ok {
			h.logger.Warn("PATCH /enquiries/{id}/status - Venue conflict: enquiry_id=%d, conflicts=%d", enquiryID, len(conflictErr.Conflicts))
			handlers.RespondConflict(w, conflictErr)
			return
		}
		switch {
		case errors.Is(err, changeStatus.ErrEnquiryNotFound):
			h.logger.Warn("PATCH /enquiries/{id}/status - Enquiry not found: enquiry_id=%d", enquiryID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, changeStatus.ErrBookedViaBooking):
			h.logger.Warn("PATCH /enquiries/{id}/status - Direct move to booked: enquiry_id=%d", enquiryID)
			handlers.RespondUnprocessable(w, msgBookedViaBooking)

		case errors.Is(err, changeStatus.ErrInvalidTransition):
			h.logger.Warn("PATCH /enquiries/{id}/status - %v", err)
			handlers.RespondUnprocessable(w, msgInvalidTransition)

		case errors.Is(err, changeStatus.ErrStatusChanged):
			h.logger.Warn("PATCH /enquiries/{id}/status - Concurrent status change: enquiry_id=%d", enquiryID)
			handlers.RespondError(w, http.StatusConflict, msgStatusChanged)

		case errors.Is(err, changeStatus.ErrInvalidInput):
			h.logger.Warn("PATCH /enquiries/{id}/status - Validation failed: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("PATCH /enquiries/{id}/status - Failed to change status: enquiry_id=%d, error=%v", enquiryID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /enquiries/{id}/status - Status changed: enquiry_id=%d, status=%s, user_id=%d",
		enquiryID, enquiry.Status, userID)
	handlers.RespondJSON(w, http.StatusOK, enquiryModels.FromDomainEnquiry(enquiry))
}
