package update_enquiry

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/SMC-BanquetService/internal/api/handlers"
	"github.com/m04kA/SMC-BanquetService/internal/api/middleware"
	enquiryModels "github.com/m04kA/SMC-BanquetService/internal/service/enquiries/models"
	updateEnquiry "github.com/m04kA/SMC-BanquetService/internal/usecase/update_enquiry"
)

const (
	msgInvalidEnquiryID   = "некорректный ID заявки"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgUnauthorized       = "требуется аутентификация"
	msgNotFound           = "заявка не найдена"
	msgNotEditable        = "заявки в статусах booked и closed не редактируются"
)

type Handler struct {
	useCase UpdateEnquiryUseCase
	loc     *time.Location
	logger  Logger
}

func NewHandler(useCase UpdateEnquiryUseCase, loc *time.Location, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		loc:     loc,
		logger:  logger,
	}
}

// Handle PUT /api/v1/enquiries/{enquiryId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	enquiryID, err := handlers.PathID(r, "enquiryId")
	if err != nil {
		h.logger.Warn("PUT /enquiries/{id} - Invalid enquiry ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidEnquiryID)
		return
	}

	var req UpdateEnquiryRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /enquiries/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(enquiryID, userID, h.loc)
	if err != nil {
		h.logger.Warn("PUT /enquiries/{id} - Failed to parse sessions: %v", err)
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	enquiry, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		if conflictErr, ok := handlers.AsConflict(err); ok {
			h.logger.Warn("PUT /enquiries/{id} - Venue conflict: enquiry_id=%d, conflicts=%d", enquiryID, len(conflictErr.Conflicts))
			handlers.RespondConflict(w, conflictErr)
			return
		}
		switch {
		case errors.Is(err, updateEnquiry.ErrEnquiryNotFound):
			h.logger.Warn("PUT /enquiries/{id} - Enquiry not found: enquiry_id=%d", enquiryID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, updateEnquiry.ErrNotEditable):
			h.logger.Warn("PUT /enquiries/{id} - Not editable: enquiry_id=%d", enquiryID)
			handlers.RespondUnprocessable(w, msgNotEditable)

		case errors.Is(err, updateEnquiry.ErrInvalidInput):
			h.logger.Warn("PUT /enquiries/{id} - Validation failed: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("PUT /enquiries/{id} - Failed to update enquiry: enquiry_id=%d, error=%v", enquiryID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /enquiries/{id} - Enquiry updated: enquiry_id=%d, user_id=%d", enquiryID, userID)
	handlers.RespondJSON(w, http.StatusOK, enquiryModels.FromDomainEnquiry(enquiry))
}
