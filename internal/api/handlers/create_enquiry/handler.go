package create_enquiry

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/SMC-BanquetService/internal/api/handlers"
	"github.com/m04kA/SMC-BanquetService/internal/api/middleware"
	enquiryModels "github.com/m04kA/SMC-BanquetService/internal/service/enquiries/models"
	createEnquiry "github.com/m04kA/SMC-BanquetService/internal/usecase/create_enquiry"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgUnauthorized       = "требуется аутентификация"
)

type Handler struct {
	useCase CreateEnquiryUseCase
	loc     *time.Location
	logger  Logger
}

func NewHandler(useCase CreateEnquiryUseCase, loc *time.Location, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		loc:     loc,
		logger:  logger,
	}
}

// Handle POST /api/v1/enquiries
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var req CreateEnquiryRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /enquiries - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(userID, h.loc)
	if err != nil {
		h.logger.Warn("POST /enquiries - Failed to parse sessions: %v", err)
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	enquiry, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		if conflictErr, ok := handlers.AsConflict(err); ok {
			h.logger.Warn("POST /enquiries - Venue conflict: user_id=%d, conflicts=%d", userID, len(conflictErr.Conflicts))
			handlers.RespondConflict(w, conflictErr)
			return
		}
		switch {
		case errors.Is(err, createEnquiry.ErrInvalidInput):
			h.logger.Warn("POST /enquiries - Validation failed: %v", err)
			handlers.RespondBadRequest(w, err.Error())
		default:
			h.logger.Error("POST /enquiries - Failed to create enquiry: user_id=%d, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /enquiries - Enquiry created: enquiry_id=%d, user_id=%d", enquiry.ID, userID)
	handlers.RespondJSON(w, http.StatusCreated, enquiryModels.FromDomainEnquiry(enquiry))
}
