package get_enquiry

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-BanquetService/internal/api/handlers"
	"github.com/m04kA/SMC-BanquetService/internal/service/enquiries"
)

const (
	msgInvalidEnquiryID = "некорректный ID заявки"
	msgNotFound         = "заявка не найдена"
)

type Handler struct {
	service EnquiryService
	logger  Logger
}

func NewHandler(service EnquiryService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/enquiries/{enquiryId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	enquiryID, err := handlers.PathID(r, "enquiryId")
	if err != nil {
		h.logger.Warn("GET /enquiries/{id} - Invalid enquiry ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidEnquiryID)
		return
	}

	enquiry, err := h.service.GetByID(r.Context(), enquiryID)
	if err != nil {
		if errors.Is(err, enquiries.ErrEnquiryNotFound) {
			handlers.RespondNotFound(w, msgNotFound)
			return
		}
		h.logger.Error("GET /enquiries/{id} - Failed to get enquiry: enquiry_id=%d, error=%v", enquiryID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, enquiry)
}
