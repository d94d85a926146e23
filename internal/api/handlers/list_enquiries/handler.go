package list_enquiries

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-BanquetService/internal/api/handlers"
	"github.com/m04kA/SMC-BanquetService/internal/service/enquiries"
	"github.com/m04kA/SMC-BanquetService/internal/service/enquiries/models"
)

const (
	msgInvalidPaging = "limit и offset должны быть неотрицательными целыми числами"
	msgInvalidStatus = "неизвестный статус заявки"
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

// Handle GET /api/v1/enquiries?status=&limit=&offset=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	limit, err := handlers.QueryUint(r, "limit")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidPaging)
		return
	}
	offset, err := handlers.QueryUint(r, "offset")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidPaging)
		return
	}

	resp, err := h.service.List(r.Context(), &models.ListEnquiriesRequest{
		Status: handlers.QueryString(r, "status"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		if errors.Is(err, enquiries.ErrInvalidInput) {
			h.logger.Warn("GET /enquiries - Invalid filter: %v", err)
			handlers.RespondBadRequest(w, msgInvalidStatus)
			return
		}
		h.logger.Error("GET /enquiries - Failed to list enquiries: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}
