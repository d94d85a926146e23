package get_history

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-BanquetService/internal/api/handlers"
)

// Handler отдает журнал изменений записей одного вида
type Handler struct {
	history  HistoryFunc
	idVar    string
	notFound error
	logger   Logger
}

// NewHandler создает новый экземпляр handler, ID читается из переменной пути idVar,
// ошибка notFound отображается в 404
func NewHandler(history HistoryFunc, idVar string, notFound error, logger Logger) *Handler {
	return &Handler{
		history:  history,
		idVar:    idVar,
		notFound: notFound,
		logger:   logger,
	}
}

// Handle GET /api/v1/enquiries/{enquiryId}/history and /api/v1/bookings/{bookingId}/history
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathID(r, h.idVar)
	if err != nil {
		handlers.RespondBadRequest(w, "некорректный "+h.idVar)
		return
	}

	resp, err := h.history(r.Context(), id)
	if err != nil {
		if errors.Is(err, h.notFound) {
			handlers.RespondNotFound(w, "record not found")
			return
		}
		h.logger.Error("GET %s - Failed to load history: id=%d, error=%v", r.URL.Path, id, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}
