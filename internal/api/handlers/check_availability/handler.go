package check_availability

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/SMC-BanquetService/internal/api/handlers"
	conflictModels "github.com/m04kA/SMC-BanquetService/internal/service/conflicts/models"
	checkAvailability "github.com/m04kA/SMC-BanquetService/internal/usecase/check_availability"
)

const msgInvalidRequestBody = "некорректное тело запроса"

type Handler struct {
	useCase CheckAvailabilityUseCase
	loc     *time.Location
	logger  Logger
}

func NewHandler(useCase CheckAvailabilityUseCase, loc *time.Location, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		loc:     loc,
		logger:  logger,
	}
}

// Handle POST /api/v1/availability/check
// Конфликт здесь штатный ответ, вердикт возвращается со статусом 200.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CheckAvailabilityRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /availability/check - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(h.loc)
	if err != nil {
		h.logger.Warn("POST /availability/check - Failed to parse sessions: %v", err)
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		if errors.Is(err, checkAvailability.ErrInvalidInput) {
			handlers.RespondBadRequest(w, err.Error())
			return
		}
		h.logger.Error("POST /availability/check - Check failed: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, conflictModels.FromDomainResult(result))
}
