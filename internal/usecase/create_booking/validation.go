package create_booking

import (
	"fmt"
	"strings"

	"github.com/m04kA/SMC-BanquetService/internal/domain"
)

// validateRequest проверяет поля, не зависящие от исходной заявки
func validateRequest(req *Request) error {
	if req.CreatedBy <= 0 {
		return fmt.Errorf("%w: createdBy must be positive", ErrInvalidInput)
	}

	if req.EnquiryID != nil && *req.EnquiryID <= 0 {
		return fmt.Errorf("%w: enquiryId must be positive", ErrInvalidInput)
	}

	if req.EnquiryID == nil {
		if strings.TrimSpace(req.ClientName) == "" {
			return fmt.Errorf("%w: clientName is required", ErrInvalidInput)
		}
		if len(req.Sessions) == 0 {
			return fmt.Errorf("%w: at least one session is required", ErrInvalidInput)
		}
	}
	if len(req.ClientName) > domain.MaxClientNameLength {
		return fmt.Errorf("%w: clientName longer than %d characters", ErrInvalidInput, domain.MaxClientNameLength)
	}

	if req.TotalAmount.IsNegative() || req.AdvanceAmount.IsNegative() {
		return fmt.Errorf("%w: amounts must not be negative", ErrInvalidInput)
	}
	if req.AdvanceAmount.GreaterThan(req.TotalAmount) {
		return fmt.Errorf("%w: advanceAmount exceeds totalAmount", ErrInvalidInput)
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes longer than %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}
	return nil
}

// validateSessions проверяет итоговый список сессий, каждая сессия бронирования
// должна быть полностью заполнена
func validateSessions(sessions []domain.Session) error {
	if len(sessions) == 0 {
		return fmt.Errorf("%w: at least one session is required", ErrInvalidInput)
	}
	if err := domain.ValidateSessions(sessions, true); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}
