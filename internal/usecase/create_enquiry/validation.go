package create_enquiry

import (
	"fmt"
	"strings"

	"github.com/m04kA/SMC-BanquetService/internal/domain"
)

func validateRequest(req *Request) error {
	if req.CreatedBy <= 0 {
		return fmt.Errorf("%w: createdBy must be positive", ErrInvalidInput)
	}

	if strings.TrimSpace(req.ClientName) == "" {
		return fmt.Errorf("%w: clientName is required", ErrInvalidInput)
	}
	if len(req.ClientName) > domain.MaxClientNameLength {
		return fmt.Errorf("%w: clientName longer than %d characters", ErrInvalidInput, domain.MaxClientNameLength)
	}

	if req.QuotedAmount.IsNegative() {
		return fmt.Errorf("%w: quotedAmount must not be negative", ErrInvalidInput)
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes longer than %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	// В заявке допускаются черновые сессии без площадки, даты или времени
	if err := domain.ValidateSessions(req.Sessions, false); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	return nil
}
