package check_availability

import (
	"fmt"

	"github.com/m04kA/SMC-BanquetService/internal/domain"
)

func validateRequest(req *Request) error {
	if len(req.Sessions) == 0 {
		return fmt.Errorf("%w: at least one session is required", ErrInvalidInput)
	}
	if err := domain.ValidateSessions(req.Sessions, false); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if req.ExcludeRecordID == nil && req.ExcludeRecordKind == "" {
		return nil
	}
	if req.ExcludeRecordID == nil || *req.ExcludeRecordID <= 0 {
		return fmt.Errorf("%w: excludeRecordId must be positive", ErrInvalidInput)
	}
	switch req.ExcludeRecordKind {
	case domain.RecordKindBooking, domain.RecordKindEnquiry:
		return nil
	default:
		return fmt.Errorf("%w: excludeRecordKind must be booking or enquiry", ErrInvalidInput)
	}
}
