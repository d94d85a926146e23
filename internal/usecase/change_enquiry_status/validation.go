package change_enquiry_status

import (
	"fmt"

	"github.com/m04kA/SMC-BanquetService/internal/domain"
)

func validateRequest(req *Request) (domain.EnquiryStatus, error) {
	if req.ID <= 0 {
		return "", fmt.Errorf("%w: id must be positive", ErrInvalidInput)
	}
	if req.ActorID <= 0 {
		return "", fmt.Errorf("%w: actor must be positive", ErrInvalidInput)
	}

	status, ok := domain.ParseEnquiryStatus(req.Status)
	if !ok {
		return "", fmt.Errorf("%w: unknown status %q", ErrInvalidInput, req.Status)
	}
	if status == domain.EnquiryStatusBooked {
		return "", ErrBookedViaBooking
	}
	return status, nil
}
