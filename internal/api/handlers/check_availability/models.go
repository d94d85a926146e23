package check_availability

import (
	"time"

	"github.com/m04kA/SMC-BanquetService/internal/domain"
	conflictModels "github.com/m04kA/SMC-BanquetService/internal/service/conflicts/models"
	checkAvailability "github.com/m04kA/SMC-BanquetService/internal/usecase/check_availability"
)

// CheckAvailabilityRequest HTTP request model
type CheckAvailabilityRequest struct {
	Sessions          []conflictModels.SessionInput `json:"sessions"`
	ExcludeRecordID   *int64                        `json:"excludeRecordId,omitempty"`
	ExcludeRecordKind string                        `json:"excludeRecordKind,omitempty"`
}

func (r *CheckAvailabilityRequest) ToUseCaseRequest(loc *time.Location) (*checkAvailability.Request, error) {
	sessions, err := conflictModels.ToDomainSessions(r.Sessions, loc)
	if err != nil {
		return nil, err
	}
	return &checkAvailability.Request{
		Sessions:          sessions,
		ExcludeRecordID:   r.ExcludeRecordID,
		ExcludeRecordKind: domain.RecordKind(r.ExcludeRecordKind),
	}, nil
}
