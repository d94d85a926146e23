package update_enquiry

import (
	"time"

	"github.com/shopspring/decimal"

	conflictModels "github.com/m04kA/SMC-BanquetService/internal/service/conflicts/models"
	updateEnquiry "github.com/m04kA/SMC-BanquetService/internal/usecase/update_enquiry"
)

// UpdateEnquiryRequest HTTP request model, сессии заменяют сохраненный список целиком
type UpdateEnquiryRequest struct {
	ClientName   string                        `json:"clientName"`
	ClientPhone  string                        `json:"clientPhone"`
	ClientEmail  string                        `json:"clientEmail"`
	EventType    string                        `json:"eventType"`
	QuotedAmount decimal.Decimal               `json:"quotedAmount"`
	Notes        *string                       `json:"notes,omitempty"`
	Sessions     []conflictModels.SessionInput `json:"sessions"`
}

func (r *UpdateEnquiryRequest) ToUseCaseRequest(id, actorID int64, loc *time.Location) (*updateEnquiry.Request, error) {
	sessions, err := conflictModels.ToDomainSessions(r.Sessions, loc)
	if err != nil {
		return nil, err
	}
	return &updateEnquiry.Request{
		ID:           id,
		ActorID:      actorID,
		ClientName:   r.ClientName,
		ClientPhone:  r.ClientPhone,
		ClientEmail:  r.ClientEmail,
		EventType:    r.EventType,
		QuotedAmount: r.QuotedAmount,
		Notes:        r.Notes,
		Sessions:     sessions,
	}, nil
}
