package create_enquiry

import (
	"time"

	"github.com/shopspring/decimal"

	conflictModels "github.com/m04kA/SMC-BanquetService/internal/service/conflicts/models"
	createEnquiry "github.com/m04kA/SMC-BanquetService/internal/usecase/create_enquiry"
)

// CreateEnquiryRequest HTTP request model
type CreateEnquiryRequest struct {
	ClientName   string                        `json:"clientName"`
	ClientPhone  string                        `json:"clientPhone"`
	ClientEmail  string                        `json:"clientEmail"`
	EventType    string                        `json:"eventType"`
	QuotedAmount decimal.Decimal               `json:"quotedAmount"`
	Notes        *string                       `json:"notes,omitempty"`
	Sessions     []conflictModels.SessionInput `json:"sessions"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateEnquiryRequest) ToUseCaseRequest(createdBy int64, loc *time.Location) (*createEnquiry.Request, error) {
	sessions, err := conflictModels.ToDomainSessions(r.Sessions, loc)
	if err != nil {
		return nil, err
	}
	return &createEnquiry.Request{
		CreatedBy:    createdBy,
		ClientName:   r.ClientName,
		ClientPhone:  r.ClientPhone,
		ClientEmail:  r.ClientEmail,
		EventType:    r.EventType,
		QuotedAmount: r.QuotedAmount,
		Notes:        r.Notes,
		Sessions:     sessions,
	}, nil
}
