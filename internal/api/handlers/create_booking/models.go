package create_booking

import (
	"time"

	"github.com/shopspring/decimal"

	conflictModels "github.com/m04kA/SMC-BanquetService/internal/service/conflicts/models"
	createBooking "github.com/m04kA/SMC-BanquetService/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP request model.
// При заданном enquiryId сессии и данные клиента можно не передавать,
// они берутся из заявки.
type CreateBookingRequest struct {
	EnquiryID     *int64                        `json:"enquiryId,omitempty"`
	ClientName    string                        `json:"clientName"`
	ClientPhone   string                        `json:"clientPhone"`
	TotalAmount   decimal.Decimal               `json:"totalAmount"`
	AdvanceAmount decimal.Decimal               `json:"advanceAmount"`
	Notes         *string                       `json:"notes,omitempty"`
	Sessions      []conflictModels.SessionInput `json:"sessions"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case, даты сессий разбираются в часовом поясе курорта
func (r *CreateBookingRequest) ToUseCaseRequest(createdBy int64, loc *time.Location) (*createBooking.Request, error) {
	sessions, err := conflictModels.ToDomainSessions(r.Sessions, loc)
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		CreatedBy:     createdBy,
		EnquiryID:     r.EnquiryID,
		ClientName:    r.ClientName,
		ClientPhone:   r.ClientPhone,
		TotalAmount:   r.TotalAmount,
		AdvanceAmount: r.AdvanceAmount,
		Notes:         r.Notes,
		Sessions:      sessions,
	}, nil
}
