package cancel_booking

import (
	"github.com/m04kA/SMC-BanquetService/internal/service/bookings/models"
)

// CancelBookingRequest HTTP request model, тело запроса необязательно
type CancelBookingRequest struct {
	CancellationReason *string `json:"cancellationReason,omitempty"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *CancelBookingRequest) ToServiceRequest(actorID int64) *models.CancelBookingRequest {
	return &models.CancelBookingRequest{
		ActorID: actorID,
		Reason:  r.CancellationReason,
	}
}
