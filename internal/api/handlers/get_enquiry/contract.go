package get_enquiry

import (
	"context"

	"github.com/m04kA/SMC-BanquetService/internal/service/enquiries/models"
)

type EnquiryService interface {
	GetByID(ctx context.Context, id int64) (*models.EnquiryResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
