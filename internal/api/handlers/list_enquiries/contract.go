package list_enquiries

import (
	"context"

	"github.com/m04kA/SMC-BanquetService/internal/service/enquiries/models"
)

type EnquiryService interface {
	List(ctx context.Context, req *models.ListEnquiriesRequest) (*models.EnquiryListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
