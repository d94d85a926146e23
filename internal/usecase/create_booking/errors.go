package create_booking

import "errors"

var (
	// ErrEnquiryNotFound возвращается, когда исходная заявка не найдена
	ErrEnquiryNotFound = errors.New("create_booking: enquiry not found")

	// ErrEnquiryNotConverted возвращается, когда исходная заявка не в статусе converted
	ErrEnquiryNotConverted = errors.New("create_booking: enquiry must be converted before booking")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
