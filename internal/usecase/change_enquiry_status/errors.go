package change_enquiry_status

import "errors"

var (
	// ErrEnquiryNotFound возвращается, когда заявка не найдена
	ErrEnquiryNotFound = errors.New("change_enquiry_status: enquiry not found")

	// ErrInvalidTransition возвращается, когда переход между статусами запрещен
	ErrInvalidTransition = errors.New("change_enquiry_status: invalid status transition")

	// ErrBookedViaBooking возвращается при попытке напрямую перевести заявку в booked
	ErrBookedViaBooking = errors.New("change_enquiry_status: booked is set by creating a booking")

	// ErrStatusChanged возвращается, когда статус уже изменен другим запросом
	ErrStatusChanged = errors.New("change_enquiry_status: status changed concurrently")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("change_enquiry_status: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("change_enquiry_status: internal error")
)
