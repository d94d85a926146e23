package update_enquiry

import "errors"

var (
	// ErrEnquiryNotFound возвращается, когда заявка не найдена
	ErrEnquiryNotFound = errors.New("update_enquiry: enquiry not found")

	// ErrNotEditable возвращается для заявок в статусах booked и closed
	ErrNotEditable = errors.New("update_enquiry: enquiry can no longer be edited")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("update_enquiry: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("update_enquiry: internal error")
)
