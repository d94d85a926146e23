package enquiries

import "errors"

var (
	// ErrEnquiryNotFound возвращается, когда заявка не найдена
	ErrEnquiryNotFound = errors.New("enquiries: enquiry not found")

	// ErrInvalidInput возвращается при некорректных фильтрах
	ErrInvalidInput = errors.New("enquiries: invalid input data")

	// ErrInternal возвращается при ошибках хранилища
	ErrInternal = errors.New("enquiries: internal error")
)
