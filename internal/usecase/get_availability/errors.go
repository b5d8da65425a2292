package get_availability

import "errors"

var (
	// ErrZoneNotFound возвращается, когда зона не найдена в иерархии объекта
	ErrZoneNotFound = errors.New("get_availability: zone not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_availability: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_availability: internal error")
)
