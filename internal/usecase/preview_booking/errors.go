package preview_booking

import "errors"

var (
	// ErrFacilityNotFound возвращается, когда объект не найден в реестре
	ErrFacilityNotFound = errors.New("preview_booking: facility not found")

	// ErrZoneNotFound возвращается, когда зона не найдена в иерархии объекта
	ErrZoneNotFound = errors.New("preview_booking: zone not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("preview_booking: invalid input data")

	// ErrInvalidTiming возвращается, когда временная схема не задана или задана неоднозначно
	ErrInvalidTiming = errors.New("preview_booking: exactly one timing variant must be set")

	// ErrInvalidRecurrence возвращается при некорректном шаблоне повторения
	ErrInvalidRecurrence = errors.New("preview_booking: invalid recurrence pattern")

	// ErrMalformedTimeSlot возвращается при нечитаемой метке слота
	ErrMalformedTimeSlot = errors.New("preview_booking: malformed time slot")

	// ErrDateInPast возвращается, когда запрошенное вхождение начинается в прошлом
	ErrDateInPast = errors.New("preview_booking: booking starts in the past")

	// ErrDateTooFarInFuture возвращается при нарушении ограничения advanceBookingDays зоны
	ErrDateTooFarInFuture = errors.New("preview_booking: date is too far in the future")

	// ErrDurationOutOfRange возвращается, когда длительность слота вне правил зоны
	ErrDurationOutOfRange = errors.New("preview_booking: slot duration out of allowed range")

	// ErrSlotNotAllowed возвращается, когда слот не входит в allowedTimeSlots зоны
	ErrSlotNotAllowed = errors.New("preview_booking: time slot is not allowed for this zone")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("preview_booking: internal error")
)
