package create_booking

import "errors"

var (
	// ErrFacilityNotFound возвращается, когда объект не найден в реестре
	ErrFacilityNotFound = errors.New("create_booking: facility not found")

	// ErrZoneNotFound возвращается, когда зона не найдена в иерархии объекта
	ErrZoneNotFound = errors.New("create_booking: zone not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInvalidTiming возвращается, когда временная схема не задана или задана неоднозначно
	ErrInvalidTiming = errors.New("create_booking: exactly one timing variant must be set")

	// ErrInvalidRecurrence возвращается при некорректном шаблоне повторения
	ErrInvalidRecurrence = errors.New("create_booking: invalid recurrence pattern")

	// ErrMalformedTimeSlot возвращается при нечитаемой метке слота
	ErrMalformedTimeSlot = errors.New("create_booking: malformed time slot")

	// ErrDateInPast возвращается, когда запрошенное вхождение начинается в прошлом
	ErrDateInPast = errors.New("create_booking: booking starts in the past")

	// ErrDateTooFarInFuture возвращается при нарушении ограничения advanceBookingDays зоны
	ErrDateTooFarInFuture = errors.New("create_booking: date is too far in the future")

	// ErrDurationOutOfRange возвращается, когда длительность слота вне правил зоны
	ErrDurationOutOfRange = errors.New("create_booking: slot duration out of allowed range")

	// ErrSlotNotAllowed возвращается, когда слот не входит в allowedTimeSlots зоны
	ErrSlotNotAllowed = errors.New("create_booking: time slot is not allowed for this zone")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)

// errConflictsFound внутренняя ошибка для отката транзакции при найденных
// конфликтах. Никогда не покидает usecase
var errConflictsFound = errors.New("create_booking: conflicts found")
