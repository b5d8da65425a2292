package domain

// Pricing policy constants
const (
	// VATRatePct ставка НДС, отдельной строкой в breakdown
	VATRatePct = 25.0

	// DefaultEveningStartHour начало вечернего тарифного окна
	DefaultEveningStartHour = 17

	// ApprovalDurationThresholdHours бронирования длиннее этого порога требуют согласования
	ApprovalDurationThresholdHours = 6.0

	// ApprovalAttendeeThreshold бронирования с большим числом участников требуют согласования
	ApprovalAttendeeThreshold = 100
)

// DiscountTable канонические скидки по типу заявителя (проценты от базовой цены).
// Единственный источник истины для всех компонентов
var DiscountTable = map[ActorType]float64{
	ActorPrivatePerson:    0,
	ActorPrivateFirma:     0,
	ActorLagForeninger:    20,
	ActorParaply:          20,
	ActorKommunaleEnheter: 15,
}

// ApprovalRequiredActors типы заявителей, чьи бронирования всегда проходят согласование
var ApprovalRequiredActors = map[ActorType]bool{
	ActorLagForeninger: true,
	ActorParaply:       true,
}

// Recurrence policy constants
const (
	// RecurrenceCapMonths жёсткий потолок разворачивания повторений от даты начала
	RecurrenceCapMonths = 6
)

// Business validation constants
const (
	MinAttendeeCount = 1
	MaxPurposeLength = 500

	MaxCancellationReasonLength = 500
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// InactiveStatuses список статусов, не участвующих в проверке конфликтов
var InactiveStatuses = []BookingStatus{
	StatusCancelled,
	StatusRejected,
}

// ActiveStatuses список статусов, блокирующих слоты
var ActiveStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
}
