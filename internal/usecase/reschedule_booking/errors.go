package reschedule_booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("reschedule_booking: booking not found")

	// ErrAccessDenied возвращается, когда пользователь не пациент и не менеджер провайдера
	ErrAccessDenied = errors.New("reschedule_booking: access denied")

	// ErrCannotReschedule возвращается для завершённых, отменённых и неявок
	ErrCannotReschedule = errors.New("reschedule_booking: booking cannot be rescheduled in its current status")

	// ErrLeadTimeViolation возвращается, когда до нового времени меньше минимального
	ErrLeadTimeViolation = errors.New("reschedule_booking: too late to book this time")

	// ErrSlotConflict возвращается, когда новое время занято другим бронированием
	ErrSlotConflict = errors.New("reschedule_booking: slot conflict")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("reschedule_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("reschedule_booking: internal error")
)
