package expire_booking

// Outcome результат обработки одного просроченного бронирования
type Outcome string

const (
	// OutcomeCompleted бронирование завершено этим вызовом, место освобождено
	OutcomeCompleted Outcome = "completed"
	// OutcomeSkipped бронирование уже обработано: отменено, завершено или продлено после выборки
	OutcomeSkipped Outcome = "skipped"
	// OutcomeFailed обработка не удалась, бронирование будет найдено следующим sweep
	OutcomeFailed Outcome = "failed"
)
