package expiration

import "time"

// SweepResult итог одного прохода
type SweepResult struct {
	StartedAt time.Time `json:"startedAt"`
	Found     int       `json:"found"`
	Completed int       `json:"completed"`
	Skipped   int       `json:"skipped"`
	Failed    int       `json:"failed"`
	// Места, освобожденные сверкой инвентаря после прохода
	SlotsReconciled int `json:"slotsReconciled"`
}
