package reconcile_slots

// Result итог сверки инвентаря с журналом
type Result struct {
	LotsChecked   int
	SlotsReleased int
	Failed        int
}
