package domain

// Admits decides whether a new registration is admissible for an event with
// the given capacity mode and remaining spots. Pure; no I/O and no errors.
func Admits(mode CapacityMode, availableSpots int) bool {
	if mode == CapacityUnlimited {
		return true
	}
	return availableSpots > 0
}
