package domain

// RepairStatus is the per-line repair state tracked between campaigns.
type RepairStatus string

const (
	RepairNone    RepairStatus = ""
	RepairMajor   RepairStatus = "major"
	RepairMinor   RepairStatus = "minor"
	RepairStopped RepairStatus = "stopped"
)

// MinorTierTerminal is the last minor tier; after it only a major repair is
// accepted.
const MinorTierTerminal = 3

// Valid reports whether s is one of the known statuses. The empty status is
// allowed only on brand-new lines.
func (s RepairStatus) Valid() bool {
	switch s {
	case RepairNone, RepairMajor, RepairMinor, RepairStopped:
		return true
	}
	return false
}

// ValidateMinorTier enforces the strictly sequential tier progression:
// from tier N only N+1 is accepted, and tier 3 accepts nothing.
// The returned error names the only legal next value.
func ValidateMinorTier(current, next int) error {
	if current >= MinorTierTerminal {
		return Validationf("minor repair tier %d is terminal: switch repair status to major to start a new cycle", MinorTierTerminal)
	}
	if next != current+1 {
		return Validationf("invalid minor repair tier %d: only %d is accepted after tier %d", next, current+1, current)
	}
	return nil
}

// StageState is the one-way completion latch on submitted measurement rows.
// The only legal transition is Open -> Completed; there is no unlock.
type StageState string

const (
	StageOpen      StageState = "open"
	StageCompleted StageState = "completed"
)

// Complete performs the single legal transition. Completing an already
// completed stage is rejected so callers cannot mask double submits.
func (s StageState) Complete() (StageState, error) {
	if s == StageCompleted {
		return s, Completedf("stage already completed")
	}
	return StageCompleted, nil
}

// Completed reports whether the latch has been flipped.
func (s StageState) Completed() bool {
	return s == StageCompleted
}
