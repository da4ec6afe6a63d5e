package insights

// Thresholds holds the numeric cut-offs used by the selector and the policy.
type Thresholds struct {
	// Opportunity is a real leak when its value is at or below this.
	WeaknessThreshold float64

	// Residual dominance: |residual| must exceed both the floor and
	// ResidualRatio times the sum of absolute measured values.
	ResidualFloor float64
	ResidualRatio float64

	// Best minus opportunity below this is weak separation.
	SeparationDelta float64

	// Message 2 states the residual explicitly above this magnitude.
	ResidualMentionThreshold float64
}

// Defaults returns the default thresholds.
func Defaults() Thresholds {
	return Thresholds{
		WeaknessThreshold:        -1.0,
		ResidualFloor:            1.0,
		ResidualRatio:            0.6,
		SeparationDelta:          0.4,
		ResidualMentionThreshold: 2.0,
	}
}
