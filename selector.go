package satelles

// Model identifies which analytic propagation model applies to an element set.
type Model int

const (
	// ModelNearEarth is the SGP4 near-earth model.
	ModelNearEarth Model = iota
	// ModelDeepSpace is the SDP4 deep-space model with lunar-solar and
	// resonance perturbations.
	ModelDeepSpace
)

func (m Model) String() string {
	switch m {
	case ModelNearEarth:
		return "near-earth"
	case ModelDeepSpace:
		return "deep-space"
	}
	return "unknown"
}

// deepSpacePeriodMinutes is the period threshold between the near-earth and
// deep-space models. The comparison uses the period recovered from the
// un-Kozai'd mean motion, not the published one, so elements right at the
// boundary select the same model as the classical implementations.
const deepSpacePeriodMinutes = 225.0

// SelectModel returns the propagation model appropriate for the element set:
// deep-space for orbital periods of 225 minutes and longer, near-earth below.
func SelectModel(e ElementSet) Model {
	noUnkozai, _ := recoverKozai(e.MeanMotionRad(), e.Inclination*deg2rad, e.Eccentricity)
	if twoPi/noUnkozai >= deepSpacePeriodMinutes {
		return ModelDeepSpace
	}
	return ModelNearEarth
}
