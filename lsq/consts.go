package lsq

const (
	DefaultLookbackDays = 60

	// two sided prediction band, the multiplier is the Student's t quantile
	// at 1-(1-Confidence)/2 with n-2 degrees of freedom
	DefaultConfidence = 0.95

	// |slope| at or below this, in value units per second, is treated as flat.
	// The bound is absolute, so a series of tiny magnitude (ratios, fractions)
	// with a real but small trend is reported as never crossing.
	FlatSlopeEpsilon = 1e-12

	MinFitPointCnt = 2
)

const (
	LowerSuffix = ": lower"
	UpperSuffix = ": upper"
)
