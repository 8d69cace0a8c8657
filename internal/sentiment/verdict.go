package sentiment

// Verdict is the discrete outcome of sentiment classification.
type Verdict int

const (
	Neutral Verdict = iota
	Positive
	Negative
)

const (
	positiveThreshold = 0.05
	negativeThreshold = -0.05
)

// Classify maps a compound score to a verdict. Both thresholds are exclusive,
// so 0.05 and -0.05 are Neutral.
func Classify(score float64) Verdict {
	if score > positiveThreshold {
		return Positive
	}
	if score < negativeThreshold {
		return Negative
	}
	return Neutral
}

// Label returns the display label stored in the results workbook.
func (v Verdict) Label() string {
	switch v {
	case Positive:
		return "Positive 😀"
	case Negative:
		return "Negative 😞"
	default:
		return "Neutral 😐"
	}
}

func (v Verdict) String() string {
	switch v {
	case Positive:
		return "positive"
	case Negative:
		return "negative"
	default:
		return "neutral"
	}
}
