package funnel

// Gender is the quiz's binary gender selector. The empty value means unset.
type Gender string

const (
	GenderUnset  Gender = ""
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// Valid reports whether g is one of the known values, including unset.
func (g Gender) Valid() bool {
	switch g {
	case GenderUnset, GenderMale, GenderFemale:
		return true
	default:
		return false
	}
}

// Answers holds the user's quiz inputs. The JSON names match the persisted
// record so previously stored values stay readable.
type Answers struct {
	Gender         Gender  `json:"gender"`
	BodyFatPercent float64 `json:"bodyFatPercent"`
	BMI            float64 `json:"BMI"`
	CalorieTarget  float64 `json:"calorieTarget"`
	WaterIntake    float64 `json:"waterIntake"`
	WeightLossRate float64 `json:"weightLossRate"`
	SeeResultsDays float64 `json:"seeResultsDays"`
}

// DefaultAnswers returns the empty record used before the form is submitted.
func DefaultAnswers() Answers {
	return Answers{}
}

// IsDefault reports whether every field is still unset.
func (a Answers) IsDefault() bool {
	return a == Answers{}
}

// Complete reports whether the form may move on to the results: gender set
// and every numeric field strictly positive.
func (a Answers) Complete() bool {
	if a.Gender != GenderMale && a.Gender != GenderFemale {
		return false
	}
	for _, v := range []float64{a.BodyFatPercent, a.BMI, a.CalorieTarget, a.WaterIntake, a.WeightLossRate, a.SeeResultsDays} {
		if !(v > 0) {
			return false
		}
	}
	return true
}

// AnswersPatch carries partial form edits; nil fields are left untouched.
type AnswersPatch struct {
	Gender         *Gender  `json:"gender,omitempty"`
	BodyFatPercent *float64 `json:"bodyFatPercent,omitempty"`
	BMI            *float64 `json:"BMI,omitempty"`
	CalorieTarget  *float64 `json:"calorieTarget,omitempty"`
	WaterIntake    *float64 `json:"waterIntake,omitempty"`
	WeightLossRate *float64 `json:"weightLossRate,omitempty"`
	SeeResultsDays *float64 `json:"seeResultsDays,omitempty"`
}

// Apply returns a copy of a with the non-nil patch fields merged in.
func (a Answers) Apply(p AnswersPatch) Answers {
	if p.Gender != nil {
		a.Gender = *p.Gender
	}
	if p.BodyFatPercent != nil {
		a.BodyFatPercent = *p.BodyFatPercent
	}
	if p.BMI != nil {
		a.BMI = *p.BMI
	}
	if p.CalorieTarget != nil {
		a.CalorieTarget = *p.CalorieTarget
	}
	if p.WaterIntake != nil {
		a.WaterIntake = *p.WaterIntake
	}
	if p.WeightLossRate != nil {
		a.WeightLossRate = *p.WeightLossRate
	}
	if p.SeeResultsDays != nil {
		a.SeeResultsDays = *p.SeeResultsDays
	}
	return a
}
