package funnel

import (
	"fmt"
	"strconv"
)

// CardCount is the number of insight screens between the form and the offer.
const CardCount = 6

// Band classifies a card's callout.
type Band string

const (
	BandNone       Band = "none"
	BandHealthy    Band = "healthy"
	BandBorderline Band = "borderline"
	BandSevere     Band = "severe"
	BandFixed      Band = "fixed"
)

// Tone is the colour hint the client uses for a callout.
type Tone string

const (
	TonePositive Tone = "positive"
	ToneWarning  Tone = "warning"
	ToneNeutral  Tone = "neutral"
)

// Tone maps a band to its display tone.
func (b Band) Tone() Tone {
	switch b {
	case BandHealthy:
		return TonePositive
	case BandBorderline, BandSevere:
		return ToneWarning
	default:
		return ToneNeutral
	}
}

// Card is one insight screen derived from Answers.
type Card struct {
	Title    string `json:"title"`
	Headline string `json:"headline"`
	Copy     string `json:"copy"`
	Callout  string `json:"callout"`
	Band     Band   `json:"band"`
	Tone     Tone   `json:"tone"`
	Image    string `json:"image"`
}

type callout struct {
	text string
	band Band
}

var noCallout = callout{band: BandNone}

const (
	bodyFatHealthy    = "Almost Healthy. You're within reach of a healthy body fat range."
	bodyFatBorderline = "Your current level may be slowing metabolism, increasing inflammation, or making it harder to stay consistent with workouts."
	bodyFatSevere     = "Very Obese. Your current level puts real strain on your metabolism and energy."

	bmiHealthy    = "Almost Healthy. You're close to the ideal range!"
	bmiBorderline = "This range may increase risk of health complications, but it's very manageable with the right approach."
	bmiSevere     = "This level requires immediate attention, but with proper guidance significant improvements are absolutely possible."

	caloriesHealthy    = "This target allows for sustainable weight loss while maintaining energy levels."
	caloriesBorderline = "This is a more aggressive approach that requires careful monitoring and proper nutrition."
	caloriesSevere     = "This requires professional guidance to ensure you're getting adequate nutrition."

	waterHealthy    = "Your hydration game is strong! This supports optimal metabolism."
	waterBorderline = "You're getting closer! Increasing intake could boost your results significantly."
	waterSevere     = "Your body needs more hydration to function optimally and support fat loss."

	weightLossCallout = "With the right approach, results could show up even faster than expected!"
	timelineCallout   = "Step one is awareness. Step two is action with a proper plan!"
)

// DeriveCards builds the six insight cards for a. It is pure and cheap enough
// to call on every read.
func DeriveCards(a Answers) []Card {
	return []Card{
		newCard(
			"Body Fat % Insight",
			fmt.Sprintf("Your Body Fat Percentage Is %s%%", formatNumber(a.BodyFatPercent)),
			"Your body fat percentage tells us how much of your body is lean mass (muscle, organs, bone) versus stored fat. Too much stored fat affects your energy, hormone balance, and ability to burn fat efficiently.",
			bodyFatCallout(a.Gender, a.BodyFatPercent),
			"bodyfat.jpg",
		),
		newCard(
			"BMI Insight",
			fmt.Sprintf("Your BMI Is %s", formatNumber(a.BMI)),
			"BMI estimates how your weight might affect health based on height and weight. While not perfect, it gives us a baseline understanding of your current health status.",
			bmiCallout(a.BMI),
			"BMI.jpg",
		),
		newCard(
			"Recommended Calories",
			fmt.Sprintf("You Should Be Eating Around %s Calories", formatNumber(a.CalorieTarget)),
			"Your body burns calories to stay alive through basic functions like breathing, circulation, and cell production. The quality and timing of calories matters significantly for fat loss.",
			calorieCallout(a.CalorieTarget),
			"Calories.jpg",
		),
		newCard(
			"Water Intake",
			fmt.Sprintf("You Drink %s Cups a Day; Your Body Needs 8-9", formatNumber(a.WaterIntake)),
			"Proper hydration boosts metabolism and helps your body efficiently process nutrients. Lack of water slows digestion, reduces fat burning, and can be mistaken for hunger.",
			waterCallout(a.WaterIntake),
			"water.jpg",
		),
		newCard(
			"Estimated Weight Loss Rate",
			fmt.Sprintf("You Could Be Losing %s lbs Per Week", formatNumber(a.WeightLossRate)),
			"This is your realistic potential if your metabolism is optimized and you follow a structured plan. Sustainable weight loss focuses on fat loss while preserving muscle mass.",
			callout{text: weightLossCallout, band: BandFixed},
			"loose.jpg",
		),
		newCard(
			"Visible Changes Timeline",
			fmt.Sprintf("You Could See Results in as Little as %s Days", formatNumber(a.SeeResultsDays)),
			"Visible change doesn't take forever when you have the right strategy. The key is pairing awareness with a proper action plan that works with your body, not against it.",
			callout{text: timelineCallout, band: BandFixed},
			"results.jpg",
		),
	}
}

func newCard(title, headline, copy string, c callout, image string) Card {
	return Card{
		Title:    title,
		Headline: headline,
		Copy:     copy,
		Callout:  c.text,
		Band:     c.band,
		Tone:     c.band.Tone(),
		Image:    image,
	}
}

func bodyFatCallout(gender Gender, pct float64) callout {
	if gender == GenderUnset || pct == 0 {
		return noCallout
	}
	healthyBelow, borderlineUpTo := 31.0, 39.0
	if gender == GenderMale {
		healthyBelow, borderlineUpTo = 24, 31
	}
	switch {
	case pct < healthyBelow:
		return callout{text: bodyFatHealthy, band: BandHealthy}
	case pct <= borderlineUpTo:
		return callout{text: bodyFatBorderline, band: BandBorderline}
	default:
		return callout{text: bodyFatSevere, band: BandSevere}
	}
}

func bmiCallout(bmi float64) callout {
	switch {
	case bmi == 0:
		return noCallout
	case bmi < 26:
		return callout{text: bmiHealthy, band: BandHealthy}
	case bmi < 35:
		return callout{text: bmiBorderline, band: BandBorderline}
	default:
		return callout{text: bmiSevere, band: BandSevere}
	}
}

func calorieCallout(kcal float64) callout {
	switch {
	case kcal == 0:
		return noCallout
	case kcal >= 1300:
		return callout{text: caloriesHealthy, band: BandHealthy}
	case kcal >= 1100:
		return callout{text: caloriesBorderline, band: BandBorderline}
	default:
		return callout{text: caloriesSevere, band: BandSevere}
	}
}

func waterCallout(cups float64) callout {
	switch {
	case cups == 0:
		return noCallout
	case cups > 6:
		return callout{text: waterHealthy, band: BandHealthy}
	case cups >= 2:
		return callout{text: waterBorderline, band: BandBorderline}
	default:
		return callout{text: waterSevere, band: BandSevere}
	}
}

// formatNumber prints the shortest exact representation: 20, 22.5, 0.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
