package lead

// FitCategory labels how well a lead's profile matches the program.
type FitCategory string

const (
	FitStrong             FitCategory = "Strong Fit"
	FitScaleReadiness     FitCategory = "Scale & Readiness"
	FitTimingMisalignment FitCategory = "Timing Misalignment"
	FitResourceAlignment  FitCategory = "Resource Alignment"
	FitStrategic          FitCategory = "Strategic Fit"
	FitAmbiguous          FitCategory = "Ambiguous Fit"
)

// Insight is a human-readable fit assessment surfaced to reviewers.
type Insight struct {
	Category FitCategory
	Message  string
}

// FitInsight classifies a lead by the first matching rule. Order matters:
// strong fit wins over every misalignment signal.
func FitInsight(i Intake) Insight {
	smallAudience := i.AudienceBand == AudienceUnder10K
	smallMOQ := i.MOQBand == MOQUnder5K
	earlyTiming := i.Timeline == TimelineExploring
	sponsorFocus := hasAny(i.Goals, GoalSponsorActivation)
	fandomAligned := hasAny(i.Goals, GoalLastingFandom, GoalConnectedApparel)

	bigMOQ := i.MOQBand == MOQ20KTo100K || i.MOQBand == MOQOver100K
	nearTerm := i.Timeline == TimelineASAP || i.Timeline == TimelineThisSeason
	largerAudience := i.AudienceBand == Audience250KTo1M || i.AudienceBand == AudienceOver1M

	if bigMOQ && nearTerm && (fandomAligned || largerAudience) {
		return Insight{
			Category: FitStrong,
			Message:  "High operational readiness and mission alignment. Recommend immediate booking - ideal for a pilot or launch program.",
		}
	}

	if smallAudience || smallMOQ {
		return Insight{
			Category: FitScaleReadiness,
			Message:  "Smaller in scale today, but clearly building something meaningful. Great cultural fit - just needs a bit more reach before activation.",
		}
	}

	if earlyTiming {
		return Insight{
			Category: FitTimingMisalignment,
			Message:  "Aligned vision but early in the planning cycle. Best results when we line up with a season or event window.",
		}
	}

	if sponsorFocus && (smallAudience || i.AudienceBand == Audience10To50K) {
		return Insight{
			Category: FitResourceAlignment,
			Message:  "Concept is strong but sponsor/partner path looks early. Helpful to clarify budget or partner engagement before activation.",
		}
	}

	if !fandomAligned && !sponsorFocus {
		return Insight{
			Category: FitStrategic,
			Message:  "Interest in merch more than fan connection. Good education fit later once they shift toward engagement over inventory.",
		}
	}

	return Insight{
		Category: FitAmbiguous,
		Message:  "Mixed signals - size and potential look good, but use case is unclear. Worth a short discovery call to clarify.",
	}
}
