package lead

// Owner is the internal team a lead gets routed to.
type Owner string

const (
	OwnerPro       Owner = "PRO"
	OwnerSportEdu  Owner = "SPORTEDU"
	OwnerPartners  Owner = "PARTNERS"
	OwnerCommunity Owner = "COMMUNITY"
	OwnerDigital   Owner = "DIGITAL"
	OwnerOther     Owner = "OTHER"
)

// Band values accepted from the intake form.
const (
	AudienceUnder10K = "<10k"
	Audience10To50K  = "10-50k"
	Audience50To250K = "50-250k"
	Audience250KTo1M = "250k-1M"
	AudienceOver1M   = ">1M"

	MOQUnder5K   = "<5k"
	MOQ5KTo20K   = "5k-20k"
	MOQ20KTo100K = "20k-100k"
	MOQOver100K  = "100k+"

	TimelineASAP       = "ASAP"
	TimelineThisSeason = "This season"
	TimelineExploring  = "Exploring"

	RoleDecisionMaker = "Decision Maker"
	RoleTeam          = "Team"
	RoleExploring     = "Exploring"
)

// Goal keys with scoring weight.
const (
	GoalLastingFandom     = "lasting_fandom"
	GoalConnectedApparel  = "connected_apparel"
	GoalSponsorActivation = "sponsor_activation"
)

// Intake is a validated intake-form submission, scoring inputs only.
type Intake struct {
	Vertical     string
	AudienceBand string
	MOQBand      string
	Timeline     string
	DecisionRole string
	Goals        []string
}

// RouteOwner maps a vertical to the team that owns the conversation.
func RouteOwner(vertical string) Owner {
	switch vertical {
	case "pro_team", "league_association", "event_operator":
		return OwnerPro
	case "college_athletics", "youth_academy":
		return OwnerSportEdu
	case "brand_sponsor", "retail_merch", "agency_integrator":
		return OwnerPartners
	case "community_club", "nonprofit_foundation":
		return OwnerCommunity
	case "esports_digital":
		return OwnerDigital
	default:
		return OwnerOther
	}
}

// Score rates a lead 0-22 from order size, audience reach, timeline,
// decision role and goal fit, and routes it to an owner.
func Score(i Intake) (int, Owner) {
	score := 0

	switch i.MOQBand {
	case MOQOver100K, MOQ20KTo100K:
		score += 5
	case MOQ5KTo20K:
		score += 3
	}

	switch i.AudienceBand {
	case AudienceOver1M:
		score += 5
	case Audience250KTo1M:
		score += 4
	case Audience50To250K:
		score += 3
	case Audience10To50K:
		score += 2
	}

	switch i.Timeline {
	case TimelineASAP:
		score += 5
	case TimelineThisSeason:
		score += 3
	default:
		score++
	}

	switch i.DecisionRole {
	case RoleDecisionMaker:
		score += 5
	case RoleTeam:
		score += 3
	default:
		score++
	}

	if hasAny(i.Goals, GoalLastingFandom, GoalConnectedApparel) {
		score += 2
	}

	return score, RouteOwner(i.Vertical)
}

// Tier buckets a score into the follow-up path: BOOK gets a calendar link
// immediately, REVIEW goes to a human, NURTURE enters the drip flow.
func Tier(score int) string {
	switch {
	case score >= 14:
		return "BOOK"
	case score >= 10:
		return "REVIEW"
	default:
		return "NURTURE"
	}
}

func hasAny(haystack []string, needles ...string) bool {
	for _, h := range haystack {
		for _, n := range needles {
			if h == n {
				return true
			}
		}
	}
	return false
}
