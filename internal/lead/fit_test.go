package lead_test

import (
	"testing"

	"github.com/vonga-club/api/internal/lead"
)

func TestFitInsightStrong(t *testing.T) {
	insight := lead.FitInsight(lead.Intake{
		AudienceBand: lead.Audience50To250K,
		MOQBand:      lead.MOQ20KTo100K,
		Timeline:     lead.TimelineASAP,
		Goals:        []string{lead.GoalLastingFandom},
	})
	if insight.Category != lead.FitStrong {
		t.Errorf("category: got %s, want %s", insight.Category, lead.FitStrong)
	}
}

func TestFitInsightStrongViaAudience(t *testing.T) {
	// No fandom goal, but big MOQ + near-term + large audience still wins.
	insight := lead.FitInsight(lead.Intake{
		AudienceBand: lead.AudienceOver1M,
		MOQBand:      lead.MOQOver100K,
		Timeline:     lead.TimelineThisSeason,
	})
	if insight.Category != lead.FitStrong {
		t.Errorf("category: got %s, want %s", insight.Category, lead.FitStrong)
	}
}

func TestFitInsightScaleReadiness(t *testing.T) {
	insight := lead.FitInsight(lead.Intake{
		AudienceBand: lead.AudienceUnder10K,
		MOQBand:      lead.MOQ5KTo20K,
		Timeline:     lead.TimelineASAP,
		Goals:        []string{lead.GoalLastingFandom},
	})
	if insight.Category != lead.FitScaleReadiness {
		t.Errorf("category: got %s, want %s", insight.Category, lead.FitScaleReadiness)
	}
}

func TestFitInsightTimingMisalignment(t *testing.T) {
	insight := lead.FitInsight(lead.Intake{
		AudienceBand: lead.Audience50To250K,
		MOQBand:      lead.MOQ5KTo20K,
		Timeline:     lead.TimelineExploring,
		Goals:        []string{lead.GoalLastingFandom},
	})
	if insight.Category != lead.FitTimingMisalignment {
		t.Errorf("category: got %s, want %s", insight.Category, lead.FitTimingMisalignment)
	}
}

func TestFitInsightResourceAlignment(t *testing.T) {
	insight := lead.FitInsight(lead.Intake{
		AudienceBand: lead.Audience10To50K,
		MOQBand:      lead.MOQ5KTo20K,
		Timeline:     lead.TimelineASAP,
		Goals:        []string{lead.GoalSponsorActivation},
	})
	if insight.Category != lead.FitResourceAlignment {
		t.Errorf("category: got %s, want %s", insight.Category, lead.FitResourceAlignment)
	}
}

func TestFitInsightStrategic(t *testing.T) {
	// No fandom or sponsor goals at all.
	insight := lead.FitInsight(lead.Intake{
		AudienceBand: lead.Audience50To250K,
		MOQBand:      lead.MOQ5KTo20K,
		Timeline:     lead.TimelineASAP,
	})
	if insight.Category != lead.FitStrategic {
		t.Errorf("category: got %s, want %s", insight.Category, lead.FitStrategic)
	}
}

func TestFitInsightAmbiguous(t *testing.T) {
	insight := lead.FitInsight(lead.Intake{
		AudienceBand: lead.Audience50To250K,
		MOQBand:      lead.MOQ5KTo20K,
		Timeline:     lead.TimelineASAP,
		Goals:        []string{lead.GoalLastingFandom, lead.GoalSponsorActivation},
	})
	if insight.Category != lead.FitAmbiguous {
		t.Errorf("category: got %s, want %s", insight.Category, lead.FitAmbiguous)
	}
	if insight.Message == "" {
		t.Error("expected a non-empty message")
	}
}

func TestFitInsightStrongBeatsSmallScale(t *testing.T) {
	// Rule order: strong fit wins even when the audience is small.
	insight := lead.FitInsight(lead.Intake{
		AudienceBand: lead.AudienceUnder10K,
		MOQBand:      lead.MOQOver100K,
		Timeline:     lead.TimelineASAP,
		Goals:        []string{lead.GoalConnectedApparel},
	})
	if insight.Category != lead.FitStrong {
		t.Errorf("category: got %s, want %s", insight.Category, lead.FitStrong)
	}
}
