package lead_test

import (
	"testing"

	"github.com/vonga-club/api/internal/lead"
)

func TestRouteOwner(t *testing.T) {
	cases := []struct {
		vertical string
		want     lead.Owner
	}{
		{"pro_team", lead.OwnerPro},
		{"league_association", lead.OwnerPro},
		{"event_operator", lead.OwnerPro},
		{"college_athletics", lead.OwnerSportEdu},
		{"youth_academy", lead.OwnerSportEdu},
		{"brand_sponsor", lead.OwnerPartners},
		{"retail_merch", lead.OwnerPartners},
		{"agency_integrator", lead.OwnerPartners},
		{"community_club", lead.OwnerCommunity},
		{"nonprofit_foundation", lead.OwnerCommunity},
		{"esports_digital", lead.OwnerDigital},
		{"something_else", lead.OwnerOther},
		{"", lead.OwnerOther},
	}

	for _, tc := range cases {
		if got := lead.RouteOwner(tc.vertical); got != tc.want {
			t.Errorf("RouteOwner(%q): got %s, want %s", tc.vertical, got, tc.want)
		}
	}
}

func TestScoreMaximum(t *testing.T) {
	score, owner := lead.Score(lead.Intake{
		Vertical:     "pro_team",
		AudienceBand: lead.AudienceOver1M,
		MOQBand:      lead.MOQOver100K,
		Timeline:     lead.TimelineASAP,
		DecisionRole: lead.RoleDecisionMaker,
		Goals:        []string{lead.GoalLastingFandom},
	})

	if score != 22 {
		t.Errorf("score: got %d, want 22", score)
	}
	if owner != lead.OwnerPro {
		t.Errorf("owner: got %s, want %s", owner, lead.OwnerPro)
	}
}

func TestScoreMinimum(t *testing.T) {
	score, _ := lead.Score(lead.Intake{
		Vertical:     "community_club",
		AudienceBand: lead.AudienceUnder10K,
		MOQBand:      lead.MOQUnder5K,
		Timeline:     lead.TimelineExploring,
		DecisionRole: lead.RoleExploring,
	})

	// Exploring timeline and role each still score 1.
	if score != 2 {
		t.Errorf("score: got %d, want 2", score)
	}
}

func TestScoreGoalBonusOnce(t *testing.T) {
	base := lead.Intake{
		Vertical:     "retail_merch",
		AudienceBand: lead.Audience10To50K,
		MOQBand:      lead.MOQ5KTo20K,
		Timeline:     lead.TimelineThisSeason,
		DecisionRole: lead.RoleTeam,
	}

	without, _ := lead.Score(base)

	base.Goals = []string{lead.GoalLastingFandom, lead.GoalConnectedApparel}
	with, _ := lead.Score(base)

	if with-without != 2 {
		t.Errorf("goal bonus: got %d, want 2", with-without)
	}

	base.Goals = []string{lead.GoalSponsorActivation}
	sponsorOnly, _ := lead.Score(base)
	if sponsorOnly != without {
		t.Errorf("sponsor goal should not score: got %d, want %d", sponsorOnly, without)
	}
}

func TestTier(t *testing.T) {
	cases := []struct {
		score int
		want  string
	}{
		{22, "BOOK"},
		{14, "BOOK"},
		{13, "REVIEW"},
		{10, "REVIEW"},
		{9, "NURTURE"},
		{0, "NURTURE"},
	}

	for _, tc := range cases {
		if got := lead.Tier(tc.score); got != tc.want {
			t.Errorf("Tier(%d): got %s, want %s", tc.score, got, tc.want)
		}
	}
}
