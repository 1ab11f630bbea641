package handler

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/vonga-club/api/internal/database"
	"github.com/vonga-club/api/internal/enum"
	"github.com/vonga-club/api/internal/lead"
)

// LeadStore defines the database methods needed by the intake endpoints.
// Satisfied by *database.Queries.
type LeadStore interface {
	CreateLeadSubmission(ctx context.Context, arg database.CreateLeadSubmissionParams) (database.LeadSubmission, error)
	CreateClubRequest(ctx context.Context, arg database.CreateClubRequestParams) (database.ClubRequest, error)
}

// LeadNotifier posts inbound leads to the team channel.
type LeadNotifier interface {
	LeadReview(ctx context.Context, sub database.LeadSubmission)
	ClubRequest(ctx context.Context, req database.ClubRequest)
}

// ApptURLs maps lead owners to their booking calendars. Empty entries fall
// back to Default.
type ApptURLs struct {
	Default   string
	Pro       string
	SportEdu  string
	Partners  string
	Community string
	Digital   string
}

// For returns the booking calendar for an owner.
func (a ApptURLs) For(owner lead.Owner) string {
	var url string
	switch owner {
	case lead.OwnerPro:
		url = a.Pro
	case lead.OwnerSportEdu:
		url = a.SportEdu
	case lead.OwnerPartners:
		url = a.Partners
	case lead.OwnerCommunity:
		url = a.Community
	case lead.OwnerDigital:
		url = a.Digital
	}
	if url == "" {
		return a.Default
	}
	return url
}

// LeadHandler handles the public intake endpoints.
type LeadHandler struct {
	store    LeadStore
	notifier LeadNotifier
	appts    ApptURLs
}

// NewLeadHandler creates a new LeadHandler.
func NewLeadHandler(store LeadStore, notifier LeadNotifier, appts ApptURLs) *LeadHandler {
	return &LeadHandler{store: store, notifier: notifier, appts: appts}
}

// --- Request / Response types ---

type intakeRequest struct {
	Name         string   `json:"name"`
	Email        string   `json:"email"`
	Organization string   `json:"organization"`
	Website      string   `json:"website"`
	Role         string   `json:"role"`
	Vertical     string   `json:"vertical"`
	AudienceBand string   `json:"audience_band"`
	MOQBand      string   `json:"moq_band"`
	Timeline     string   `json:"timeline"`
	DecisionRole string   `json:"decision_role"`
	Goals        []string `json:"goals"`
	SuccessStory string   `json:"success_story"`
}

type intakeResponse struct {
	Score          int    `json:"score"`
	Owner          string `json:"owner"`
	Outcome        string `json:"outcome"`
	AppointmentURL string `json:"appointment_url,omitempty"`
	FitCategory    string `json:"fit_category"`
	FitMessage     string `json:"fit_message"`
}

type clubRequestBody struct {
	OrganizationName string `json:"organization_name"`
	ContactName      string `json:"contact_name"`
	Email            string `json:"email"`
	Phone            string `json:"phone"`
	OrganizationType string `json:"organization_type"`
	MemberCount      int32  `json:"member_count"`
	KitType          string `json:"kit_type"`
	GearType         string `json:"gear_type"`
}

// --- Handlers ---

// SubmitIntake handles POST /api/intake/submit.
// Scores the lead, persists it, posts it for review, and tells the caller
// where the lead landed.
func (h *LeadHandler) SubmitIntake(w http.ResponseWriter, r *http.Request) {
	var req intakeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Name == "" || req.Email == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name and email are required"})
		return
	}
	if req.Vertical == "" || req.AudienceBand == "" || req.MOQBand == "" ||
		req.Timeline == "" || req.DecisionRole == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "vertical, audience_band, moq_band, timeline and decision_role are required"})
		return
	}

	intake := lead.Intake{
		Vertical:     req.Vertical,
		AudienceBand: req.AudienceBand,
		MOQBand:      req.MOQBand,
		Timeline:     req.Timeline,
		DecisionRole: req.DecisionRole,
		Goals:        req.Goals,
	}
	score, owner := lead.Score(intake)
	tier := lead.Tier(score)
	insight := lead.FitInsight(intake)

	sub, err := h.store.CreateLeadSubmission(r.Context(), database.CreateLeadSubmissionParams{
		Name:         req.Name,
		Email:        req.Email,
		Organization: textOrEmpty(req.Organization),
		Website:      textOrEmpty(req.Website),
		Role:         textOrEmpty(req.Role),
		Vertical:     req.Vertical,
		AudienceBand: req.AudienceBand,
		MoqBand:      req.MOQBand,
		Timeline:     req.Timeline,
		DecisionRole: req.DecisionRole,
		Goals:        req.Goals,
		SuccessStory: textOrEmpty(req.SuccessStory),
		Score:        int32(score),
		Owner:        string(owner),
		Tier:         tier,
		FitCategory:  string(insight.Category),
		FitMessage:   insight.Message,
	})
	if err != nil {
		log.Printf("ERROR: create lead submission for %s: %v", req.Email, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	h.notifier.LeadReview(r.Context(), sub)

	resp := intakeResponse{
		Score:       score,
		Owner:       string(owner),
		Outcome:     tier,
		FitCategory: string(insight.Category),
		FitMessage:  insight.Message,
	}
	if tier == enum.LeadTierBook {
		resp.AppointmentURL = h.appts.For(owner)
	}

	writeJSON(w, http.StatusCreated, resp)
}

// SubmitClubRequest handles POST /api/club/get-started.
func (h *LeadHandler) SubmitClubRequest(w http.ResponseWriter, r *http.Request) {
	var req clubRequestBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.OrganizationName == "" || req.ContactName == "" || req.Email == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "organization_name, contact_name and email are required"})
		return
	}
	if req.KitType != enum.KitTypeCore && req.KitType != enum.KitTypePro {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid kit_type"})
		return
	}
	if req.MemberCount <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "member_count must be positive"})
		return
	}

	created, err := h.store.CreateClubRequest(r.Context(), database.CreateClubRequestParams{
		OrganizationName: req.OrganizationName,
		ContactName:      req.ContactName,
		Email:            req.Email,
		Phone:            textOrEmpty(req.Phone),
		OrganizationType: textOrEmpty(req.OrganizationType),
		MemberCount:      req.MemberCount,
		KitType:          req.KitType,
		GearType:         textOrEmpty(req.GearType),
	})
	if err != nil {
		log.Printf("ERROR: create club request for %s: %v", req.Email, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	h.notifier.ClubRequest(r.Context(), created)

	writeJSON(w, http.StatusCreated, map[string]string{"status": "received"})
}

// --- Helpers ---

func textOrEmpty(s string) pgtype.Text {
	if s == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: s, Valid: true}
}
