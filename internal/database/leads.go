package database

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// LeadSubmission is a scored inbound lead from the intake form.
type LeadSubmission struct {
	ID           uuid.UUID
	Name         string
	Email        string
	Organization pgtype.Text
	Website      pgtype.Text
	Role         pgtype.Text
	Vertical     string
	AudienceBand string
	MoqBand      string
	Timeline     string
	DecisionRole string
	Goals        []string
	SuccessStory pgtype.Text
	Score        int32
	Owner        string
	Tier         string
	FitCategory  string
	FitMessage   string
	CreatedAt    time.Time
}

type CreateLeadSubmissionParams struct {
	Name         string
	Email        string
	Organization pgtype.Text
	Website      pgtype.Text
	Role         pgtype.Text
	Vertical     string
	AudienceBand string
	MoqBand      string
	Timeline     string
	DecisionRole string
	Goals        []string
	SuccessStory pgtype.Text
	Score        int32
	Owner        string
	Tier         string
	FitCategory  string
	FitMessage   string
}

const createLeadSubmission = `INSERT INTO lead_submissions (
	name, email, organization, website, role, vertical, audience_band, moq_band,
	timeline, decision_role, goals, success_story, score, owner, tier,
	fit_category, fit_message
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
RETURNING id, name, email, organization, website, role, vertical, audience_band, moq_band,
	timeline, decision_role, goals, success_story, score, owner, tier,
	fit_category, fit_message, created_at`

func (q *Queries) CreateLeadSubmission(ctx context.Context, arg CreateLeadSubmissionParams) (LeadSubmission, error) {
	row := q.db.QueryRow(ctx, createLeadSubmission,
		arg.Name, arg.Email, arg.Organization, arg.Website, arg.Role, arg.Vertical,
		arg.AudienceBand, arg.MoqBand, arg.Timeline, arg.DecisionRole, arg.Goals,
		arg.SuccessStory, arg.Score, arg.Owner, arg.Tier, arg.FitCategory, arg.FitMessage,
	)
	var l LeadSubmission
	err := row.Scan(
		&l.ID, &l.Name, &l.Email, &l.Organization, &l.Website, &l.Role, &l.Vertical,
		&l.AudienceBand, &l.MoqBand, &l.Timeline, &l.DecisionRole, &l.Goals,
		&l.SuccessStory, &l.Score, &l.Owner, &l.Tier, &l.FitCategory, &l.FitMessage, &l.CreatedAt,
	)
	return l, err
}

// ClubRequest is a starter-kit request from the get-started form.
type ClubRequest struct {
	ID               uuid.UUID
	OrganizationName string
	ContactName      string
	Email            string
	Phone            pgtype.Text
	OrganizationType pgtype.Text
	MemberCount      int32
	KitType          string
	GearType         pgtype.Text
	CreatedAt        time.Time
}

type CreateClubRequestParams struct {
	OrganizationName string
	ContactName      string
	Email            string
	Phone            pgtype.Text
	OrganizationType pgtype.Text
	MemberCount      int32
	KitType          string
	GearType         pgtype.Text
}

const createClubRequest = `INSERT INTO club_requests (
	organization_name, contact_name, email, phone, organization_type,
	member_count, kit_type, gear_type
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id, organization_name, contact_name, email, phone, organization_type,
	member_count, kit_type, gear_type, created_at`

func (q *Queries) CreateClubRequest(ctx context.Context, arg CreateClubRequestParams) (ClubRequest, error) {
	row := q.db.QueryRow(ctx, createClubRequest,
		arg.OrganizationName, arg.ContactName, arg.Email, arg.Phone, arg.OrganizationType,
		arg.MemberCount, arg.KitType, arg.GearType,
	)
	var c ClubRequest
	err := row.Scan(
		&c.ID, &c.OrganizationName, &c.ContactName, &c.Email, &c.Phone, &c.OrganizationType,
		&c.MemberCount, &c.KitType, &c.GearType, &c.CreatedAt,
	)
	return c, err
}
