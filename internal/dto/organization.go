package dto

import (
	"time"

	"carbon-insights/internal/models"
)

type CreateOrganizationRequest struct {
	Name     string `json:"name" example:"Acme Steel"`
	Website  string `json:"website,omitempty" example:"https://acme.example"`
	OwnerRef string `json:"owner_ref,omitempty"`
}

type OrganizationResponse struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Website   *string `json:"website"`
	OwnerRef  *string `json:"owner_ref"`
	CreatedAt string  `json:"created_at"`
}

func NewOrganizationResponse(org *models.Organization) OrganizationResponse {
	return OrganizationResponse{
		ID:        org.ID,
		Name:      org.Name,
		Website:   org.Website,
		OwnerRef:  org.OwnerRef,
		CreatedAt: org.CreatedAt.Format(time.RFC3339),
	}
}

func NewOrganizationList(orgs []*models.Organization) []OrganizationResponse {
	out := make([]OrganizationResponse, len(orgs))
	for i, org := range orgs {
		out[i] = NewOrganizationResponse(org)
	}
	return out
}
