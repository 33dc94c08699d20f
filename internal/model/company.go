package model

// Company is the persisted company record the pipeline builds up across the
// three engines. The enrichment engines patch it field by field, so only the
// columns the discovery engine writes are modeled here.
type Company struct {
	CompanyID string   `json:"companyID"`
	Name      string   `json:"name"`
	Niche     string   `json:"niche,omitempty"`
	City      string   `json:"city,omitempty"`
	State     string   `json:"state,omitempty"`
	Users     []string `json:"users,omitempty"`

	CollectionStatus string `json:"collection_status,omitempty"`
	CollectionReason string `json:"collection_reason,omitempty"`
}
