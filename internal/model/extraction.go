package model

// Address is a physical address parsed into its Brazilian components.
type Address struct {
	Street     string `json:"street,omitempty"`
	Number     string `json:"number,omitempty"`
	District   string `json:"district,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
}

// Phone is a single phone number extracted from website text, tagged with
// the channel it belongs to: fixed, mobile, whatsapp, fax or other.
type Phone struct {
	Number string `json:"number"`
	Type   string `json:"type,omitempty"`
}

// Extraction is the structured payload the LLM produces from crawled website
// text. Every field is optional; absent fields stay nil so the persisted
// patch only carries what was actually found.
type Extraction struct {
	BrandName     *string           `json:"brand_name,omitempty"`
	Addresses     []Address         `json:"addresses,omitempty"`
	Phones        []Phone           `json:"phones,omitempty"`
	History       *string           `json:"history,omitempty"`
	Products      []string          `json:"products,omitempty"`
	Services      []string          `json:"services,omitempty"`
	Brands        []string          `json:"brands,omitempty"`
	SocialLinks   map[string]string `json:"social_links,omitempty"`
	CNPJ          *string           `json:"cnpj,omitempty"`
	OffersSummary *string           `json:"offers_summary,omitempty"`
}

// Empty reports whether the extraction carries no data at all.
func (e Extraction) Empty() bool {
	return e.BrandName == nil &&
		len(e.Addresses) == 0 &&
		len(e.Phones) == 0 &&
		e.History == nil &&
		len(e.Products) == 0 &&
		len(e.Services) == 0 &&
		len(e.Brands) == 0 &&
		len(e.SocialLinks) == 0 &&
		e.CNPJ == nil &&
		e.OffersSummary == nil
}
