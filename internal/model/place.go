package model

import "slices"

// OpeningHours holds the schedule snippet returned by the places API.
type OpeningHours struct {
	OpenNow     bool     `json:"open_now,omitempty"`
	WeekdayText []string `json:"weekday_text,omitempty"`
}

// Place is a single business location discovered via text search, optionally
// enriched by a details lookup. The ID is the provider's opaque identifier.
type Place struct {
	ID                 string        `json:"id"`
	Name               string        `json:"name,omitempty"`
	FormattedAddress   string        `json:"formatted_address,omitempty"`
	Latitude           float64       `json:"lat"`
	Longitude          float64       `json:"lng"`
	Rating             float64       `json:"rating,omitempty"`
	UserRatingCount    int           `json:"user_ratings_total,omitempty"`
	Phone              string        `json:"formatted_phone_number,omitempty"`
	InternationalPhone string        `json:"international_phone_number,omitempty"`
	Website            string        `json:"website,omitempty"`
	MapsURL            string        `json:"url,omitempty"`
	BusinessStatus     string        `json:"business_status,omitempty"`
	Types              []string      `json:"types,omitempty"`
	OpeningHours       *OpeningHours `json:"opening_hours,omitempty"`
	PriceLevel         string        `json:"price_level,omitempty"`
}

// Merge overlays detail fields onto a search result. Non-zero detail fields
// win; search-only fields survive when the details call was skipped or
// returned less.
func (p Place) Merge(detail Place) Place {
	merged := p
	if detail.Name != "" {
		merged.Name = detail.Name
	}
	if detail.FormattedAddress != "" {
		merged.FormattedAddress = detail.FormattedAddress
	}
	if detail.Latitude != 0 || detail.Longitude != 0 {
		merged.Latitude = detail.Latitude
		merged.Longitude = detail.Longitude
	}
	if detail.Rating != 0 {
		merged.Rating = detail.Rating
	}
	if detail.UserRatingCount != 0 {
		merged.UserRatingCount = detail.UserRatingCount
	}
	if detail.Phone != "" {
		merged.Phone = detail.Phone
	}
	if detail.InternationalPhone != "" {
		merged.InternationalPhone = detail.InternationalPhone
	}
	if detail.Website != "" {
		merged.Website = detail.Website
	}
	if detail.MapsURL != "" {
		merged.MapsURL = detail.MapsURL
	}
	if detail.BusinessStatus != "" {
		merged.BusinessStatus = detail.BusinessStatus
	}
	if len(detail.Types) > 0 {
		merged.Types = detail.Types
	}
	if detail.OpeningHours != nil {
		merged.OpeningHours = detail.OpeningHours
	}
	if detail.PriceLevel != "" {
		merged.PriceLevel = detail.PriceLevel
	}
	return merged
}

// Equal reports whether two places carry the same attributes. Used to decide
// between an in-place update and a skip for already-persisted places.
func (p Place) Equal(other Place) bool {
	if p.ID != other.ID ||
		p.Name != other.Name ||
		p.FormattedAddress != other.FormattedAddress ||
		p.Latitude != other.Latitude ||
		p.Longitude != other.Longitude ||
		p.Rating != other.Rating ||
		p.UserRatingCount != other.UserRatingCount ||
		p.Phone != other.Phone ||
		p.InternationalPhone != other.InternationalPhone ||
		p.Website != other.Website ||
		p.MapsURL != other.MapsURL ||
		p.BusinessStatus != other.BusinessStatus ||
		p.PriceLevel != other.PriceLevel {
		return false
	}
	if !slices.Equal(p.Types, other.Types) {
		return false
	}
	switch {
	case p.OpeningHours == nil && other.OpeningHours == nil:
	case p.OpeningHours == nil || other.OpeningHours == nil:
		return false
	default:
		if p.OpeningHours.OpenNow != other.OpeningHours.OpenNow ||
			!slices.Equal(p.OpeningHours.WeekdayText, other.OpeningHours.WeekdayText) {
			return false
		}
	}
	return true
}

// PlaceRecord is the persisted form of a place, linked to its company.
type PlaceRecord struct {
	PlaceID   string `json:"placeID"`
	CompanyID string `json:"companyID"`
	Place     Place  `json:"place"`
}
