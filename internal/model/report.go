package model

// CMSReport is the editorial record held by the CMS, matched against claim
// metadata by exact title
type CMSReport struct {
	ID               string  `json:"id"`
	Title            string  `json:"title"`
	Status           string  `json:"status,omitempty"`
	DateCreated      string  `json:"date_created,omitempty"`
	DateUpdated      string  `json:"date_updated,omitempty"`
	Slug             string  `json:"slug"`
	Story            string  `json:"story,omitempty"`
	BCRatio          float64 `json:"bc_ratio,omitempty"`
	VillagesImpacted int     `json:"villages_impacted,omitempty"`
	PeopleImpacted   int     `json:"people_impacted,omitempty"`
	VerifiedBy       string  `json:"verified_by,omitempty"`
	Byline           string  `json:"byline,omitempty"`
	TotalCost        string  `json:"total_cost,omitempty"` // Stored as text in the CMS, parsed at merge time

	// Excerpt is derived client-side from the story HTML; it is not a CMS field.
	Excerpt string `json:"excerpt,omitempty"`
}

// Report is the merged entity served to presentation layers: claim identity,
// resolved metadata fields, editorial fields, and the accumulated funding
// total. FundedSoFar is the only field mutated after population.
type Report struct {
	HypercertID       string   `json:"hypercertId"`
	Title             string   `json:"title"`
	Summary           string   `json:"summary,omitempty"`
	Image             string   `json:"image,omitempty"`
	OriginalReportURL string   `json:"originalReportUrl,omitempty"`
	State             string   `json:"state,omitempty"`
	Category          string   `json:"category,omitempty"`
	WorkTimeframe     string   `json:"workTimeframe,omitempty"`
	ImpactScope       string   `json:"impactScope,omitempty"`
	ImpactTimeframe   string   `json:"impactTimeframe,omitempty"`
	Contributors      []string `json:"contributors,omitempty"`

	CMSID            string  `json:"cmsId"`
	Status           string  `json:"status,omitempty"`
	DateCreated      string  `json:"dateCreated,omitempty"`
	DateUpdated      string  `json:"dateUpdated,omitempty"`
	Slug             string  `json:"slug"`
	Story            string  `json:"story,omitempty"`
	Excerpt          string  `json:"excerpt,omitempty"`
	BCRatio          float64 `json:"bcRatio,omitempty"`
	VillagesImpacted int     `json:"villagesImpacted,omitempty"`
	PeopleImpacted   int     `json:"peopleImpacted,omitempty"`
	VerifiedBy       string  `json:"verifiedBy,omitempty"`
	Byline           string  `json:"byline,omitempty"`

	TotalCost   float64 `json:"totalCost"`
	FundedSoFar float64 `json:"fundedSoFar"`
}
