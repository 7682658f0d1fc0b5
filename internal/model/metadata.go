package model

import "strings"

// Metadata is the off-chain descriptive document a claim's URI resolves to.
// The shape follows the hypercert metadata standard: top-level ERC-1155
// style fields plus a nested hypercert object with scoped attributes.
type Metadata struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Image       string             `json:"image,omitempty"`
	ExternalURL string             `json:"external_url,omitempty"`
	Properties  []MetadataProperty `json:"properties,omitempty"`
	Hypercert   HypercertData      `json:"hypercert"`
}

// MetadataProperty is a single entry of the metadata properties list
type MetadataProperty struct {
	TraitType string `json:"trait_type,omitempty"`
	Value     string `json:"value"`
}

// HypercertData carries the scoped work/impact attributes of a claim
type HypercertData struct {
	WorkScope       ScopeAttribute     `json:"work_scope"`
	WorkTimeframe   TimeframeAttribute `json:"work_timeframe"`
	ImpactScope     ScopeAttribute     `json:"impact_scope"`
	ImpactTimeframe TimeframeAttribute `json:"impact_timeframe"`
	Contributors    ScopeAttribute     `json:"contributors"`
}

// ScopeAttribute holds a list-valued hypercert attribute
type ScopeAttribute struct {
	Name         string   `json:"name,omitempty"`
	Value        []string `json:"value"`
	DisplayValue string   `json:"display_value,omitempty"`
}

// TimeframeAttribute holds a [from, to] unix-seconds pair
type TimeframeAttribute struct {
	Name         string  `json:"name,omitempty"`
	Value        []int64 `json:"value"`
	DisplayValue string  `json:"display_value,omitempty"`
}

// stateTrait is the property tag carrying the report's state/region.
const stateTrait = "state"

// State returns the state/region property of the document. Lookup is by
// trait_type; documents from older mints omit the tag, so the first entry
// of the properties list is the fallback. The positional fallback is an
// inherited quirk of the metadata producer, not a contract.
func (m *Metadata) State() string {
	for _, p := range m.Properties {
		if strings.EqualFold(p.TraitType, stateTrait) {
			return p.Value
		}
	}
	if len(m.Properties) > 0 {
		return m.Properties[0].Value
	}
	return ""
}
