package model

// Claim represents an on-chain hypercert claim returned by the indexer
type Claim struct {
	ID         string `json:"id"`                   // Claim identifier (contract address + token id)
	URI        string `json:"uri"`                  // Pointer to the off-chain metadata document
	Owner      string `json:"owner,omitempty"`      // Owner address the claim was queried by
	Creation   int64  `json:"creation,omitempty"`   // Creation timestamp (unix seconds)
	TotalUnits string `json:"totalUnits,omitempty"` // Total fraction units minted for the claim
}
