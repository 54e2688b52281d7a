package registry

import "assetdesk/models"

// Stats is the dashboard aggregation. Always recomputed from the full asset
// list; nothing is maintained incrementally.
type Stats struct {
	TotalAssets     int                `json:"totalAssets"`
	TotalValue      float64            `json:"totalValue"`
	CountsByStatus  map[string]int     `json:"countsByStatus"`
	ValueByCategory map[string]float64 `json:"valueByCategory"`
}

// ComputeStats is pure: missing purchase costs count as zero.
func ComputeStats(assets []models.Asset) Stats {
	stats := Stats{
		TotalAssets:     len(assets),
		CountsByStatus:  map[string]int{},
		ValueByCategory: map[string]float64{},
	}
	for _, a := range assets {
		stats.TotalValue += a.PurchaseCost
		stats.CountsByStatus[a.Status]++
		if a.Category != "" {
			stats.ValueByCategory[a.Category] += a.PurchaseCost
		}
	}
	return stats
}
