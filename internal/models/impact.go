package models

// GroupImpact is the effect of a bill on one demographic group.
type GroupImpact struct {
	Score  int    `json:"score"`
	Reason string `json:"reason"`
}

// ImpactScore maps a group name, discovered per bill, to its impact.
type ImpactScore map[string]GroupImpact
