package enum

// PointEntryType represents the direction of a member point history entry
type PointEntryType string

const (
	PointEntryEarn   PointEntryType = "EARN"
	PointEntryRedeem PointEntryType = "REDEEM"
)
