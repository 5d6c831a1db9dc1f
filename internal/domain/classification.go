package domain

// Classification is the three-way verdict over a check-in response.
type Classification string

const (
	// ClassificationSuccess means the portal reported a fresh check-in.
	ClassificationSuccess Classification = "success"
	// ClassificationRedundant means the portal rejected the check-in only
	// because it was already done earlier today.
	ClassificationRedundant Classification = "redundant"
	// ClassificationFailure means the check-in genuinely failed.
	ClassificationFailure Classification = "failure"
)
