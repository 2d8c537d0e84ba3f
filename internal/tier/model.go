package tier

// Definition is one tier in the tier configuration file: a payout cap and the
// set of asset categories it covers.
type Definition struct {
	Name       string   `json:"name"`
	PayoutCap  int64    `json:"payoutCap"`
	Categories []string `json:"categories"`
}

// File is the top-level shape of the tier configuration file.
type File struct {
	Tiers []Definition `json:"tiers"`
}
