package decision

// Action is the binary outcome of the decision rule
type Action string

const (
	Ship     Action = "ship"
	DontShip Action = "dont_ship"
)

// Decide applies the shipping rule to a point estimate of lift.
// Ties resolve to Ship, for every threshold including negative ones.
// The default decision uses the prior mean as the estimate; the
// post-experiment decision uses the posterior mean. All three
// calculators share this single function so tie-breaking is uniform.
func Decide(pointEstimate, threshold float64) Action {
	if pointEstimate >= threshold {
		return Ship
	}
	return DontShip
}
