package access

const (
	CapCalculators = "calculators"
	CapProperties  = "properties"
	CapSimulations = "simulations"
	CapBilling     = "billing"
)

// CapabilitiesFor lists what the UI may offer. Calculators are public, and a
// past-due user keeps billing so they can fix the card.
func CapabilitiesFor(state State) []string {
	switch state {
	case StateActive, StateGrace:
		return []string{CapCalculators, CapProperties, CapSimulations, CapBilling}
	case StatePastDue:
		return []string{CapCalculators, CapBilling}
	default:
		return []string{CapCalculators}
	}
}
