package lifecycle

// Phase is a shipment's coarse fulfillment stage.
type Phase string

const (
	PhasePendingCategorization Phase = "pending_categorization"
	PhaseNeedsPackaging        Phase = "needs_packaging"
	PhaseNeedsStation          Phase = "needs_station"
	PhaseReadyToSession        Phase = "ready_to_session"
	PhaseFulfillmentPrep       Phase = "fulfillment_prep"
	PhaseReadyToShip           Phase = "ready_to_ship"
	PhaseOnHold                Phase = "on_hold"
	PhaseInTransit             Phase = "in_transit"
	PhaseDelivered             Phase = "delivered"
	PhaseCancelled             Phase = "cancelled"
)

// Subphases that are not copied from another signal.
const (
	SubphaseCarrierHold        = "carrier_hold"
	SubphaseMissingRequiredTag = "missing_required_tag"
	SubphaseLabelCreated       = "label_created"
	SubphaseQcPassed           = "qc_passed"
	SubphaseQcInProgress       = "qc_in_progress"
)

var knownPhases = map[Phase]struct{}{
	PhasePendingCategorization: {},
	PhaseNeedsPackaging:        {},
	PhaseNeedsStation:          {},
	PhaseReadyToSession:        {},
	PhaseFulfillmentPrep:       {},
	PhaseReadyToShip:           {},
	PhaseOnHold:                {},
	PhaseInTransit:             {},
	PhaseDelivered:             {},
	PhaseCancelled:             {},
}

func (p Phase) IsKnown() bool {
	_, ok := knownPhases[p]
	return ok
}

// IsPreSession reports whether a shipment in this phase can still have its
// packaging decision or its session link changed.
func (p Phase) IsPreSession() bool {
	switch p {
	case PhasePendingCategorization, PhaseNeedsPackaging, PhaseNeedsStation, PhaseReadyToSession:
		return true
	default:
		return false
	}
}

// State is the derived (phase, subphase) pair stored on a shipment.
type State struct {
	Phase    Phase
	Subphase string
}

func (s State) String() string {
	if s.Subphase == "" {
		return string(s.Phase)
	}
	return string(s.Phase) + "/" + s.Subphase
}
