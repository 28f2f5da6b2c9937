package lifecycle

// Derive computes a shipment's lifecycle state from its current signals.
//
// The first matching rule wins:
//
//	cancelled flag / carrier cancelled   -> cancelled
//	carrier delivered                    -> delivered
//	carrier in transit                   -> in_transit/<carrier status>
//	hold flag / carrier exception        -> on_hold/carrier_hold
//	required tag missing                 -> on_hold/missing_required_tag
//	tracking number present              -> ready_to_ship/label_created
//	linked to a session                  -> fulfillment_prep/<qc or session status>
//	fingerprint not complete             -> pending_categorization/<fingerprint status>
//	no packaging type                    -> needs_packaging
//	no station                           -> needs_station
//	otherwise                            -> ready_to_session
//
// Derive reads nothing but its argument, so recomputing after a missed update
// always converges on the same answer.
func Derive(s Signals) State {
	switch {
	case s.Cancelled || s.CarrierStatus == CarrierCancelled:
		return State{Phase: PhaseCancelled}
	case s.CarrierStatus == CarrierDelivered:
		return State{Phase: PhaseDelivered}
	case s.CarrierStatus == CarrierInTransit || s.CarrierStatus == CarrierOutForDelivery:
		return State{Phase: PhaseInTransit, Subphase: string(s.CarrierStatus)}
	case s.OnHold || s.CarrierStatus == CarrierException:
		return State{Phase: PhaseOnHold, Subphase: SubphaseCarrierHold}
	case s.missingRequiredTag():
		return State{Phase: PhaseOnHold, Subphase: SubphaseMissingRequiredTag}
	case s.HasTracking:
		return State{Phase: PhaseReadyToShip, Subphase: SubphaseLabelCreated}
	case s.SessionLinked:
		return State{Phase: PhaseFulfillmentPrep, Subphase: prepSubphase(s)}
	case s.FingerprintStatus != FingerprintComplete:
		status := s.FingerprintStatus
		if status == "" {
			status = string(PhasePendingCategorization)
		}
		return State{Phase: PhasePendingCategorization, Subphase: status}
	case !s.HasPackaging:
		return State{Phase: PhaseNeedsPackaging}
	case !s.HasStation:
		return State{Phase: PhaseNeedsStation}
	default:
		return State{Phase: PhaseReadyToSession}
	}
}

func prepSubphase(s Signals) string {
	switch s.QcStatus {
	case QcPassed:
		return SubphaseQcPassed
	case QcInProgress:
		return SubphaseQcInProgress
	}
	return s.SessionStatus
}
