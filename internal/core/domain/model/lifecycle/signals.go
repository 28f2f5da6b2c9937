package lifecycle

// CarrierStatus is the latest tracking status reported by the carrier.
type CarrierStatus string

const (
	CarrierNone           CarrierStatus = ""
	CarrierLabelCreated   CarrierStatus = "label_created"
	CarrierInTransit      CarrierStatus = "in_transit"
	CarrierOutForDelivery CarrierStatus = "out_for_delivery"
	CarrierDelivered      CarrierStatus = "delivered"
	CarrierException      CarrierStatus = "exception"
	CarrierCancelled      CarrierStatus = "cancelled"
)

// QcStatus is the packing-station quality check state.
type QcStatus string

const (
	QcNone       QcStatus = "none"
	QcInProgress QcStatus = "in_progress"
	QcPassed     QcStatus = "passed"
)

// FingerprintComplete is the fingerprint status of a fully classified shipment.
const FingerprintComplete = "complete"

// Signals are the independent shipment attributes a lifecycle phase is derived from.
type Signals struct {
	FingerprintStatus string
	HasPackaging      bool
	HasStation        bool
	SessionLinked     bool
	SessionStatus     string
	QcStatus          QcStatus
	CarrierStatus     CarrierStatus
	HasTracking       bool
	OnHold            bool
	Cancelled         bool
	Tags              []string
	RequiredTags      []string
}

func (s Signals) missingRequiredTag() bool {
	if len(s.RequiredTags) == 0 {
		return false
	}
	present := make(map[string]struct{}, len(s.Tags))
	for _, t := range s.Tags {
		present[t] = struct{}{}
	}
	for _, t := range s.RequiredTags {
		if _, ok := present[t]; !ok {
			return true
		}
	}
	return false
}
