package domain

const (
	EventLinkCreated              = "affiliate.link.created"
	EventClickRecorded            = "affiliate.click.recorded"
	EventConversionAttributed     = "affiliate.conversion.attributed"
	EventTierChanged              = "affiliate.tier.changed"
	EventTransactionStatusChanged = "affiliate.transaction.status_changed"
)

func IsEmittedEvent(eventType string) bool {
	switch eventType {
	case EventLinkCreated, EventClickRecorded, EventConversionAttributed, EventTierChanged, EventTransactionStatusChanged:
		return true
	default:
		return false
	}
}

// EventPartitionKeyPath names the envelope field consumers partition on.
// Every emitted event partitions by creator so per-creator ordering holds.
func EventPartitionKeyPath(eventType string) string {
	if IsEmittedEvent(eventType) {
		return "data.creator_id"
	}
	return ""
}
