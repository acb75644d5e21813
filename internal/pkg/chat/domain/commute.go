package chat

// CommuteUpdateType enumerates the quick status updates commuters can post.
type CommuteUpdateType string

const (
	CommuteDelayed   CommuteUpdateType = "delayed"
	CommuteOnTime    CommuteUpdateType = "on_time"
	CommuteCrowded   CommuteUpdateType = "crowded"
	CommuteNormal    CommuteUpdateType = "normal"
	CommuteCancelled CommuteUpdateType = "cancelled"
)

var commuteUpdateText = map[CommuteUpdateType]string{
	CommuteDelayed:   "🚂 Trains are running delayed",
	CommuteOnTime:    "✅ Trains are running on time",
	CommuteCrowded:   "👥 Trains are crowded",
	CommuteNormal:    "😌 Normal crowd levels",
	CommuteCancelled: "❌ Services cancelled",
}

// CommuteUpdateText returns the canned message body for an update type.
// Unknown types fall back to a generic label rather than failing the send.
func CommuteUpdateText(t CommuteUpdateType) string {
	if s, ok := commuteUpdateText[t]; ok {
		return s
	}
	return "Commute update"
}
