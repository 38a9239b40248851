package api

// ChangeChannel is the Redis channel carrying visitor request change
// events. Delivery is at-most-once per connected client; a station that
// was offline catches up via its next full re-fetch, not via replay.
const ChangeChannel = "visitor_requests:changes"

// Event types on the change channel.
const (
	EventInsert = "insert"
	EventUpdate = "update"
)

// ChangeEvent is one insert/update notification for the request table.
type ChangeEvent struct {
	EventType string         `json:"event_type"`
	Table     string         `json:"table"`
	Record    VisitorRequest `json:"record"`
}
