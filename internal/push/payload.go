package push

// Notification payload type tags. The mobile client routes on the "type"
// field of the data payload, so these values are part of the wire contract
// between the backend senders and the app's notification router.
const (
	TypeSchool   = "school"
	TypeDorm     = "dorm"
	TypePhoto    = "photo"
	TypeReject   = "reject"
	TypeFeedback = "feedback"

	// RequestTypePrefix prefixes moderation-request pushes sent to admins,
	// e.g. "request-school". The suffix names the submission kind.
	RequestTypePrefix = "request-"
)

// Payload is the data portion of a push message.
type Payload struct {
	Type string `json:"type"`
	ID   string `json:"id,omitempty"`
}

// Data converts the payload to the flat string map FCM expects.
func (p Payload) Data() map[string]string {
	data := map[string]string{"type": p.Type}
	if p.ID != "" {
		data["id"] = p.ID
	}
	return data
}
