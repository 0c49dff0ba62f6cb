package navigation

import (
	"strings"

	"dormview_backend/internal/push"
)

// Message is a received push message: the data payload plus the notification
// title and body shown by the OS.
type Message struct {
	Type  string
	ID    string
	Title string
	Body  string
}

// MessageFromData builds a Message from a raw FCM data payload.
func MessageFromData(data map[string]string, title, body string) Message {
	return Message{
		Type:  data["type"],
		ID:    data["id"],
		Title: title,
		Body:  body,
	}
}

// Notice is the decoded form of a message's type tag. Exactly one variant
// matches each message.
type Notice interface {
	isNotice()
}

// ContentNotice points at a piece of content that went live.
type ContentNotice struct {
	Kind string // push.TypeSchool, push.TypeDorm or push.TypePhoto
	ID   string
}

// ModerationRequest asks an admin to review a pending submission.
type ModerationRequest struct {
	Screen string
}

// Dismissal carries information with no navigation target.
type Dismissal struct {
	Title string
}

// Unknown is a type tag the router does not recognize. Kind and ID are kept
// verbatim so a later navigation attempt can still be made with them.
type Unknown struct {
	Kind string
	ID   string
}

func (ContentNotice) isNotice()     {}
func (ModerationRequest) isNotice() {}
func (Dismissal) isNotice()         {}
func (Unknown) isNotice()           {}

// Alert titles for dismiss-only notices.
const (
	rejectionAlertTitle = "Uh oh!"
	feedbackAlertTitle  = "Admin Alert"
	fallbackAlertTitle  = "Hey!"
)

// Decode classifies a message by its type tag. It never fails: tags it does
// not recognize come back as Unknown.
func Decode(msg Message) Notice {
	switch msg.Type {
	case push.TypeSchool, push.TypeDorm, push.TypePhoto:
		return ContentNotice{Kind: msg.Type, ID: msg.ID}
	case push.TypeReject:
		return Dismissal{Title: rejectionAlertTitle}
	case push.TypeFeedback:
		return Dismissal{Title: feedbackAlertTitle}
	}

	if kind, ok := strings.CutPrefix(msg.Type, push.RequestTypePrefix); ok {
		return ModerationRequest{Screen: approvalScreenFor(kind)}
	}

	return Unknown{Kind: msg.Type, ID: msg.ID}
}

// approvalScreenFor maps a submission kind to its review screen. Kinds
// without a dedicated screen land on the admin dashboard.
func approvalScreenFor(kind string) string {
	switch kind {
	case push.TypeSchool:
		return ScreenSchoolApproval
	case push.TypeDorm:
		return ScreenDormApproval
	case push.TypePhoto:
		return ScreenPhotoApproval
	default:
		return ScreenAdminHome
	}
}

// contentTarget maps a content kind and ID to its destination. Returns false
// for kinds with no destination. Photo targets skip the interstitial ad on
// arrival.
func contentTarget(kind, id string) (Target, bool) {
	switch kind {
	case push.TypeSchool:
		return Target{Tab: TabHome, Screen: ScreenSchool, Params: map[string]any{"schoolId": id}}, true
	case push.TypeDorm:
		return Target{Tab: TabHome, Screen: ScreenDorm, Params: map[string]any{"dormId": id}}, true
	case push.TypePhoto:
		return Target{Tab: TabHome, Screen: ScreenPhoto, Params: map[string]any{"photoId": id, "bypassAd": true}}, true
	default:
		return Target{}, false
	}
}
