// Package navigation routes incoming push messages to app destinations. It
// decodes the payload's type tag once into a variant and dispatches per
// delivery channel: foreground deliveries show an interstitial alert before
// navigating, taps on background notifications and cold launches navigate
// directly.
package navigation

// Tab names. Content destinations live in the home tab stack, moderation
// screens in the profile tab stack.
const (
	TabHome    = "HomeTab"
	TabSearch  = "SearchTab"
	TabSaved   = "SavedTab"
	TabProfile = "ProfileTab"
)

// Screen names.
const (
	ScreenSchool         = "SchoolScreen"
	ScreenDorm           = "DormScreen"
	ScreenRoom           = "RoomScreen"
	ScreenPhoto          = "PhotoScreen"
	ScreenAdminHome      = "AdminHomeScreen"
	ScreenSchoolApproval = "SchoolApprovalScreen"
	ScreenDormApproval   = "DormApprovalScreen"
	ScreenPhotoApproval  = "PhotoApprovalScreen"
)

// Target is a navigation destination: a screen within a tab stack plus its
// route params.
type Target struct {
	Tab    string
	Screen string
	Params map[string]any
}

// Navigator performs navigation to a target.
type Navigator interface {
	Navigate(target Target)
}

// Alert is an interstitial dialog. ConfirmLabel is empty for dismiss-only
// alerts; when set, OnConfirm runs if the viewer confirms.
type Alert struct {
	Title        string
	Message      string
	Vibrate      bool
	ConfirmLabel string
	OnConfirm    func()
}

// AlertPresenter shows alerts to the viewer.
type AlertPresenter interface {
	Present(alert Alert)
}
