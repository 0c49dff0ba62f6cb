package navigation

import "dormview_backend/internal/mobile/session"

// Router dispatches push messages to navigation and alerts.
type Router struct {
	nav      Navigator
	alerts   AlertPresenter
	sessions *session.Store
}

// NewRouter creates a Router. The session store gates moderation alerts:
// they are only shown to a signed-in viewer.
func NewRouter(nav Navigator, alerts AlertPresenter, sessions *session.Store) *Router {
	return &Router{
		nav:      nav,
		alerts:   alerts,
		sessions: sessions,
	}
}

// HandleForeground handles a message received while the app is visible. The
// viewer is interrupted mid-task, so every route shows an alert first and
// only navigates on confirmation.
func (r *Router) HandleForeground(msg Message) {
	switch n := Decode(msg).(type) {
	case ContentNotice:
		target, ok := contentTarget(n.Kind, n.ID)
		if !ok {
			return
		}
		r.alerts.Present(Alert{
			Title:        alertTitle(msg, fallbackAlertTitle),
			Message:      msg.Body,
			Vibrate:      true,
			ConfirmLabel: "See It!",
			OnConfirm:    func() { r.nav.Navigate(target) },
		})

	case ModerationRequest:
		if !r.sessions.SignedIn() {
			return
		}
		target := Target{Tab: TabProfile, Screen: n.Screen}
		r.alerts.Present(Alert{
			Title:        alertTitle(msg, fallbackAlertTitle),
			Message:      msg.Body,
			Vibrate:      true,
			ConfirmLabel: "See It!",
			OnConfirm:    func() { r.nav.Navigate(target) },
		})

	case Dismissal:
		r.alerts.Present(Alert{
			Title:   n.Title,
			Message: msg.Body,
			Vibrate: true,
		})

	case Unknown:
		// Keep the verbatim kind and id: the confirm action attempts
		// content navigation and no-ops if the kind has no destination.
		r.alerts.Present(Alert{
			Title:        fallbackAlertTitle,
			Message:      msg.Body,
			Vibrate:      true,
			ConfirmLabel: "See It!",
			OnConfirm: func() {
				if target, ok := contentTarget(n.Kind, n.ID); ok {
					r.nav.Navigate(target)
				}
			},
		})
	}
}

// HandleBackgroundTap handles the viewer tapping a notification delivered
// while the app was backgrounded. The tap already expressed intent, so
// navigation is direct.
func (r *Router) HandleBackgroundTap(msg Message) {
	r.navigateDirect(msg)
}

// HandleLaunch handles a notification that launched the app from a
// terminated state. Same direct navigation as a background tap.
func (r *Router) HandleLaunch(msg Message) {
	r.navigateDirect(msg)
}

func (r *Router) navigateDirect(msg Message) {
	switch n := Decode(msg).(type) {
	case ContentNotice:
		if target, ok := contentTarget(n.Kind, n.ID); ok {
			r.nav.Navigate(target)
		}
	case ModerationRequest:
		r.nav.Navigate(Target{Tab: TabProfile, Screen: n.Screen})
	case Dismissal, Unknown:
		// No destination.
	}
}

func alertTitle(msg Message, fallback string) string {
	if msg.Title != "" {
		return msg.Title
	}
	return fallback
}
