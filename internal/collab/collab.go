// Package collab defines the thin collaborator interfaces the scheduling
// core depends on but does not implement: notification/window/audio
// presentation and a suggestions catalog. Only their interfaces matter to
// the core; concrete UI/audio/platform implementations live
// outside this module. No-op implementations here make the core runnable
// and testable headless.
package collab

import (
	"github.com/pilgrimlyieu/focust/internal/config"
	"github.com/pilgrimlyieu/focust/internal/log"
	"github.com/pilgrimlyieu/focust/internal/model"
)

// PromptPayload is handed to the window-creation collaborator when the
// break scheduler or attention timer needs to present a prompt.
type PromptPayload struct {
	ID               uint32
	Kind             string // "mini" | "long" | "attention"
	Title            string
	MessageKey       string
	Message          string
	ScheduleName     string
	DurationS        int32
	StrictMode       bool
	Theme            config.ThemeConfig
	Background       string
	Suggestion       string
	Audio            config.AudioSettings
	PostponeShortcut string
	AllScreens       bool
	Language         string
	PostponeCount    uint8
	MaxPostponeCount uint8
}

// NotificationSink delivers a short pre-break notification to the user.
type NotificationSink interface {
	// Notify presents a notification for the upcoming event. Implementations
	// should return promptly; the scheduler treats failure as non-fatal
	// Failures are logged at warn and swallowed; notification delivery
	// is best-effort.
	Notify(kind string, title, message string) error
}

// WindowFactory creates and tears down the full/partial prompt window for
// a break or attention session.
type WindowFactory interface {
	// Open presents a prompt window for payload. Implementations should be
	// fire-and-forget from the caller's perspective; failure ends the
	// session cleanly rather than wedging the scheduler in InBreak.
	Open(payload PromptPayload) error
	// Close dismisses any open window(s) for the given event, e.g. on
	// postpone, skip, or PromptFinished.
	Close(event model.SchedulerEvent) error
}

// AudioPlayer plays the configured break/attention sound.
type AudioPlayer interface {
	Play(settings config.AudioSettings) error
}

// Suggestions resolves an optional activity suggestion shown during a
// break (e.g. "stretch your wrists"). Resolution logic lives outside the
// core; only this interface is depended on.
type Suggestions interface {
	Suggest(kind string) string
}

// NoopNotificationSink discards every notification. Useful for headless
// runs and unit tests.
type NoopNotificationSink struct{}

func (NoopNotificationSink) Notify(string, string, string) error { return nil }

// NoopWindowFactory never actually presents anything, but satisfies the
// interface so the core can run without a real UI collaborator.
type NoopWindowFactory struct{}

func (NoopWindowFactory) Open(PromptPayload) error            { return nil }
func (NoopWindowFactory) Close(model.SchedulerEvent) error     { return nil }

// NoopAudioPlayer never plays anything.
type NoopAudioPlayer struct{}

func (NoopAudioPlayer) Play(config.AudioSettings) error { return nil }

// NoopSuggestions always returns no suggestion.
type NoopSuggestions struct{}

func (NoopSuggestions) Suggest(string) string { return "" }

// LoggingNotificationSink logs each notification instead of presenting
// it. The daemon uses it when no NotificationSink is supplied.
type LoggingNotificationSink struct{}

func (LoggingNotificationSink) Notify(kind, title, message string) error {
	log.Info(log.CatCollaborator, "notification", "kind", kind, "title", title, "message", message)
	return nil
}

// LoggingWindowFactory logs prompt open/close instead of presenting a
// real window. The daemon uses it when no WindowFactory is supplied.
type LoggingWindowFactory struct{}

func (LoggingWindowFactory) Open(payload PromptPayload) error {
	log.Info(log.CatCollaborator, "prompt window opened", "kind", payload.Kind, "id", payload.ID, "title", payload.Title)
	return nil
}

func (LoggingWindowFactory) Close(event model.SchedulerEvent) error {
	log.Info(log.CatCollaborator, "prompt window closed", "event_kind", event.Kind.String())
	return nil
}
