package service

// Push message types sent to connected clients
const (
	MsgAnalysisReady = "analysis_ready"
	MsgAlertCreated  = "alert_created"
)

// Notifier pushes messages to a user's live connections. Implemented by
// the websocket hub; defined here to avoid an import cycle.
type Notifier interface {
	NotifyUser(userID string, msgType string, payload interface{})
}

type noopNotifier struct{}

func (noopNotifier) NotifyUser(string, string, interface{}) {}
