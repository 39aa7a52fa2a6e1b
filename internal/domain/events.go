package domain

// Event bus topics.
const (
	TopicSessionLogin    = "session:login"
	TopicSessionLogout   = "session:logout"
	TopicSessionRegister = "session:register"
	TopicOrderSubmitted  = "order:submitted"
	TopicOrderCancelled  = "order:cancelled"
	TopicLandingUpdated  = "landing:updated"
)

// OrderSubmitted is published after the upstream API accepted a checkout.
type OrderSubmitted struct {
	OrderID  int64
	Total    float64
	Guest    bool
	Customer string
	RemoteIP string
}

// AuditEvent carries the actor of session and settings events.
type AuditEvent struct {
	Actor    string
	RemoteIP string
	Detail   string
}
