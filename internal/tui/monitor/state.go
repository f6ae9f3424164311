package monitor

// ConnState tells whether the session server answered the last poll.
type ConnState int

const (
	ConnStateConnecting ConnState = iota // first poll pending or session lost
	ConnStateConnected
)

func (s ConnState) String() string {
	switch s {
	case ConnStateConnecting:
		return "Connecting"
	case ConnStateConnected:
		return "Connected"
	default:
		return "Unknown"
	}
}

func (s ConnState) IsConnected() bool { return s == ConnStateConnected }

// ConnectionStateMachine follows the session server across status polls.
type ConnectionStateMachine struct {
	State ConnState
	// ReconnectCnt counts drops from the connected state.
	ReconnectCnt int
	// Failures counts failed polls since the last answer.
	Failures int
}

func (m *ConnectionStateMachine) OnConnected() {
	m.State = ConnStateConnected
	m.Failures = 0
}

// OnDisconnected drops back to connecting. Only a drop from connected counts
// as a reconnect, so repeated failed polls do not inflate the counter.
func (m *ConnectionStateMachine) OnDisconnected() {
	if m.State == ConnStateConnected {
		m.ReconnectCnt++
	}
	m.State = ConnStateConnecting
	m.Failures++
}

// IsReconnecting reports whether a session was seen before and is now gone.
func (m *ConnectionStateMachine) IsReconnecting() bool {
	return m.ReconnectCnt > 0 && m.State == ConnStateConnecting
}
