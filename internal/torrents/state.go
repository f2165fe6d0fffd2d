package torrents

// ConnState is the lifecycle state of the push channel.
type ConnState string

const (
	StateDisconnected ConnState = "disconnected"
	StateConnecting   ConnState = "connecting"
	StateConnected    ConnState = "connected"
)

// gaugeValue maps the state onto the connection-state metric.
func (s ConnState) gaugeValue() float64 {
	switch s {
	case StateConnecting:
		return 1
	case StateConnected:
		return 2
	default:
		return 0
	}
}
