package vault

// State identifies where in the connect/mount/unmount lifecycle a
// session currently is. Only Idle, Connected and Active are resting
// states; the others are transient while a step runs.
type State int

const (
	StateIdle State = iota
	StateConnecting
	StateConnected
	StateUnlocking
	StateRemoteMounted
	StateBridging
	StateActive
	StateUnbridging
	StateRemoteUnmounting
	StateLocking
)

var stateNames = map[State]string{
	StateIdle:             "idle",
	StateConnecting:       "connecting",
	StateConnected:        "connected",
	StateUnlocking:        "unlocking",
	StateRemoteMounted:    "remote-mounted",
	StateBridging:         "bridging",
	StateActive:           "active",
	StateUnbridging:       "unbridging",
	StateRemoteUnmounting: "remote-unmounting",
	StateLocking:          "locking",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}
