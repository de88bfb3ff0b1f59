package tray

// Action is a command chosen by the user from the indicator
type Action int

const (
	ActionOpen Action = iota
	ActionEmpty
	ActionExit
)

func (a Action) String() string {
	switch a {
	case ActionOpen:
		return "open"
	case ActionEmpty:
		return "empty"
	case ActionExit:
		return "exit"
	default:
		return "unknown"
	}
}
