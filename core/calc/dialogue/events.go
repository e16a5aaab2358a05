package dialogue

// Event is an inbound user action delivered by the transport.
type Event interface {
	User() int64
	isEvent()
}

// StartCommand asks for the operation menu.
type StartCommand struct{ UserID int64 }

// MenuSelection is a press of an operation button.
type MenuSelection struct {
	UserID      int64
	OperationID string
}

// TextInput is a plain text message.
type TextInput struct {
	UserID int64
	Text   string
}

// CancelCommand aborts the pending operation.
type CancelCommand struct{ UserID int64 }

// Unrecognized is an update the transport could not map to any other event.
type Unrecognized struct {
	UserID int64
	Reason string
}

func (e StartCommand) User() int64  { return e.UserID }
func (e MenuSelection) User() int64 { return e.UserID }
func (e TextInput) User() int64     { return e.UserID }
func (e CancelCommand) User() int64 { return e.UserID }
func (e Unrecognized) User() int64  { return e.UserID }

func (StartCommand) isEvent()  {}
func (MenuSelection) isEvent() {}
func (TextInput) isEvent()     {}
func (CancelCommand) isEvent() {}
func (Unrecognized) isEvent()  {}

// eventName is used for log attributes.
func eventName(ev Event) string {
	switch ev.(type) {
	case StartCommand:
		return "start"
	case MenuSelection:
		return "menu_selection"
	case TextInput:
		return "text_input"
	case CancelCommand:
		return "cancel"
	case Unrecognized:
		return "unrecognized"
	default:
		return "unknown"
	}
}
