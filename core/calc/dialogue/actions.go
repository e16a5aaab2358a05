package dialogue

// Action is an outbound instruction for the transport.
type Action interface {
	Recipient() int64
	isAction()
}

// ShowMenu renders the operation menu.
type ShowMenu struct{ UserID int64 }

// PromptForInput asks for the operands of OperationID.
type PromptForInput struct {
	UserID      int64
	OperationID string
}

// ShowResult carries a successful calculation.
type ShowResult struct {
	UserID int64
	Text   string
	Value  float64
}

// ShowError carries a user-visible failure. Err keeps the cause for logging.
type ShowError struct {
	UserID int64
	Text   string
	Err    error
}

// ShowCancelled acknowledges a cancellation.
type ShowCancelled struct{ UserID int64 }

func (a ShowMenu) Recipient() int64       { return a.UserID }
func (a PromptForInput) Recipient() int64 { return a.UserID }
func (a ShowResult) Recipient() int64     { return a.UserID }
func (a ShowError) Recipient() int64      { return a.UserID }
func (a ShowCancelled) Recipient() int64  { return a.UserID }

func (ShowMenu) isAction()       {}
func (PromptForInput) isAction() {}
func (ShowResult) isAction()     {}
func (ShowError) isAction()      {}
func (ShowCancelled) isAction()  {}
