package command

// Action is the closed set of things a turn can ask for
type Action string

const (
	ActionNewEmail Action = "NEW_EMAIL"
	ActionRevise   Action = "REVISE"
	ActionSend     Action = "SEND"
	ActionShow     Action = "SHOW"
	ActionCancel   Action = "CANCEL"
	ActionHelp     Action = "HELP"
)

func (a Action) String() string {
	return string(a)
}

// Mode selects how a REVISE command mutates the draft body
type Mode string

const (
	ModeManual     Mode = "manual"
	ModeEdit       Mode = "edit"
	ModeRegenerate Mode = "regenerate"
)

// Argument keys used in ParsedCommand.Args
const (
	ArgMode        = "mode"
	ArgInstruction = "instruction"
	ArgRaw         = "raw"
)

// ParsedCommand is the typed result of parsing one line of user text.
// Confidence is informational only.
type ParsedCommand struct {
	Action     Action
	Args       map[string]string
	Confidence float64
}

// Mode returns the revise mode, defaulting to edit.
func (c ParsedCommand) Mode() Mode {
	if m := c.Args[ArgMode]; m != "" {
		return Mode(m)
	}
	return ModeEdit
}

// Instruction returns the revise instruction, if any.
func (c ParsedCommand) Instruction() string {
	return c.Args[ArgInstruction]
}

// Raw returns the original text carried by a NEW_EMAIL command.
func (c ParsedCommand) Raw() string {
	return c.Args[ArgRaw]
}

func newCommand(action Action, confidence float64, kv ...string) ParsedCommand {
	args := make(map[string]string, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		args[kv[i]] = kv[i+1]
	}
	return ParsedCommand{Action: action, Args: args, Confidence: confidence}
}
