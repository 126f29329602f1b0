package bot

// Command names without the leading slash.
const (
	CommandStart = "start"
	CommandHelp  = "help"
	CommandMenu  = "menu"
)

// CallbackOption is the catch-all callback prefix used by the menu buttons, whose data is the bare
// option identifier.
const CallbackOption = ""
