package domain

// CommandKind identifies a navigation command
type CommandKind int

const (
	CmdNone CommandKind = iota
	CmdMoveUp
	CmdMoveDown
	CmdMoveToFirst
	CmdMoveToLast
	CmdMovePageUp
	CmdMovePageDown
	CmdEnter
	CmdGoBack
	CmdGoForward
	CmdGoUp
	CmdRefresh
	CmdToggleHidden
	CmdCycleSort
	CmdEnterFilterMode
	CmdAppendFilterChar
	CmdBackspaceFilter
	CmdExitFilterMode
	CmdDescribe
	CmdWhereAmI
	CmdCopyPath
	CmdCancel
	CmdRepeat
	CmdHelp
	CmdCycleLayout
	CmdQuit
	CmdGoToPath
	CmdRename
	CmdDelete
	CmdAppendPromptChar
	CmdBackspacePrompt
	CmdClearPrompt
	CmdSubmitPrompt
	CmdCancelPrompt
)

var commandNames = map[CommandKind]string{
	CmdNone:             "none",
	CmdMoveUp:           "move_up",
	CmdMoveDown:         "move_down",
	CmdMoveToFirst:      "move_to_first",
	CmdMoveToLast:       "move_to_last",
	CmdMovePageUp:       "move_page_up",
	CmdMovePageDown:     "move_page_down",
	CmdEnter:            "enter",
	CmdGoBack:           "go_back",
	CmdGoForward:        "go_forward",
	CmdGoUp:             "go_up",
	CmdRefresh:          "refresh",
	CmdToggleHidden:     "toggle_hidden",
	CmdCycleSort:        "cycle_sort",
	CmdEnterFilterMode:  "enter_filter_mode",
	CmdAppendFilterChar: "append_filter_char",
	CmdBackspaceFilter:  "backspace_filter",
	CmdExitFilterMode:   "exit_filter_mode",
	CmdDescribe:         "describe",
	CmdWhereAmI:         "where_am_i",
	CmdCopyPath:         "copy_path",
	CmdCancel:           "cancel",
	CmdRepeat:           "repeat",
	CmdHelp:             "help",
	CmdCycleLayout:      "cycle_layout",
	CmdQuit:             "quit",
	CmdGoToPath:         "go_to_path",
	CmdRename:           "rename",
	CmdDelete:           "delete",
	CmdAppendPromptChar: "append_prompt_char",
	CmdBackspacePrompt:  "backspace_prompt",
	CmdClearPrompt:      "clear_prompt",
	CmdSubmitPrompt:     "submit_prompt",
	CmdCancelPrompt:     "cancel_prompt",
}

func (k CommandKind) String() string {
	if name, ok := commandNames[k]; ok {
		return name
	}
	return "unknown"
}

// CommandKindByName looks up a command by its config name
func CommandKindByName(name string) (CommandKind, bool) {
	for k, n := range commandNames {
		if n == name && k != CmdNone {
			return k, true
		}
	}
	return CmdNone, false
}

// Command is produced by the keyboard state machine and consumed by the navigator
type Command struct {
	Kind CommandKind
	Char rune // only for CmdAppendFilterChar and CmdAppendPromptChar
}

// Cmd is shorthand for a command without payload
func Cmd(kind CommandKind) Command {
	return Command{Kind: kind}
}

// AppendChar builds an AppendFilterChar command
func AppendChar(r rune) Command {
	return Command{Kind: CmdAppendFilterChar, Char: r}
}

// PromptChar builds an AppendPromptChar command
func PromptChar(r rune) Command {
	return Command{Kind: CmdAppendPromptChar, Char: r}
}

func (c Command) String() string {
	if c.Kind == CmdAppendFilterChar || c.Kind == CmdAppendPromptChar {
		return c.Kind.String() + "(" + string(c.Char) + ")"
	}
	return c.Kind.String()
}
