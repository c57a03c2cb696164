package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Verb identifies an interactive command.
type Verb int

const (
	VerbNext Verb = iota
	VerbBack
	VerbJump
	VerbChoose
	VerbSet
	VerbReset
	VerbView
	VerbHelp
	VerbQuit
)

// Command is a parsed line of interactive input.
type Command struct {
	Verb Verb
	// N is the 1-based scene or option number for jump and choose.
	N     int
	Key   string
	Value any
}

var verbs = map[string]Verb{
	"":       VerbNext,
	"n":      VerbNext,
	"next":   VerbNext,
	"b":      VerbBack,
	"back":   VerbBack,
	"prev":   VerbBack,
	"j":      VerbJump,
	"jump":   VerbJump,
	"c":      VerbChoose,
	"choose": VerbChoose,
	"s":      VerbSet,
	"set":    VerbSet,
	"reset":  VerbReset,
	"v":      VerbView,
	"view":   VerbView,
	"h":      VerbHelp,
	"help":   VerbHelp,
	"?":      VerbHelp,
	"q":      VerbQuit,
	"quit":   VerbQuit,
	"exit":   VerbQuit,
}

// Usage lists the interactive commands.
const Usage = `Commands:
  [enter], next      go to the next scene
  back               go to the previous scene
  jump <n>           go to scene number n
  choose <n>         pick option n of the current scene
  set <key>=<value>  record a value
  reset              start over and clear your choices
  view               show the current scene again
  quit               leave (progress is kept)`

// ParseCommand parses one line of interactive input.
func ParseCommand(line string) (Command, error) {
	line = strings.TrimSpace(line)
	word, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	verb, ok := verbs[strings.ToLower(word)]
	if !ok {
		return Command{}, fmt.Errorf("unknown command %q (type help)", word)
	}
	cmd := Command{Verb: verb}

	switch verb {
	case VerbJump, VerbChoose:
		n, err := strconv.Atoi(rest)
		if err != nil {
			return Command{}, fmt.Errorf("%s expects a number, got %q", word, rest)
		}
		cmd.N = n
	case VerbSet:
		key, raw, found := strings.Cut(rest, "=")
		key = strings.TrimSpace(key)
		if !found || key == "" {
			return Command{}, fmt.Errorf("set expects key=value, got %q", rest)
		}
		cmd.Key = key
		cmd.Value = parseValue(strings.TrimSpace(raw))
	}
	return cmd, nil
}

// parseValue decodes JSON scalars and falls back to the raw string.
func parseValue(raw string) any {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err == nil {
		switch v.(type) {
		case float64, bool, nil:
			return v
		}
	}
	return raw
}
