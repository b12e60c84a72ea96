package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/mcdev12/wordarena/go/internal/arena"
	"github.com/rs/zerolog/log"
)

var errQuit = errors.New("quit")

// command is one parsed console line. Control commands have no intents.
type command struct {
	intents []arena.Intent
	control string
}

// parseCommand turns a console line into intents. "type WORD" expands into
// one key intent per letter.
func parseCommand(line string) (command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return command{}, nil
	}
	name, args := strings.ToLower(fields[0]), fields[1:]

	one := func(t arena.IntentType, value string) (command, error) {
		return command{intents: []arena.Intent{{Type: t, Value: value}}}, nil
	}
	needArg := func() error {
		if len(args) != 1 {
			return fmt.Errorf("%s takes exactly one argument", name)
		}
		return nil
	}

	switch name {
	case "channel":
		if err := needArg(); err != nil {
			return command{}, err
		}
		return one(arena.IntentChannel, args[0])
	case "room":
		if err := needArg(); err != nil {
			return command{}, err
		}
		return one(arena.IntentRoom, args[0])
	case "duel":
		if err := needArg(); err != nil {
			return command{}, err
		}
		return one(arena.IntentDuel, args[0])
	case "key":
		if err := needArg(); err != nil {
			return command{}, err
		}
		return one(arena.IntentKey, args[0])
	case "type":
		if err := needArg(); err != nil {
			return command{}, err
		}
		cmd := command{intents: make([]arena.Intent, 0, utf8.RuneCountInString(args[0]))}
		for _, r := range args[0] {
			cmd.intents = append(cmd.intents, arena.Intent{Type: arena.IntentKey, Value: string(r)})
		}
		return cmd, nil
	case "accept":
		return one(arena.IntentAccept, "")
	case "reject":
		return one(arena.IntentReject, "")
	case "enter":
		return one(arena.IntentEnter, "")
	case "del", "delete":
		return one(arena.IntentDelete, "")
	case "back":
		return one(arena.IntentBack, "")
	case "bg", "background":
		return one(arena.IntentBackground, "")
	case "fg", "foreground":
		return one(arena.IntentForeground, "")
	case "state", "logout", "quit", "help":
		return command{control: name}, nil
	}
	return command{}, fmt.Errorf("unknown command %q, try help", name)
}

const helpText = `commands:
  channel harfli|harfsiz   room 4-7        duel <uid>
  accept   reject          type <word>     key <letter>
  enter    del             back            bg   fg
  state    logout          quit`

// console feeds stdin lines into the runtime until quit or EOF.
type console struct {
	runtime *arena.Runtime
	out     io.Writer
}

func (c *console) run(in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if err := c.handle(scanner.Text()); err != nil {
			if errors.Is(err, errQuit) {
				return nil
			}
			fmt.Fprintln(c.out, err)
		}
	}
	return scanner.Err()
}

func (c *console) handle(line string) error {
	cmd, err := parseCommand(line)
	if err != nil {
		return err
	}

	switch cmd.control {
	case "quit":
		return errQuit
	case "help":
		fmt.Fprintln(c.out, helpText)
		return nil
	case "state":
		render(c.out, c.runtime.Store().Snapshot())
		return nil
	case "logout":
		if err := c.runtime.Logout(); err != nil {
			return err
		}
		return errQuit
	}

	for _, intent := range cmd.intents {
		if err := c.runtime.Submit(intent); err != nil {
			log.Debug().Err(err).Str("type", string(intent.Type)).Msg("intent not submitted")
			return err
		}
	}
	return nil
}
