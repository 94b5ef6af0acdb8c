package main

import (
	"bufio"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"traverse3d/internal/components"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// command is one line of an input script: at Tick, deliver Event.
type command struct {
	Tick  int
	Event components.InputEvent
}

// parseScript reads "tick action [x y]" lines. Blank lines and lines starting
// with # are skipped. Commands come back ordered by tick, keeping file order
// within a tick.
func parseScript(r io.Reader) ([]command, error) {
	var cmds []command
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		cmd, err := parseCommand(strings.Fields(text))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		cmds = append(cmds, cmd)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	slices.SortStableFunc(cmds, func(a, b command) int { return a.Tick - b.Tick })
	return cmds, nil
}

func parseCommand(fields []string) (command, error) {
	if len(fields) != 2 && len(fields) != 4 {
		return command{}, fmt.Errorf("want 2 or 4 fields, got %d", len(fields))
	}
	tick, err := strconv.Atoi(fields[0])
	if err != nil || tick < 0 {
		return command{}, fmt.Errorf("bad tick %q", fields[0])
	}
	action, err := components.ParseInputAction(fields[1])
	if err != nil {
		return command{}, err
	}

	var value rl.Vector2
	if len(fields) == 4 {
		x, err := strconv.ParseFloat(fields[2], 32)
		if err != nil {
			return command{}, fmt.Errorf("bad x %q: %w", fields[2], err)
		}
		y, err := strconv.ParseFloat(fields[3], 32)
		if err != nil {
			return command{}, fmt.Errorf("bad y %q: %w", fields[3], err)
		}
		value = rl.Vector2{X: float32(x), Y: float32(y)}
	}
	return command{Tick: tick, Event: components.InputEvent{Action: action, Value: value}}, nil
}
