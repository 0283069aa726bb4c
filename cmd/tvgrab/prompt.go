package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/voyagen/tvgrab/internal/models"
)

// prompt asks about each channel on out, reading answers from in.
// "all" and "none" answer for every remaining channel.
type prompt struct {
	in   *bufio.Reader
	out  io.Writer
	rest *bool
}

func newPrompt(in io.Reader, out io.Writer) *prompt {
	return &prompt{in: bufio.NewReader(in), out: out}
}

func (p *prompt) Select(ch models.Channel) (bool, error) {
	if p.rest != nil {
		return *p.rest, nil
	}
	for {
		fmt.Fprintf(p.out, "add channel %s? [yes,no,all,none (default=yes)] ", ch.Name)
		line, err := p.in.ReadString('\n')
		answer := strings.TrimSpace(line)
		if err != nil && (err != io.EOF || answer == "") {
			return false, fmt.Errorf("read answer for channel %d: %w", ch.ID, err)
		}
		switch answer {
		case "", "yes":
			return true, nil
		case "no":
			return false, nil
		case "all", "none":
			v := answer == "all"
			p.rest = &v
			return v, nil
		}
	}
}
