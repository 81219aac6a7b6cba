package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"airbutler/pkg/ai"
	"airbutler/pkg/butler"
	"airbutler/pkg/commands"

	tea "charm.land/bubbletea/v2"
	osc52 "github.com/aymanbagabas/go-osc52/v2"
)

// runPlain drives the widget from a line reader. Each command the widget
// returns is run to completion before the next line is read.
func runPlain(in io.Reader, out io.Writer, w *butler.Widget, d *commands.Dispatcher, ver string) error {
	w.Open()
	printed := 0
	printed = printNew(out, w, printed)
	printQuickReplies(out, w)

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if d.Handles(line) {
			res, ok := d.DispatchLine(line, commands.NewContext(w, ver))
			if !ok || res == nil {
				continue
			}
			switch res.Action {
			case commands.ActionClose:
				w.Close()
				return nil
			case commands.ActionCopy:
				if _, err := osc52.New(res.Content).WriteTo(out); err != nil {
					return err
				}
				fmt.Fprintln(out, "已复制对话记录")
				continue
			}
			fmt.Fprintln(out, strings.TrimRight(res.Content, "\n"))
			continue
		}

		var cmd tea.Cmd
		if reply, ok := pickQuickReply(w, line); ok {
			cmd = w.SubmitQuickReply(reply)
		} else {
			cmd = w.SubmitFreeText(line)
		}
		printed = printNew(out, w, printed)
		drain(w, cmd)
		printed = printNew(out, w, printed)
		printQuickReplies(out, w)
	}
	return scanner.Err()
}

// pickQuickReply maps "1".."n" onto the shown quick replies.
func pickQuickReply(w *butler.Widget, line string) (butler.QuickReply, bool) {
	replies := w.QuickReplies()
	n, err := strconv.Atoi(line)
	if err != nil || n < 1 || n > len(replies) {
		return butler.QuickReply{}, false
	}
	return replies[n-1], true
}

func drain(w *butler.Widget, cmd tea.Cmd) {
	for cmd != nil {
		msg := cmd()
		cmd = nil
		if batch, ok := msg.(tea.BatchMsg); ok {
			for _, c := range batch {
				drain(w, c)
			}
			continue
		}
		w.Update(msg)
	}
}

func printNew(out io.Writer, w *butler.Widget, from int) int {
	msgs := w.Messages()
	icons := w.Icons()
	for _, m := range msgs[from:] {
		// the user's own line is already on screen
		if m.Role == ai.RoleUser {
			continue
		}
		fmt.Fprintln(out, icons.Materialize(butler.IconBot+" "+m.Content))
	}
	return len(msgs)
}

func printQuickReplies(out io.Writer, w *butler.Widget) {
	replies := w.QuickReplies()
	if len(replies) == 0 {
		return
	}
	labels := make([]string, 0, len(replies))
	for i, r := range replies {
		labels = append(labels, fmt.Sprintf("[%d] %s", i+1, r.Text))
	}
	fmt.Fprintln(out, strings.Join(labels, "  "))
}
