package lib

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

// Headline formats the line printed to console before running a command:
//
//	❯ Building server: $ go build ./... [@ my-project/server]
func Headline(cmd *Cmd) string {
	text := color.New(color.Faint).Sprintf("$ %s [@ %s]", cmd.Exe, Display(cmd.Pwd))
	if cmd.Msg == "" {
		return fmt.Sprintf("❯ %s", text)
	}
	return fmt.Sprintf("❯ %s %s", color.New(color.Bold).Sprintf("%s:", cmd.Msg), text)
}

// Print writes an ad-hoc headline-formatted message to stderr:
//
//	❯ Nothing to do. Exiting.
func Print(msg string) {
	fmt.Fprintln(os.Stderr, plainHeadline(msg))
}

func plainHeadline(msg string) string {
	return fmt.Sprintf("❯ %s", color.New(color.Bold).Sprint(msg))
}
