package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shakacode/steward/pkg/lib"
)

func newExecCmd() *cobra.Command {
	var (
		msg     string
		silent  bool
		capture bool
	)

	cmd := &cobra.Command{
		Use:   "exec -- <command>",
		Short: "Run a one-off command",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 {
				return errors.New("a command is required; use -- to separate CLI flags from the command")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if silent && capture {
				return errors.New("--silent and --capture are mutually exclusive")
			}

			cfg := loadConfig()
			oneOff := lib.Cmd{
				Exe: strings.Join(args, " "),
				Env: cfg.Env(),
				Pwd: Root(),
				Msg: msg,
			}
			ctx := lib.InterruptContext()

			switch {
			case silent:
				return oneOff.Silent(ctx)
			case capture:
				out, err := oneOff.Output(ctx)
				if err != nil {
					return err
				}
				if out.Interrupted() {
					lib.Print("Interrupted.")
					return nil
				}
				fmt.Print(out.UnwrapString())
				return nil
			default:
				return oneOff.Run(ctx)
			}
		},
	}

	cmd.Flags().StringVar(&msg, "msg", "", "message displayed in the headline")
	cmd.Flags().BoolVar(&silent, "silent", false, "discard the command's output")
	cmd.Flags().BoolVar(&capture, "capture", false, "capture stdout and print it once the command finishes")

	return cmd
}
