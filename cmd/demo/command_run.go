package main

import (
	"errors"
	"fmt"
	"net"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/shakacode/steward/pkg/lib"
	"github.com/shakacode/steward/pkg/lib/dep"
)

func newRunCmd() *cobra.Command {
	var (
		waitTCP     string
		waitHTTP    string
		waitPath    string
		waitTimeout time.Duration
		warmUp      time.Duration
	)

	cmd := &cobra.Command{
		Use:   "run -- <command> [<command>...]",
		Short: "Run each command as a member of a supervised pool",
		Long: "Run each command as a member of a supervised pool. Output lines are\n" +
			"prefixed with a colored tag per command; Ctrl-C stops the whole pool,\n" +
			"force-killing anything that outlives its grace window.\n\n" +
			"When a --wait-* flag is given, every command after the first waits for\n" +
			"that dependency before starting (the first command is typically the one\n" +
			"providing it).",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 {
				return errors.New("at least one command is required; use -- to separate CLI flags from the commands")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			dependency, err := dependencyFromFlags(cfg, waitTCP, waitHTTP, waitPath, waitTimeout, warmUp)
			if err != nil {
				return err
			}

			entries := make([]lib.PoolEntry, 0, len(args))
			tags := map[string]int{}
			for i, exe := range args {
				process := lib.NewProcess(tagFor(exe, tags), lib.Cmd{
					Exe: exe,
					Env: cfg.Env(),
					Pwd: Root(),
				})
				entry := lib.PoolEntry{Process: process}
				if i > 0 {
					entry.Dependency = dependency
				}
				entries = append(entries, entry)
			}

			return lib.ProcessPool{}.RunWithDeps(entries)
		},
	}

	cmd.Flags().StringVar(&waitTCP, "wait-tcp", "", "host:port that must accept TCP connections")
	cmd.Flags().StringVar(&waitHTTP, "wait-http", "", "URL that must answer with a 2xx status")
	cmd.Flags().StringVar(&waitPath, "wait-path", "", "filesystem path that must exist")
	cmd.Flags().DurationVar(&waitTimeout, "wait-timeout", 30*time.Second, "how long to wait for the dependency")
	cmd.Flags().DurationVar(&warmUp, "warm-up", 0, "extra delay after a TCP dependency first accepts connections")

	return cmd
}

// dependencyFromFlags builds at most one dependency out of the --wait-*
// flags, falling back to the WAIT_TCP / WAIT_HTTP / WAIT_PATH config keys
// when no flag is given. Nil means nothing to wait for.
func dependencyFromFlags(cfg Config, waitTCP, waitHTTP, waitPath string, timeout, warmUp time.Duration) (dep.Dependency, error) {
	given := 0
	for _, flag := range []string{waitTCP, waitHTTP, waitPath} {
		if flag != "" {
			given++
		}
	}
	if given > 1 {
		return nil, errors.New("at most one of --wait-tcp, --wait-http, --wait-path may be given")
	}
	if given == 0 {
		waitTCP = cfg.Get("WAIT_TCP", "")
		waitHTTP = cfg.Get("WAIT_HTTP", "")
		waitPath = cfg.Get("WAIT_PATH", "")
	}

	switch {
	case waitTCP != "":
		host, port, err := net.SplitHostPort(waitTCP)
		if err != nil {
			return nil, fmt.Errorf("--wait-tcp: %w", err)
		}
		return dep.NewTCP(waitTCP, host, port, timeout, warmUp), nil
	case waitHTTP != "":
		return dep.NewHTTP(waitHTTP, waitHTTP, "", timeout), nil
	case waitPath != "":
		return dep.NewFile(waitPath, waitPath, timeout), nil
	default:
		return nil, nil
	}
}

// tagFor derives a pool tag from the first word of a command, suffixing
// duplicates so every entry stays attributable.
func tagFor(exe string, seen map[string]int) string {
	tag := "sh"
	if fields := strings.Fields(exe); len(fields) > 0 {
		tag = filepath.Base(fields[0])
	}
	seen[tag]++
	if n := seen[tag]; n > 1 {
		return fmt.Sprintf("%s-%d", tag, n)
	}
	return tag
}
