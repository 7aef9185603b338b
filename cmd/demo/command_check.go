package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/spf13/cobra"

	"github.com/shakacode/steward/pkg/lib"
	"github.com/shakacode/steward/pkg/lib/dep"
)

func newCheckCmd() *cobra.Command {
	var (
		tcpAddr string
		httpURL string
		path    string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Probe dependencies once and report their state",
		RunE: func(cmd *cobra.Command, args []string) error {
			var deps []dep.Dependency
			if tcpAddr != "" {
				host, port, err := net.SplitHostPort(tcpAddr)
				if err != nil {
					return fmt.Errorf("--tcp: %w", err)
				}
				deps = append(deps, dep.NewTCP(tcpAddr, host, port, 0, 0))
			}
			if httpURL != "" {
				deps = append(deps, dep.NewHTTP(httpURL, httpURL, "", 0))
			}
			if path != "" {
				deps = append(deps, dep.NewFile(path, path, 0))
			}
			if len(deps) == 0 {
				return errors.New("nothing to check; give at least one of --tcp, --http, --path")
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			failed := 0
			for _, dependency := range deps {
				if err := dependency.Check(ctx); err != nil {
					failed++
					lib.Print(fmt.Sprintf("%s: unavailable (%v)", dependency.Tag(), err))
					continue
				}
				lib.Print(fmt.Sprintf("%s: available", dependency.Tag()))
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d dependencies unavailable", failed, len(deps))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&tcpAddr, "tcp", "", "host:port to probe with a TCP connection")
	cmd.Flags().StringVar(&httpURL, "http", "", "URL to probe with an HTTP request")
	cmd.Flags().StringVar(&path, "path", "", "filesystem path to probe for existence")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Second, "overall probe timeout")

	return cmd
}
