// Package lib provides building blocks for defining and running tasks: one-off
// shell commands, long running processes, and pools of processes supervised
// together until the user interrupts them.
//
// A Cmd describes a shell invocation with its environment and working
// directory. Long running commands are wrapped into Process values and handed
// to a ProcessPool, optionally gated on a dependency from the dep package
// (for example a TCP port or an HTTP endpoint) that must become available
// first:
//
//	build := lib.Cmd{
//		Exe: "go build ./...",
//		Env: lib.EmptyEnv(),
//		Pwd: loc.Root(),
//		Msg: "Building server",
//	}
//	if err := build.Run(lib.InterruptContext()); err != nil {
//		return err
//	}
//
//	pool := lib.ProcessPool{}
//	return pool.RunWithDeps([]lib.PoolEntry{
//		{Process: lib.NewProcess("server", serverCmd)},
//		{
//			Process:    lib.NewProcess("client", clientCmd),
//			Dependency: dep.NewHTTP("server", "http://localhost:8080/", "", 30*time.Second),
//		},
//	})
//
// The pool multiplexes child output with colored, column-aligned tag
// prefixes. On Ctrl-C every child gets its kill timeout to exit gracefully
// before being force-killed; a child that survives even the forced kill is
// reported as a zombie for manual cleanup.
package lib
