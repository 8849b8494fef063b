// Command blend2d-build compiles the Blend2D engine into a static library and
// reports how to link it.
//
// Usage:
//
//	blend2d-build [command] [flags]
//
// Commands:
//
//	build      compile the static library and print link directives (default)
//	bindings   generate foreign-function bindings from the public header
//	flags      print the planned defines, includes and flags
//	link       print the link directives of the target OS
//	clean      remove the output directory
//
// All configuration comes from BLEND2D_* environment variables.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	blendbuild "github.com/contriboss/blend2d-build"
)

var lookupEnv blendbuild.LookupFunc = os.LookupEnv

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	command := "build"
	if len(args) > 0 && len(args[0]) > 0 && args[0][0] != '-' {
		command, args = args[0], args[1:]
	}

	fs := flag.NewFlagSet("blend2d-build "+command, flag.ContinueOnError)
	fs.SetOutput(stderr)
	force := fs.Bool("force", false, "recompile even if the build stamp is current")
	verbose := fs.Bool("v", false, "debug logging")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := blendbuild.LoadConfig(lookupEnv)
	if err != nil {
		return fail(stderr, err)
	}
	if *verbose {
		cfg.Verbose = true
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger := blendbuild.NewLogger(cfg.Verbose)
	logger.SetOutput(stderr)
	session := blendbuild.NewSession(cfg, logger)

	switch command {
	case "build":
		outcome, err := session.Build(ctx, blendbuild.Options{Force: *force})
		if err != nil {
			return fail(stderr, err)
		}
		printLines(stdout, outcome.Link.Directives())
	case "bindings":
		output, err := session.GenerateBindings(ctx)
		if err != nil {
			return fail(stderr, err)
		}
		fmt.Fprintln(stdout, output)
	case "flags":
		fmt.Fprint(stdout, blendbuild.PlanFor(cfg, blendbuild.DetectFamily(cfg)).String())
	case "link":
		printLines(stdout, blendbuild.LinkPlanFor(cfg.TargetOS).Directives())
	case "clean":
		if err := session.Clean(ctx); err != nil {
			return fail(stderr, err)
		}
	default:
		fmt.Fprintf(stderr, "unknown command %q\n", command)
		return 2
	}

	return 0
}

func fail(stderr io.Writer, err error) int {
	kind := blendbuild.Classify(err)
	fmt.Fprintf(stderr, "error (%s): %v\n", kind, err)
	return kind.ExitCode()
}

func printLines(w io.Writer, lines []string) {
	for _, line := range lines {
		fmt.Fprintln(w, line)
	}
}
