//go:build mage

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/magefile/mage/mg"

	blendbuild "github.com/contriboss/blend2d-build"
)

// Default target to run when none is specified
var Default = Build

func session() (*blendbuild.Session, error) {
	cfg, err := blendbuild.LoadConfig(os.LookupEnv)
	if err != nil {
		return nil, err
	}
	return blendbuild.NewSession(cfg, nil), nil
}

// Build compiles the static library and writes the cgo link file
func Build(ctx context.Context) error {
	return build(ctx, blendbuild.Options{})
}

// Rebuild compiles the static library even if it is up to date
func Rebuild(ctx context.Context) error {
	return build(ctx, blendbuild.Options{Force: true})
}

func build(ctx context.Context, opts blendbuild.Options) error {
	s, err := session()
	if err != nil {
		return err
	}
	outcome, err := s.Build(ctx, opts)
	if err != nil {
		return mg.Fatal(blendbuild.Classify(err).ExitCode(), err)
	}
	fmt.Println(strings.Join(outcome.Link.Directives(), "\n"))
	return nil
}

// Bindings generates foreign-function bindings from the public header
func Bindings(ctx context.Context) error {
	s, err := session()
	if err != nil {
		return err
	}
	output, err := s.GenerateBindings(ctx)
	if err != nil {
		return mg.Fatal(blendbuild.Classify(err).ExitCode(), err)
	}
	fmt.Println(output)
	return nil
}

// All builds the library and generates bindings
func All(ctx context.Context) {
	mg.CtxDeps(ctx, Build, Bindings)
}

// Flags prints the planned compiler configuration
func Flags() error {
	cfg, err := blendbuild.LoadConfig(os.LookupEnv)
	if err != nil {
		return err
	}
	fmt.Print(blendbuild.PlanFor(cfg, blendbuild.DetectFamily(cfg)).String())
	return nil
}

// Clean removes the output directory
func Clean(ctx context.Context) error {
	s, err := session()
	if err != nil {
		return err
	}
	return s.Clean(ctx)
}
