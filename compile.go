package blendbuild

import (
	"context"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/crypto/blake2b"
)

// compileCommand returns the argument list compiling src into obj.
type compileCommand func(src, obj string) []string

// compileObjects compiles every source of req into objDir, running at most
// req.Jobs compiler processes at a time.
//
// Output lines are appended to result in source order regardless of which
// process finishes first. The first failure cancels the processes still
// running and is returned wrapped in ErrCompile; no retry is attempted.
func compileObjects(ctx context.Context, builder string, req *CompileRequest, objDir, objExt string, command compileCommand, result *BuildResult) ([]string, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := req.Jobs
	if jobs < 1 {
		jobs = 1
	}

	type outcome struct {
		lines []string
		err   error
	}

	objects := make([]string, len(req.Sources))
	outcomes := make([]outcome, len(req.Sources))
	sem := make(chan struct{}, jobs)
	failed := -1
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i, src := range req.Sources {
		objects[i] = filepath.Join(objDir, objectName(src, objExt))

		wg.Add(1)
		go func(i int, src string) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				outcomes[i].err = ctx.Err()
				return
			}
			defer func() { <-sem }()

			lines, err := runTool(ctx, req, req.Toolchain.Compiler, command(src, objects[i]))
			outcomes[i] = outcome{lines: lines, err: err}
			if err != nil {
				mu.Lock()
				if failed < 0 && ctx.Err() == nil {
					failed = i
				}
				mu.Unlock()
				cancel()
			}
		}(i, src)
	}
	wg.Wait()

	for _, o := range outcomes {
		result.Output = append(result.Output, o.lines...)
	}

	if failed >= 0 {
		o := outcomes[failed]
		return nil, fmt.Errorf("%w: %s: %w", ErrCompile, req.Sources[failed], BuildError(builder, o.lines, o.err))
	}
	for _, o := range outcomes {
		if o.err != nil {
			// Only cancellations were recorded.
			return nil, fmt.Errorf("%w: %w", ErrCompile, o.err)
		}
	}

	return objects, nil
}

// objectName derives a collision-free object file name for src. Sources in
// different directories may share a base name.
func objectName(src, ext string) string {
	sum := blake2b.Sum256([]byte(filepath.ToSlash(src)))
	base := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	return base + "-" + hex.EncodeToString(sum[:4]) + ext
}

// compileError marks err as a compilation failure.
func compileError(err error) error {
	return fmt.Errorf("%w: %w", ErrCompile, err)
}
