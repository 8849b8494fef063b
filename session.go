package blendbuild

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/magefile/mage/sh"
	"github.com/sirupsen/logrus"
)

// LibName is the base name of the static library every build produces.
const LibName = "blend2d"

// Options adjust a single Session.Build call.
type Options struct {
	// Force recompiles even when the build stamp says the artifact is current.
	Force bool
}

// Outcome describes a finished build.
type Outcome struct {
	Artifact    string     // Path of the static library
	Toolchain   *Toolchain // Resolved compiler and archiver
	Flags       FlagSet    // Flags the sources were compiled with
	Link        LinkPlan   // System libraries required by the artifact
	CgoFile     string     // Path of the emitted cgo link file
	Installed   []string   // Files copied into Config.InstallDir
	Fingerprint string     // Fingerprint recorded in the build stamp
	Skipped     bool       // True if compilation was skipped as up to date
	Result      *BuildResult
}

// Session runs the build pipeline for one captured Config.
//
// # Pipeline
//
//  1. DiscoverSources over both source roots
//  2. ResolveToolchain
//  3. PlanFor the target architecture, toolchain family and profile
//  4. Builder.Build, skipped when the build stamp is current
//  5. LinkPlanFor the target OS, rendered as a cgo link file
//
// The steps run strictly in this order and once per Build call. Bindings are
// generated independently by GenerateBindings.
type Session struct {
	ID string

	cfg     *Config
	log     *logrus.Entry
	factory *BuilderFactory
}

// NewSession creates a session for cfg logging through logger. A nil logger
// selects NewLogger(cfg.Verbose).
func NewSession(cfg *Config, logger *logrus.Logger) *Session {
	if logger == nil {
		logger = NewLogger(cfg.Verbose)
	}

	id := uuid.NewString()
	return &Session{
		ID:  id,
		cfg: cfg,
		log: logger.WithFields(logrus.Fields{
			"session": id,
			"arch":    cfg.TargetArch,
			"os":      cfg.TargetOS,
			"profile": cfg.Profile,
		}),
		factory: NewBuilderFactory(),
	}
}

// Config returns the configuration the session was created with.
func (s *Session) Config() *Config {
	return s.cfg
}

// Build runs the pipeline and returns its outcome.
//
// Any error is fatal, wraps one of the package sentinels and leaves no
// partial artifact behind.
func (s *Session) Build(ctx context.Context, opts Options) (*Outcome, error) {
	log := s.log.WithField("function", "Build")
	log.WithField("consulted", s.cfg.Consulted()).Debug("Configuration captured")

	sources, err := DiscoverSources(s.cfg.SourceRoots(), DefaultSourceExtensions...)
	if err != nil {
		log.WithField("error", err.Error()).Error("Source discovery failed")
		return nil, err
	}
	log.WithField("sources", len(sources)).Info("Sources discovered")

	tc, err := ResolveToolchain(s.cfg)
	if err != nil {
		log.WithField("error", err.Error()).Error("Toolchain resolution failed")
		return nil, err
	}
	log.WithFields(logrus.Fields{
		"family":   tc.Family.String(),
		"compiler": tc.Compiler,
		"archiver": tc.Archiver,
	}).Info("Toolchain resolved")
	if log.Logger.IsLevelEnabled(logrus.DebugLevel) {
		log.WithField("version", CompilerVersion(ctx, tc)).Debug("Compiler version")
	}

	fs := PlanFor(s.cfg, tc.Family)
	log.WithFields(logrus.Fields{
		"defines":    len(fs.Defines),
		"flags":      len(fs.Flags),
		"production": fs.HasDefine(ProductionDefine),
	}).Debug("Flags planned")
	s.reportHost(log)

	builder, err := s.factory.BuilderFor(tc.Family)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(s.cfg.OutDir, 0o755); err != nil {
		return nil, err
	}

	req := &CompileRequest{
		Sources:   sources,
		Flags:     fs,
		Toolchain: tc,
		OutDir:    s.cfg.OutDir,
		LibName:   LibName,
		Profile:   s.cfg.Profile,
		Jobs:      s.cfg.Jobs,
		Verbose:   s.cfg.Verbose,
	}

	outcome := &Outcome{
		Artifact:    builder.ArtifactPath(req),
		Toolchain:   tc,
		Flags:       fs,
		Fingerprint: Fingerprint(tc, fs, sources),
	}

	current := false
	if !opts.Force {
		current, err = upToDate(s.cfg.OutDir, outcome.Artifact, outcome.Fingerprint, s.cfg.SourceRoots())
		if err != nil {
			log.WithField("error", err.Error()).Warn("Build stamp unreadable, rebuilding")
			current = false
		}
	}

	if current {
		outcome.Skipped = true
		log.WithField("artifact", outcome.Artifact).Info("Artifact up to date")
	} else {
		_ = os.Remove(filepath.Join(s.cfg.OutDir, StampFile))

		log.WithFields(logrus.Fields{
			"builder": builder.Name(),
			"jobs":    req.Jobs,
		}).Info("Compiling")

		result, err := builder.Build(ctx, req)
		outcome.Result = result
		if result != nil {
			for _, line := range result.Output {
				log.Debug(line)
			}
		}
		if err != nil {
			log.WithField("error", err.Error()).Error("Compilation failed")
			return nil, err
		}

		if err := writeStamp(s.cfg.OutDir, outcome.Fingerprint); err != nil {
			return nil, err
		}
		log.WithFields(logrus.Fields{
			"artifact": result.Artifact,
			"objects":  len(result.Objects),
		}).Info("Artifact built")
	}

	if err := s.link(outcome); err != nil {
		return nil, err
	}

	return outcome, nil
}

// link computes the link plan and writes the cgo link file, installing the
// artifact alongside it when an install directory is configured.
func (s *Session) link(outcome *Outcome) error {
	log := s.log.WithField("function", "link")

	outcome.Link = LinkPlanFor(s.cfg.TargetOS)
	if len(outcome.Link.Libs) == 0 {
		log.Warn("No system libraries known for target OS")
	}

	dir := s.cfg.OutDir
	if s.cfg.InstallDir != "" {
		dir = s.cfg.InstallDir
		installed, err := installFiles(dir, []string{outcome.Artifact})
		if err != nil {
			return err
		}
		outcome.Installed = installed
		log.WithFields(logrus.Fields{
			"dir":   dir,
			"files": installed,
		}).Info("Artifact installed")
	}

	cgoFile, err := outcome.Link.WriteCgoFile(dir, s.cfg.CgoPackage, LibName)
	if err != nil {
		return err
	}
	outcome.CgoFile = cgoFile
	log.WithFields(logrus.Fields{
		"file": cgoFile,
		"libs": outcome.Link.Libs,
	}).Debug("Link file written")

	return nil
}

// reportHost warns about enabled tiers the build host cannot execute. It only
// applies when the target architecture is the host's.
func (s *Session) reportHost(log *logrus.Entry) {
	if s.cfg.TargetArch != hostArch() {
		return
	}
	ladder, ok := LadderFor(s.cfg.TargetArch)
	if !ok {
		return
	}
	if missing := MissingOnHost(ladder.Enabled(s.cfg.EnableAVX512)); len(missing) > 0 {
		log.WithField("tiers", missing).Warn("Host CPU lacks enabled feature tiers")
	}
}

// GenerateBindings runs the configured binding generator over the public
// header and returns the path of the generated source.
func (s *Session) GenerateBindings(ctx context.Context) (string, error) {
	log := s.log.WithField("function", "GenerateBindings")

	generator, err := NewBindingGenerator(s.cfg)
	if err != nil {
		return "", err
	}

	req := DefaultBindingRequest(s.cfg)
	log.WithFields(logrus.Fields{
		"generator": generator.Name(),
		"header":    req.Header,
	}).Info("Generating bindings")

	output, err := generator.Generate(ctx, req)
	if err != nil {
		log.WithField("error", err.Error()).Error("Binding generation failed")
		return "", err
	}

	log.WithField("output", output).Info("Bindings generated")
	return output, nil
}

// Clean removes what Build produced: the objects and artifact through the
// family's builder, the installed copies and cgo file, then OutDir itself.
func (s *Session) Clean(ctx context.Context) error {
	log := s.log.WithFields(logrus.Fields{
		"function": "Clean",
		"dir":      s.cfg.OutDir,
	})

	builder, err := s.factory.BuilderFor(DetectFamily(s.cfg))
	if err != nil {
		return err
	}

	req := &CompileRequest{OutDir: s.cfg.OutDir, LibName: LibName, Profile: s.cfg.Profile}
	log.WithField("builder", builder.Name()).Info("Removing build output")
	if err := builder.Clean(ctx, req); err != nil {
		return fmt.Errorf("clean %s: %w", s.cfg.OutDir, err)
	}

	if s.cfg.InstallDir != "" {
		installed := []string{
			filepath.Join(s.cfg.InstallDir, filepath.Base(builder.ArtifactPath(req))),
			filepath.Join(s.cfg.InstallDir, CgoFileName),
		}
		for _, path := range installed {
			if err := sh.Rm(path); err != nil {
				return fmt.Errorf("clean %s: %w", path, err)
			}
		}
		log.WithField("install_dir", s.cfg.InstallDir).Debug("Installed files removed")
	}

	if err := sh.Rm(s.cfg.OutDir); err != nil {
		return fmt.Errorf("clean %s: %w", s.cfg.OutDir, err)
	}
	return nil
}
