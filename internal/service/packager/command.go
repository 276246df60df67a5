package packager

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sdpulse/sd-packager/internal/archive"
	"github.com/sdpulse/sd-packager/internal/config"
	"github.com/sdpulse/sd-packager/internal/domain/plugin"
	"github.com/sdpulse/sd-packager/internal/exclude"
	"github.com/sdpulse/sd-packager/internal/logger"
	"github.com/sdpulse/sd-packager/internal/service/common"
)

// Options contains inputs for the packager entry point.
type Options struct {
	// ConfigPath is an optional path to the packaging settings YAML.
	ConfigPath string
	// SourceDir is an optional explicit plugin source directory. When empty,
	// the source is resolved from configuration or the invocation directory.
	SourceDir string
	// OutputDir is the directory the archive is written to.
	// Empty means the invocation directory.
	OutputDir string
	// OutputName overrides the archive filename from config or manifest.
	OutputName string
}

// packager holds the resolved inputs of a single packaging run.
// It is unexported—callers should use Run, which encapsulates setup and validation.
type packager struct {
	// sourceDir is the validated plugin source directory.
	sourceDir string
	// manifest is the parsed plugin manifest from the source directory.
	manifest *plugin.Manifest
	// excl filters development artifacts out of the staged copy.
	excl *exclude.Set
	// folderName is the top-level folder name used inside the archive.
	folderName string
	// outputPath is the final destination of the archive.
	outputPath string
}

// Run executes the packaging workflow.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "sd-packager")

	pkg, err := newPackager(ctx, opts)
	if err != nil {
		return fmt.Errorf("initialize packager: %w", err)
	}

	if err = pkg.Run(ctx); err != nil {
		return fmt.Errorf("packager failed: %w", err)
	}

	logger.Info(ctx, "Packager completed successfully")

	return nil
}

// newPackager resolves the source directory, manifest, exclusion set and
// output location for a single run. Every failure here is a source or
// configuration error.
func newPackager(ctx context.Context, opts *Options) (*packager, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, stepError("load configuration", ExitSourceError, err)
	}

	// Flag overrides get the same bare-name validation as YAML settings.
	if err = config.CheckBareName(opts.OutputName); err != nil {
		return nil, stepError("validate output name", ExitSourceError, err)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, stepError("resolve working directory", ExitSourceError, err)
	}

	sourceDir, err := resolveSourceDir(cwd, opts.SourceDir, cfg.SourceDir)
	if err != nil {
		return nil, stepError("resolve source directory", ExitSourceError, err)
	}

	logger.InfoKV(ctx, "Resolved plugin source", "source_dir", sourceDir)

	manifest, err := plugin.Load(sourceDir)
	if err != nil {
		return nil, stepError("load plugin manifest", ExitSourceError, err)
	}

	excl, err := exclude.NewSet(cfg.Exclude...)
	if err != nil {
		return nil, stepError("build exclusion set", ExitSourceError, err)
	}

	logger.DebugKV(ctx, "Exclusion patterns", "patterns", excl.Patterns())

	folderName := cfg.PluginFolder
	if folderName == "" {
		folderName = manifest.FolderName()
	}

	outputName := manifest.ArchiveName()
	if cfg.OutputName != "" {
		outputName = cfg.OutputName
	}

	if opts.OutputName != "" {
		outputName = opts.OutputName
	}

	outputDir := opts.OutputDir
	if outputDir == "" {
		outputDir = cwd
	}

	return &packager{
		sourceDir:  sourceDir,
		manifest:   manifest,
		excl:       excl,
		folderName: folderName,
		outputPath: filepath.Join(outputDir, outputName),
	}, nil
}

// Run drives the staged-copy, archive and finalize steps.
// The staging directory is removed on every exit path.
func (p *packager) Run(ctx context.Context) error {
	logger.InfoKV(ctx, "Packaging plugin",
		"uuid", p.manifest.UUID,
		"plugin_version", p.manifest.Version,
		"folder", p.folderName)

	staging, err := os.MkdirTemp("", "sd-packager-*")
	if err != nil {
		return stepError("create staging directory", ExitSourceError, err)
	}

	defer func() {
		if removeErr := os.RemoveAll(staging); removeErr != nil {
			logger.WarnKV(ctx, "Failed to remove staging directory",
				"staging_dir", staging, "error", removeErr)
		}
	}()

	stagedRoot := filepath.Join(staging, p.folderName)

	copied, err := p.stageTree(ctx, stagedRoot)
	if err != nil {
		return stepError("stage plugin files", ExitSourceError, err)
	}

	if copied == 0 {
		return stepError("stage plugin files", ExitSourceError, errSourceEmpty)
	}

	logger.InfoKV(ctx, "Staged plugin files", "files", copied, "staging_dir", staging)

	archivePath := filepath.Join(staging, filepath.Base(p.outputPath))

	entries, err := archive.WriteDir(ctx, stagedRoot, p.folderName, archivePath)
	if err != nil {
		return stepError("compress plugin folder", ExitArchiveError, err)
	}

	if err = p.finalize(ctx, archivePath); err != nil {
		return stepError("finalize archive", ExitFinalizeError, err)
	}

	p.reportSuccess(ctx, entries)

	return nil
}

// finalize moves the finished archive from staging into the output directory,
// replacing any previous build under the same name.
func (p *packager) finalize(ctx context.Context, archivePath string) error {
	if _, err := os.Stat(p.outputPath); err == nil {
		logger.WarnKV(ctx, "Replacing existing archive", "path", p.outputPath)
	}

	return moveFile(archivePath, p.outputPath)
}

// reportSuccess logs the audit line for the produced archive.
func (p *packager) reportSuccess(ctx context.Context, entries int) {
	kvs := []any{"path", p.outputPath, "entries", entries}

	if info, err := os.Stat(p.outputPath); err == nil {
		kvs = append(kvs, "size_bytes", info.Size())
	}

	if checksum, err := fileChecksum(p.outputPath); err == nil {
		kvs = append(kvs, "sha512", base64.StdEncoding.EncodeToString(checksum))
	}

	if actor, err := common.DetectActor(); err == nil {
		kvs = append(kvs, "packaged_by", actor.String())
	}

	logger.InfoKV(ctx, "Created plugin archive", kvs...)
}
