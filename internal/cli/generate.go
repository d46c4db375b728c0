package cli

import (
	"context"
	"io"
	"path/filepath"
	"slices"

	"github.com/cockroachdb/errors"
	"github.com/mvp-joe/pybridge/internal/pipeline"
	"github.com/mvp-joe/pybridge/internal/watcher"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	quietFlag bool
	watchFlag bool
)

var (
	// ErrNoTargets indicates generate was run without configured targets.
	ErrNoTargets = errors.New("no targets configured")

	// ErrUnknownTarget indicates a target name not present in the configuration.
	ErrUnknownTarget = errors.New("unknown target")
)

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:   "generate [target...]",
	Short: "Run the configured targets",
	Long: `Generate runs the targets configured in .pybridge/config.yml. For each
target the interfaces are generated first; the bridge is then generated with
the target header and the interface text prepended.

Example configuration:
  targets:
    - name: app
      types_source: backend/app_types.py
      types_dest: web/src/app_types.ts
      api_source: backend/api.py
      api_dest: web/src/api.ts
      header: web/src/bridge_header.ts

Examples:
  # Run every target
  pybridge generate

  # Run one target and regenerate whenever its sources change
  pybridge generate app --watch
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSession()
		if err != nil {
			return err
		}
		targets, err := selectTargets(s, args)
		if err != nil {
			return err
		}
		p, err := s.newPipeline(checkFlag)
		if err != nil {
			return err
		}
		defer p.Close()

		progress := newGenerateProgress(quietFlag, cmd.ErrOrStderr())
		out := cmd.OutOrStdout()

		if watchFlag {
			return watchTargets(cmd.Context(), s, p, targets, progress, out)
		}
		return runGenerate(cmd.Context(), p, targets, progress, out)
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().BoolVarP(&quietFlag, "quiet", "q", false, "Disable progress bars and non-error output")
	generateCmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "Watch target sources and regenerate on change")
	generateCmd.Flags().BoolVar(&checkFlag, "check", false, "Parse the generated TypeScript and fail instead of writing invalid output")
}

// selectTargets returns the named targets, or all of them when names is empty.
func selectTargets(s *session, names []string) ([]pipeline.Target, error) {
	all := s.cfg.PipelineTargets(s.rootDir)
	if len(all) == 0 {
		return nil, errors.WithHint(ErrNoTargets, "add a targets list to .pybridge/config.yml")
	}
	if len(names) == 0 {
		return all, nil
	}

	selected := make([]pipeline.Target, 0, len(names))
	for _, name := range names {
		i := slices.IndexFunc(all, func(t pipeline.Target) bool { return t.Name == name })
		if i < 0 {
			return nil, errors.Wrapf(ErrUnknownTarget, "%q", name)
		}
		selected = append(selected, all[i])
	}
	return selected, nil
}

// runGenerate runs targets in order and stops at the first failure.
func runGenerate(ctx context.Context, p *pipeline.Pipeline, targets []pipeline.Target, progress *generateProgress, out io.Writer) error {
	progress.OnStart(len(targets))
	defer progress.OnComplete()

	for _, t := range targets {
		if err := ctx.Err(); err != nil {
			return err
		}
		result, err := p.RunTarget(ctx, t)
		if err != nil {
			return err
		}
		progress.OnTarget(t.Name, result)
		if err := emitTarget(result, out); err != nil {
			return err
		}
	}
	return nil
}

func emitTarget(result *pipeline.TargetResult, out io.Writer) error {
	for _, r := range []*pipeline.Result{result.Interfaces, result.Bridge} {
		if r == nil {
			continue
		}
		if err := emit(r, out); err != nil {
			return err
		}
	}
	return nil
}

// watchTargets generates once, then regenerates the targets whose sources
// change until ctx is cancelled. Failures are logged, not returned.
func watchTargets(ctx context.Context, s *session, p *pipeline.Pipeline, targets []pipeline.Target, progress *generateProgress, out io.Writer) error {
	if err := runGenerate(ctx, p, targets, progress, out); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		s.log.Error("generate failed", zap.Error(err))
	}

	fw, err := watcher.New(watcher.Options{
		Dirs:     sourceDirs(targets),
		Root:     s.rootDir,
		Include:  s.cfg.Watch.Include,
		Debounce: s.cfg.Watch.Debounce(),
		Logger:   s.log,
	})
	if err != nil {
		return err
	}
	defer fw.Stop()

	err = fw.Start(ctx, func(files []string) {
		changed := affectedTargets(targets, files)
		if len(changed) == 0 {
			return
		}
		s.log.Info("sources changed", zap.Strings("files", files), zap.Int("targets", len(changed)))
		if err := runGenerate(ctx, p, changed, progress, out); err != nil && ctx.Err() == nil {
			s.log.Error("generate failed", zap.Error(err))
		}
	})
	if err != nil {
		return err
	}

	s.log.Info("watching for changes", zap.Int("targets", len(targets)))
	<-ctx.Done()
	return nil
}

// sourceDirs lists the distinct directories holding target sources.
func sourceDirs(targets []pipeline.Target) []string {
	var dirs []string
	for _, t := range targets {
		for _, src := range t.Sources() {
			dir := filepath.Dir(src)
			if !slices.Contains(dirs, dir) {
				dirs = append(dirs, dir)
			}
		}
	}
	return dirs
}

// affectedTargets returns the targets reading any of files.
func affectedTargets(targets []pipeline.Target, files []string) []pipeline.Target {
	var affected []pipeline.Target
	for _, t := range targets {
		for _, src := range t.Sources() {
			if slices.ContainsFunc(files, func(f string) bool { return samePath(f, src) }) {
				affected = append(affected, t)
				break
			}
		}
	}
	return affected
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}
