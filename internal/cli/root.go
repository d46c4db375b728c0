package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/cockroachdb/errors"
	"github.com/mvp-joe/pybridge/internal/config"
	"github.com/mvp-joe/pybridge/internal/logging"
	"github.com/mvp-joe/pybridge/internal/pipeline"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	cfgFile   string
	verbosity int
	logJSON   bool
	checkFlag bool

	logger = zap.NewNop()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pybridge",
	Short: "Generate TypeScript bridge stubs and interfaces from Python modules",
	Long: `pybridge reads annotated Python modules and generates TypeScript for a
front-end that talks to the Python process over an IPC boundary:

  - remote-call stub classes mirroring the methods of the API classes
  - interfaces and type aliases mirroring TypedDict records

Generated text goes to stdout or to a file; logs always go to stderr.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = logging.New(logging.Options{Verbosity: verbosity, JSON: logJSON})
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	// Ctrl+C cancels the running command (and ends watch mode)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	logger.Sync()
	if err != nil {
		printError(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .pybridge/config.yml in the working directory)")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "verbose output (-v info, -vv debug)")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "log as JSON")
}

// printError writes err and any hints attached to it.
func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "Error: %v\n", err)
	if hint := errors.FlattenHints(err); hint != "" {
		fmt.Fprintf(w, "Hint: %s\n", hint)
	}
}

// session is the loaded configuration a command runs against.
type session struct {
	cfg     *config.Config
	rootDir string
	log     *zap.Logger
}

// loadSession loads configuration from --config, or from the working
// directory when no file was given.
func loadSession() (*session, error) {
	if cfgFile != "" {
		cfg, err := config.NewFileLoader(cfgFile).Load()
		if err != nil {
			return nil, errors.Wrap(err, "failed to load configuration")
		}
		return &session{cfg: cfg, rootDir: rootDirForConfig(cfgFile), log: logger}, nil
	}

	rootDir, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get working directory")
	}
	cfg, err := config.LoadConfigFromDir(rootDir)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load configuration")
	}
	return &session{cfg: cfg, rootDir: rootDir, log: logger}, nil
}

// rootDirForConfig returns the project root for a config file path: the
// parent of a .pybridge directory, otherwise the file's own directory.
func rootDirForConfig(path string) string {
	dir := filepath.Dir(path)
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	if filepath.Base(dir) == config.DirName {
		return filepath.Dir(dir)
	}
	return dir
}

// newPipeline builds a pipeline from the session; --check forces the
// TypeScript check on.
func (s *session) newPipeline(check bool) (*pipeline.Pipeline, error) {
	opts := s.cfg.ToPipelineOptions(s.log)
	opts.CheckTypeScript = opts.CheckTypeScript || check
	return pipeline.New(opts)
}
