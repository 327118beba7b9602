package cmd

import (
	"fmt"
	"runtime"

	"github.com/AnyUserName/otsuhash/internal/logger"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var version = "0.1.0"

// app carries the state shared by all subcommands of one invocation.
type app struct {
	verbose   bool
	logFormat string
	log       zerolog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{log: zerolog.Nop()}

	root := &cobra.Command{
		Use:   "otsuhash",
		Short: "Perceptual image hashes from Otsu-thresholded thumbnails",
		Long: `otsuhash shrinks an image to a small grayscale grid, splits the grid
at its Otsu threshold and prints the resulting bits as a fixed-width
string in base 2 to 36. Visually similar images get equal or nearly
equal hashes.

Defaults can be set with OTSUHASH_* environment variables or a .env file
in the working directory.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			dotEnvErr := loadDotEnv()
			format, err := logger.ParseFormat(flagOrEnv(cmd, "log-format", a.logFormat, "LOG_FORMAT", ""))
			if err != nil {
				return err
			}
			a.log = logger.New(cmd.ErrOrStderr(), logger.Level(a.verbose), format)
			if dotEnvErr != nil {
				a.log.Warn().Err(dotEnvErr).Msg("ignoring .env")
			}
			return nil
		},
	}

	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "verbose output")
	root.PersistentFlags().StringVar(&a.logFormat, "log-format", "console", "log format: console or json (env OTSUHASH_LOG_FORMAT)")
	root.SetVersionTemplate(fmt.Sprintf(
		"otsuhash %s (%s/%s, %s)\n",
		version, runtime.GOOS, runtime.GOARCH, runtime.Version(),
	))

	root.AddCommand(
		newHashCmd(a),
		newReduceCmd(a),
		newInspectCmd(a),
		newPresetsCmd(),
	)
	return root
}

// Execute runs the CLI with os.Args.
func Execute() error {
	return newRootCmd().Execute()
}
