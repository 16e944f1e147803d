// Command breathe hosts the packet-processing engine: it loads an app
// network descriptor, configures the process-wide engine, and drives its
// breathe loop until stopped.
//
//	breathe run -c network.yaml
//	breathe run -c network.yaml -d 30s --report-links --report-apps
//	breathe run --remote ctrl-1:22:/etc/breathe/network.yaml --remote-user admin
//	breathe version
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/airlock-systems/breathe/pkg/basicapps"
	"github.com/airlock-systems/breathe/pkg/config"
	"github.com/airlock-systems/breathe/pkg/engine"
	"github.com/airlock-systems/breathe/pkg/reportsink"
	"github.com/airlock-systems/breathe/pkg/util"
	"github.com/airlock-systems/breathe/pkg/version"
)

// cliFlags holds the flag values shared across commands, filled in by cobra's
// flag parsing; PersistentPreRunE applies the logging ones.
type cliFlags struct {
	configPath     string
	logLevel       string
	jsonLog        bool
	duration       time.Duration
	noReport       bool
	reportLoad     bool
	reportLinks    bool
	reportApps     bool
	redisAddr      string
	remote         string
	remoteUser     string
	remotePassword string
}

var flags = &cliFlags{}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "breathe",
	Short:         "Runtime for a breathe-driven packet-processing app network",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := util.SetLogLevel(flags.logLevel); err != nil {
			return fmt.Errorf("invalid log level %q: %w", flags.logLevel, err)
		}
		if flags.jsonLog {
			util.SetJSONFormat()
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flags.logLevel, "log-level", "v", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&flags.jsonLog, "json-log", false, "Emit logs as JSON")

	runCmd.Flags().StringVarP(&flags.configPath, "config", "c", "network.yaml", "App network descriptor path")
	runCmd.Flags().DurationVarP(&flags.duration, "duration", "d", 0, "Stop after this long (0 = run until killed)")
	runCmd.Flags().BoolVar(&flags.noReport, "no-report", false, "Suppress end-of-run reports")
	runCmd.Flags().BoolVar(&flags.reportLoad, "report-load", true, "Print the load report")
	runCmd.Flags().BoolVar(&flags.reportLinks, "report-links", false, "Print the link report")
	runCmd.Flags().BoolVar(&flags.reportApps, "report-apps", false, "Print the app report")
	runCmd.Flags().StringVar(&flags.redisAddr, "redis", "", "Mirror reports to this Redis address (disabled if empty)")
	runCmd.Flags().StringVar(&flags.remote, "remote", "", "Fetch the app network descriptor over SSH instead of --config, as host:port:path")
	runCmd.Flags().StringVar(&flags.remoteUser, "remote-user", "", "SSH username for --remote")
	runCmd.Flags().StringVar(&flags.remotePassword, "remote-password", "", "SSH password for --remote")

	rootCmd.AddCommand(runCmd, versionCmd)
}

func newRegistry() *config.Registry {
	r := config.NewRegistry()
	r.Register("source", func(params map[string]interface{}) (engine.AppConfig, error) {
		size, _ := params["size"].(int)
		return basicapps.SourceConfig{Size: size}, nil
	})
	r.Register("sink", func(params map[string]interface{}) (engine.AppConfig, error) {
		return basicapps.SinkConfig{}, nil
	})
	r.Register("tee", func(params map[string]interface{}) (engine.AppConfig, error) {
		return basicapps.TeeConfig{}, nil
	})
	return r
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Configure and run the engine until stopped",
	RunE: func(cmd *cobra.Command, args []string) error {
		registry := newRegistry()

		var cfg *engine.Configuration
		var err error
		if flags.remote != "" {
			src, perr := config.ParseRemoteFlag(flags.remote, flags.remoteUser, flags.remotePassword)
			if perr != nil {
				return perr
			}
			cfg, err = registry.LoadRemote(src)
			if err != nil {
				return fmt.Errorf("loading remote %s: %w", flags.remote, err)
			}
			util.WithField("remote", flags.remote).Info("fetched app network over SSH")
		} else {
			cfg, err = registry.LoadFile(flags.configPath)
			if err != nil {
				return fmt.Errorf("loading %s: %w", flags.configPath, err)
			}
		}

		engine.Init()
		if err := engine.Configure(cfg); err != nil {
			return fmt.Errorf("configuring engine: %w", err)
		}

		if flags.redisAddr != "" {
			sink := reportsink.NewRedisSink(flags.redisAddr, "breathe")
			if err := sink.Connect(); err != nil {
				util.Logger.Warnf("redis report sink unavailable: %v", err)
			} else {
				engine.State().AddReportSink(sink)
			}
		}

		opts := engine.Options{
			NoReport:    flags.noReport,
			ReportLoad:  flags.reportLoad,
			ReportLinks: flags.reportLinks,
			ReportApps:  flags.reportApps,
		}
		if flags.duration > 0 {
			opts.Duration = &flags.duration
		}

		source := flags.configPath
		if flags.remote != "" {
			source = flags.remote
		}
		util.WithField("config", source).Info("engine starting")
		return engine.Main(opts)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the breathe version",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("breathe %s (%s)\n", version.Version, version.GitCommit)
		return nil
	},
}
