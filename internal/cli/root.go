package cli

import (
	"errors"
	"os"
	"runtime"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"stratum/internal/app"
	"stratum/internal/core"
)

// version is set at build time via ldflags.
var version = "dev"

const envPrefix = "STRATUM"

type RootConfig struct {
	ConfigFile string
	LogLevel   string
}

func Execute() {
	root := newRootCommand()
	if err := root.Execute(); err != nil {
		log.Error().Str("error_class", errorClass(err)).Msg(err.Error())
		os.Exit(exitCodeForError(err))
	}
}

func newRootCommand() *cobra.Command {
	cfg := RootConfig{}
	cmd := &cobra.Command{
		Use:           "stratum",
		Short:         "Source-build package manager for HPC software",
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := initConfig(cfg.ConfigFile); err != nil {
				return err
			}
			setupLogging(viper.GetString("log_level"))
			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&cfg.ConfigFile, "config", "", "Config file path")
	cmd.PersistentFlags().StringVar(&cfg.LogLevel, "log-level", "info", "Log level")
	cmd.PersistentFlags().String("registry", "packages.yaml", "Package registry file")
	cmd.PersistentFlags().String("install-root", "opt", "Root directory for install prefixes")
	cmd.PersistentFlags().String("stage-root", "stage", "Root directory for build staging")
	cmd.PersistentFlags().String("arch", "", "Target architecture (default: host)")
	cmd.PersistentFlags().String("default-compiler", "gcc", "Compiler used when a spec names none")
	_ = viper.BindPFlag("log_level", cmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("registry", cmd.PersistentFlags().Lookup("registry"))
	_ = viper.BindPFlag("install_root", cmd.PersistentFlags().Lookup("install-root"))
	_ = viper.BindPFlag("stage_root", cmd.PersistentFlags().Lookup("stage-root"))
	_ = viper.BindPFlag("arch", cmd.PersistentFlags().Lookup("arch"))
	_ = viper.BindPFlag("default_compiler", cmd.PersistentFlags().Lookup("default-compiler"))

	cmd.AddCommand(newFindCommand())
	cmd.AddCommand(newInstallCommand())
	cmd.AddCommand(newSpecCommand())
	cmd.AddCommand(newProvidersCommand())
	return cmd
}

func initConfig(configFile string) error {
	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv()

	if configFile != "" {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("failed to read config file").
				WithCause(err)
		}
		return nil
	}

	viper.SetConfigName("stratum")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.config/stratum")
	if err := viper.ReadInConfig(); err != nil {
		return nil
	}
	return nil
}

func setupLogging(level string) {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// serviceConfig reads the resolved configuration for the app service.
func serviceConfig() app.Config {
	arch := viper.GetString("arch")
	if arch == "" {
		arch = runtime.GOOS + "-" + runtime.GOARCH
	}
	return app.Config{
		RegistryPath:    viper.GetString("registry"),
		InstallRoot:     viper.GetString("install_root"),
		StageRoot:       viper.GetString("stage_root"),
		Compilers:       viper.GetStringMapStringSlice("compilers"),
		DefaultCompiler: viper.GetString("default_compiler"),
		Architecture:    arch,
	}
}

// errorClass names the typed failure for the CLI's error report.
func errorClass(err error) string {
	switch {
	case asAny(err, new(*core.ParseError)):
		return "SpecParseError"
	case asAny(err, new(*core.DuplicateDependencyError)):
		return "DuplicateDependencyError"
	case asAny(err, new(*core.DuplicateVariantError)):
		return "DuplicateVariantError"
	case asAny(err, new(*core.DuplicateCompilerError)):
		return "DuplicateCompilerError"
	case asAny(err, new(*core.DuplicateArchitectureError)):
		return "DuplicateArchitectureError"
	case asAny(err, new(*core.UnknownPackageError)):
		return "UnknownPackageError"
	case asAny(err, new(*core.UnknownCompilerError)):
		return "UnknownCompilerError"
	case asAny(err, new(*core.InvalidDependencyError)):
		return "InvalidDependencyError"
	case asAny(err, new(*core.InconsistentSpecError)):
		return "InconsistentSpecError"
	case asAny(err, new(*core.NoProviderError)):
		return "NoProviderError"
	case asAny(err, new(*core.MultipleProviderError)):
		return "MultipleProviderError"
	case asAny(err, new(*core.UnsatisfiableSpecNameError)):
		return "UnsatisfiableSpecNameError"
	case asAny(err, new(*core.UnsatisfiableVersionSpecError)):
		return "UnsatisfiableVersionSpecError"
	case asAny(err, new(*core.UnsatisfiableVariantSpecError)):
		return "UnsatisfiableVariantSpecError"
	case asAny(err, new(*core.UnsatisfiableCompilerSpecError)):
		return "UnsatisfiableCompilerSpecError"
	case asAny(err, new(*core.UnsatisfiableArchitectureSpecError)):
		return "UnsatisfiableArchitectureSpecError"
	case asAny(err, new(*core.UnsatisfiableProviderSpecError)):
		return "UnsatisfiableProviderSpecError"
	case asAny(err, new(*core.UnsatisfiableDependencySpecError)):
		return "UnsatisfiableDependencySpecError"
	}
	return "Error"
}

func asAny[T error](err error, target *T) bool {
	return errors.As(err, target)
}

func exitCodeForError(err error) int {
	switch errorClass(err) {
	case "SpecParseError", "DuplicateDependencyError", "DuplicateVariantError",
		"DuplicateCompilerError", "DuplicateArchitectureError":
		return 2
	case "NoProviderError", "MultipleProviderError",
		"UnsatisfiableSpecNameError", "UnsatisfiableVersionSpecError",
		"UnsatisfiableVariantSpecError", "UnsatisfiableCompilerSpecError",
		"UnsatisfiableArchitectureSpecError", "UnsatisfiableProviderSpecError",
		"UnsatisfiableDependencySpecError":
		return 4
	case "UnknownPackageError", "UnknownCompilerError",
		"InvalidDependencyError", "InconsistentSpecError":
		return 5
	}
	switch errbuilder.CodeOf(err) {
	case errbuilder.CodeInvalidArgument, errbuilder.CodeAlreadyExists:
		return 2
	case errbuilder.CodeFailedPrecondition:
		return 4
	case errbuilder.CodeNotFound, errbuilder.CodeInternal:
		return 5
	default:
		return 1
	}
}
