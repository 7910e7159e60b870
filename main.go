package main

import (
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/jmccarv/subsolve/internal/config"
	"github.com/jmccarv/subsolve/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	configFile string
	verbose    bool
	devLog     bool
	cpuprofile string
	memprofile string

	cfg    *config.Config
	logger *zap.Logger

	cpuFile *os.File
)

var rootCmd = &cobra.Command{
	Use:   "subsolve",
	Short: "Break monoalphabetic substitution ciphers",
	Long: `subsolve recovers the plaintext of a substitution cipher without the key.

It trains a letter bigram model on a corpus of ordinary text, then evolves a
population of candidate keys, keeping the ones whose decoding the model finds
most likely.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfg, err = config.Load(configFile); err != nil {
			return err
		}

		logger, err = logging.New(cfg.Logging.Level, verbose, devLog || cfg.Logging.Development)
		if err != nil {
			return err
		}

		if cpuprofile != "" {
			f, err := os.Create(cpuprofile)
			if err != nil {
				return fmt.Errorf("could not create CPU profile: %w", err)
			}
			if err := pprof.StartCPUProfile(f); err != nil {
				f.Close()
				return fmt.Errorf("could not start CPU profile: %w", err)
			}
			cpuFile = f
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if cpuFile != nil {
			pprof.StopCPUProfile()
			cpuFile.Close()
		}

		if memprofile != "" {
			if err := writeMemProfile(memprofile); err != nil {
				logger.Error("could not write memory profile", zap.Error(err))
			}
		}

		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func writeMemProfile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	runtime.GC() // get up-to-date statistics
	return pprof.WriteHeapProfile(f)
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configFile, "config", "c", "subsolve.yaml", "Configuration file (missing file means defaults)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	pf.BoolVar(&devLog, "dev", false, "Human readable log output")
	pf.StringVar(&cpuprofile, "cpuprofile", "", "Write cpu profile to 'file'")
	pf.StringVar(&memprofile, "memprofile", "", "Write memory profile to 'file'")

	rootCmd.AddCommand(solveCmd, encryptCmd, freqsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
