package main

import (
	"os"
	"runtime/pprof"

	"github.com/pkg/errors"

	"github.com/charlie0129/flatcp/pkg/cmd/root"
	"github.com/charlie0129/flatcp/pkg/cmd/verify"
	"github.com/charlie0129/flatcp/pkg/utils/log"
)

const profilingEnv = "FLATCP_ENABLE_PROFILING"

// startProfiling writes a CPU profile to ./cpuprofile when profilingEnv is
// "1". The returned function stops it and is never nil.
func startProfiling() (func(), error) {
	if os.Getenv(profilingEnv) != "1" {
		return func() {}, nil
	}

	f, err := os.Create("cpuprofile")
	if err != nil {
		return func() {}, errors.Wrap(err, "failed to create cpuprofile file")
	}

	if err := pprof.StartCPUProfile(f); err != nil {
		_ = f.Close()
		return func() {}, errors.Wrap(err, "failed to start cpu profile")
	}

	return func() {
		pprof.StopCPUProfile()
		_ = f.Close()
	}, nil
}

func main() {
	logger := log.GetLogger(os.Stderr, log.IsTerminal(os.Stderr))

	stopProfiling, err := startProfiling()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to enable profiling")
	}

	rootCmd := root.NewCommand()
	rootCmd.AddCommand(verify.NewCommand())

	err = rootCmd.Execute()
	// Fatal exits without running defers, so the profile is flushed first.
	stopProfiling()
	if err != nil {
		logger.Fatal().Err(err).Msg("Error executing flatcp")
	}
}
