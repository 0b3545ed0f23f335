package root

import (
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/charlie0129/flatcp/pkg/copier"
	"github.com/charlie0129/flatcp/pkg/utils/log"
	"github.com/charlie0129/flatcp/pkg/utils/size"
	"github.com/charlie0129/flatcp/pkg/validation"
)

func runCopy(cmd *cobra.Command, args []string) error {
	logger := log.GetLogger(cmd.ErrOrStderr(), log.IsTerminal(cmd.ErrOrStderr()))

	parsedBlockSize, err := size.Parse(blockSize)
	if err != nil {
		return errors.Wrap(err, "invalid block size")
	}
	transferRateLimit, err := size.Parse(transferRateLimitStr)
	if err != nil {
		return errors.Wrap(err, "invalid transfer rate limit")
	}
	fileRateLimit, err := size.Parse(fileRateLimitStr)
	if err != nil {
		return errors.Wrap(err, "invalid file rate limit")
	}

	copierConfig := copier.Config{
		SourceDir:      args[0],
		DestinationDir: args[1],
		BlockSize:      int(parsedBlockSize),
		NoPreallocate:  noPreallocate,
	}
	err = copierConfig.Validate()
	if err != nil {
		return err
	}

	if copierConfig.DestinationDir == "" {
		logger.Warn().Msg("Destination is empty, files will be copied into the working directory")
	} else if !validation.HasTrailingSeparator(copierConfig.DestinationDir) {
		logger.Warn().Str("destination", copierConfig.DestinationDir).
			Msgf("Destination does not end with %q, files will be named %s<name>", string(os.PathSeparator), copierConfig.DestinationDir)
	}

	var transferRateLimiter *rate.Limiter
	var fileRateLimiter *rate.Limiter
	if transferRateLimit > 0 {
		// One block is written at a time.
		transferRateLimiter = rate.NewLimiter(rate.Limit(transferRateLimit), copierConfig.BlockSize)
	}
	if fileRateLimit > 0 {
		fileRateLimiter = rate.NewLimiter(rate.Limit(fileRateLimit), 1)
	}

	c := copier.New(copierConfig, logger)
	err = c.Start(cmd.Context(), transferRateLimiter, fileRateLimiter)
	logSummary(logger, c.Stats(), err)

	return err
}

func logSummary(logger zerolog.Logger, stats copier.Stats, err error) {
	e := logger.Info()
	if err != nil {
		e = logger.Warn()
	}
	e.Int64("filesCopied", stats.FilesCopied).
		Int64("bytesCopied", stats.BytesCopied).
		Str("bytesCopiedHuman", size.FormatBytes(stats.BytesCopied)).
		Str("ioCompleted", size.FormatNumber(stats.IOCompleted)).
		Bool("completed", err == nil).
		Msg("Summary")
}
