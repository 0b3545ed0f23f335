package verify

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/charlie0129/flatcp/pkg/hasher"
	"github.com/charlie0129/flatcp/pkg/lister"
	"github.com/charlie0129/flatcp/pkg/utils/log"
	"github.com/charlie0129/flatcp/pkg/utils/size"
)

// Hasher config
var (
	maxConcurrentFiles int
	blockSize          string
	algorithm          string
)

var (
	transferRateLimitStr string
	fileRateLimitStr     string
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "verify [flags] SOURCE_DIR DEST_PREFIX",
		Short:        "Verify files copied",
		Long:         "Checks that every entry of SOURCE_DIR has an identical copy at DEST_PREFIX followed by its name.",
		Args:         cobra.ExactArgs(2),
		RunE:         runVerify,
		SilenceUsage: true,
	}

	f := cmd.Flags()

	f.StringVar(&blockSize, "block-size", "256k", "Internal input and output block size (e.g., 32k, 1m)")
	f.IntVarP(&maxConcurrentFiles, "concurrent-files", "c", 8, "Maximum number of entries verified concurrently")
	f.StringVar(&algorithm, "hash", hasher.AlgorithmSHA256, "Hash algorithm, sha256 or xxhash")

	f.StringVar(&transferRateLimitStr, "transfer-rate-limit", "", "Limit bytes hashed per second (e.g., 1m, 500k), including both source and destination files")
	f.StringVar(&fileRateLimitStr, "file-rate-limit", "", "Limit files hashed per second (e.g., 10, 1k), including both source and destination files")

	return cmd
}

func runVerify(cmd *cobra.Command, args []string) error {
	logger := log.GetLogger(cmd.ErrOrStderr(), log.IsTerminal(cmd.ErrOrStderr()))

	sourceDir, destinationDir := args[0], args[1]

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

	hasherConfig := hasher.Config{
		MaxConcurrentFiles: maxConcurrentFiles,
		CopyBufferSize:     int(parsedBlockSize),
		Algorithm:          algorithm,
	}
	err = hasherConfig.Validate()
	if err != nil {
		return err
	}

	entries, err := lister.New(lister.Config{Path: sourceDir}, logger).List()
	if err != nil {
		return err
	}

	var transferRateLimiter *rate.Limiter
	var fileRateLimiter *rate.Limiter
	if transferRateLimit > 0 {
		// Each file is processed by a goroutine, and each goroutine hashes one block at a time.
		// So we multiply them to get the burst to ensure they can get to transfer.
		transferRateLimiter = rate.NewLimiter(rate.Limit(transferRateLimit), hasherConfig.CopyBufferSize*maxConcurrentFiles)
	}
	if fileRateLimit > 0 {
		// Every entry takes a token for its source and one for its destination.
		fileRateLimiter = rate.NewLimiter(rate.Limit(fileRateLimit), 2*maxConcurrentFiles)
	}

	h := hasher.New(hasherConfig, logger)
	err = h.Start(cmd.Context(), entries, destinationDir, transferRateLimiter, fileRateLimiter)

	stats := h.Stats()
	logger.Info().Int("entries", len(entries)).
		Int64("filesHashed", stats.FilesHashed).
		Str("bytesHashedHuman", size.FormatBytes(stats.BytesHashed)).
		Int64("mismatches", stats.Mismatches).
		Msg("Summary")

	return err
}
