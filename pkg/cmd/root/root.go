package root

import (
	"github.com/spf13/cobra"

	"github.com/charlie0129/flatcp/pkg/utils/log"
)

// Copier config
var (
	blockSize     string
	noPreallocate bool
)

var (
	transferRateLimitStr string
	fileRateLimitStr     string
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "flatcp [flags] SOURCE_DIR DEST_PREFIX",
		Short: "Flat copy - copy every entry of a directory, without recursion",
		Long: `
Copies every immediate child of SOURCE_DIR, one at a time, to DEST_PREFIX
followed by the child's name. Nothing is inserted between the two:
  - Source: /src containing a.txt
    Dest:   /backup/
    Result: /backup/a.txt
  - Source: /src containing a.txt
    Dest:   /backup
    Result: /backupa.txt
Existing files are overwritten. Subdirectories are not descended into, and
a subdirectory entry stops the copy with an error. The first error stops
the copy; files copied before it are kept.


`,
		Args:         cobra.ExactArgs(2),
		RunE:         runCopy,
		SilenceUsage: true,
	}

	f := cmd.Flags()

	f.StringVar(&blockSize, "block-size", "256k", "Internal input and output block size (e.g., 32k, 1m)")
	f.BoolVar(&noPreallocate, "no-preallocate", false, "Do not preallocate disk space for destination files")

	f.StringVar(&transferRateLimitStr, "transfer-rate-limit", "", "Limit bytes copied per second (e.g., 1m, 500k)")
	f.StringVar(&fileRateLimitStr, "file-rate-limit", "", "Limit files copied per second (e.g., 10, 1k)")

	pf := cmd.PersistentFlags()
	pf.CountVarP(&log.Verbosity, "verbose", "v", "Enable verbose output (-v for debug, -vv for trace)")

	return cmd
}
