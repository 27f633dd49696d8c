package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"
)

// Execute runs the leaderline CLI with args and returns an error if any
// command fails. Logs go to stderr at info level, or debug level with
// --verbose (-v).
//
// Example:
//
//	func main() {
//	    if err := cli.Execute(context.Background(), os.Args[1:], os.Stderr); err != nil {
//	        os.Exit(1)
//	    }
//	}
func Execute(ctx context.Context, args []string, stderr io.Writer) error {
	var verbose bool

	c := New(stderr, LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		level := LogInfo
		if verbose {
			level = LogDebug
		}
		c.SetLogLevel(level)
		cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		return nil
	}

	return root.ExecuteContext(ctx)
}
