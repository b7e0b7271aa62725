package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// BuildInfo identifies a leapdb binary. Fields left empty or "unknown"
// are omitted from the output.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

func (b BuildInfo) details() string {
	known := func(s string) bool { return s != "" && s != "unknown" }
	switch {
	case known(b.Commit) && known(b.Date):
		return fmt.Sprintf("commit %s, built %s", b.Commit, b.Date)
	case known(b.Commit):
		return "commit " + b.Commit
	case known(b.Date):
		return "built " + b.Date
	}
	return ""
}

// NewVersionCommand creates the version command.
func NewVersionCommand(info BuildInfo) *cobra.Command {
	var short bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			w := cmd.OutOrStdout()
			if short {
				_, _ = fmt.Fprintln(w, info.Version)
				return
			}
			_, _ = fmt.Fprintf(w, "leapdb v%s\n", info.Version)
			if d := info.details(); d != "" {
				_, _ = fmt.Fprintln(w, d)
			}
		},
	}
	cmd.Flags().BoolVar(&short, "short", false, "Print the version number only")
	return cmd
}
