package main

import (
	"context"
	goflag "flag"
	"fmt"
	"os"

	"github.com/golang/glog"
	"github.com/spf13/cobra"
	flag "github.com/spf13/pflag"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "phonebook",
		Short: "Phonebook GraphQL server",
		Long: `
Phonebook serves a directory of persons and the users who keep them as
friends over GraphQL.
`,
		SilenceUsage: true,
	}
	root.AddCommand(newServeCmd(), newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Prints the phonebook version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "phonebook %s\n", version)
		},
	}
}

func main() {
	// glog registers its flags on the standard flag set.
	flag.CommandLine.AddGoFlagSet(goflag.CommandLine)

	root := newRootCmd()
	root.PersistentFlags().AddFlagSet(flag.CommandLine)

	err := root.ExecuteContext(context.Background())
	glog.Flush()
	if err != nil {
		os.Exit(1)
	}
}
