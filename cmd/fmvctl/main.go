package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	host string
	swid string
	s2   string
)

var rootCmd = &cobra.Command{
	Use:   "fmvctl",
	Short: "A CLI to interact with the fmvboard server",
	Long: `A command-line interface for querying the fair market value board
endpoints and running the offline data jobs.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&host, "host", "http://localhost:8080", "The host address of the server")
	rootCmd.PersistentFlags().StringVar(&swid, "swid", "", "ESPN SWID cookie, forwarded as x-espn-swid")
	rootCmd.PersistentFlags().StringVar(&s2, "s2", "", "ESPN espn_s2 cookie, forwarded as x-espn-s2")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Whoops. There was an error while executing your command '%s'", err)
		os.Exit(1)
	}
}

func main() {
	Execute()
}
