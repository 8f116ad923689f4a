package main

import (
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/ThaerHindawi/livekit/clients/go/callclient"
)

var flagServer string

var rootCmd = &cobra.Command{
	Use:   "callctl",
	Short: "Operate a two-party video call gateway",
	Long: `callctl mints and verifies access tokens offline from API_KEY/API_SECRET
and talks to a running gateway to join, leave and inspect rooms.`,
}

func init() {
	defaultServer := os.Getenv("CALL_SERVER_URL")
	if defaultServer == "" {
		defaultServer = callclient.DefaultBaseURL
	}
	rootCmd.PersistentFlags().StringVarP(&flagServer, "server", "s", defaultServer, "gateway base URL (env CALL_SERVER_URL)")
}

func newClient() *callclient.Client {
	return callclient.NewClient(flagServer)
}

// Execute runs the root command.
func Execute() {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	go func() {
		<-sig
		os.Exit(0)
	}()

	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	if err := rootCmd.Execute(); err != nil {
		printError(err.Error())
		os.Exit(1)
	}
}
