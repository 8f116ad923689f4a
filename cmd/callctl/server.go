package main

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check gateway health",
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := newClient().Health(cmd.Context())
		if err != nil {
			return err
		}

		configured := successStyle.Render("yes")
		if !resp.Configured {
			configured = errorStyle.Render("no")
		}
		fields := []field{
			{"status", checkStatus(resp.Status)},
			{"version", resp.Version},
			{"configured", configured},
		}

		names := make([]string, 0, len(resp.Checks))
		for name := range resp.Checks {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			check := resp.Checks[name]
			value := checkStatus(check.Status)
			if check.Latency != "" {
				value += " " + labelStyle.UnsetWidth().Render(check.Latency)
			}
			fields = append(fields, field{name, value})
		}

		fmt.Println(renderBox("Gateway "+flagServer, fields...))
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show admission statistics from the room journal",
	RunE: func(cmd *cobra.Command, args []string) error {
		stats, err := newClient().Stats(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Println(renderBox("Room journal",
			field{"admissions", strconv.FormatInt(stats.Admissions, 10)},
			field{"readmissions", strconv.FormatInt(stats.Readmissions, 10)},
			field{"rejections", strconv.FormatInt(stats.Rejections, 10)},
			field{"releases", strconv.FormatInt(stats.Releases, 10)},
			field{"failures", strconv.FormatInt(stats.IssuanceFailures, 10)},
			field{"last activity", stats.LastActivity},
		))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthCmd, statsCmd)
}
