package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ThaerHindawi/livekit/clients/go/callclient"
)

var flagEventLimit int

var joinCmd = &cobra.Command{
	Use:   "join <room> <participant>",
	Short: "Reserve a slot in a room and print its token",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := newClient().RequestToken(cmd.Context(), args[0], args[1])
		if callclient.IsRoomFull(err) {
			return fmt.Errorf("room %q is full", args[0])
		}
		if err != nil {
			return err
		}

		fmt.Println(renderBox("Joined",
			field{"room", resp.RoomName},
			field{"participant", resp.ParticipantName},
			field{"ws url", resp.WSURL},
		))
		fmt.Println(resp.Token)
		return nil
	},
}

var leaveCmd = &cobra.Command{
	Use:   "leave <room> <participant>",
	Short: "Release a participant's slot",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := newClient().Leave(cmd.Context(), args[0], args[1]); err != nil {
			return err
		}
		printSuccess(fmt.Sprintf("%s left %s", args[1], args[0]))
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status <room>",
	Short: "Show a room's occupancy",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		status, err := newClient().RoomStatus(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		full := successStyle.Render("no")
		if status.IsFull {
			full = warningStyle.Render("yes")
		}
		fmt.Println(renderBox("Room "+status.RoomName,
			field{"participants", strconv.Itoa(status.ParticipantCount)},
			field{"full", full},
		))
		return nil
	},
}

var eventsCmd = &cobra.Command{
	Use:   "events <room>",
	Short: "List a room's recent journal entries",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := newClient().RoomEvents(cmd.Context(), args[0], flagEventLimit)
		if err != nil {
			return err
		}

		if len(resp.Events) == 0 {
			fmt.Println(labelStyle.Render("no events"))
			return nil
		}
		for _, e := range resp.Events {
			fmt.Printf("%s  %-16s %s\n",
				e.CreatedAt.Local().Format("2006-01-02 15:04:05"),
				e.Kind,
				e.ParticipantName)
		}
		return nil
	},
}

func init() {
	eventsCmd.Flags().IntVarP(&flagEventLimit, "limit", "n", 20, "maximum events to show")
	rootCmd.AddCommand(joinCmd, leaveCmd, statusCmd, eventsCmd)
}
