package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ThaerHindawi/livekit/internal/config"
	"github.com/ThaerHindawi/livekit/internal/crypto"
)

var (
	flagRoom     string
	flagIdentity string
	flagTTL      time.Duration
	flagRaw      bool
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint an access token offline",
	Long: `Mint an access token with API_KEY/API_SECRET from the environment or .env,
without touching the room registry.

Examples:
  callctl token --room demo --identity alice
  callctl token --room demo --identity bob --ttl 10m --raw`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		signer := crypto.NewTokenSigner(cfg.APIKey, cfg.APISecret)

		ttl := flagTTL
		if ttl == 0 {
			ttl = cfg.TokenTTL
		}

		token, err := signer.Issue(cmd.Context(), crypto.AccessGrant{
			Room:     strings.TrimSpace(flagRoom),
			Identity: strings.TrimSpace(flagIdentity),
			TTL:      ttl,
		})
		if err != nil {
			return err
		}

		if flagRaw {
			fmt.Println(token)
			return nil
		}

		fmt.Println(renderBox("Access token",
			field{"room", flagRoom},
			field{"identity", flagIdentity},
			field{"expires", time.Now().Add(ttl).Format(time.RFC3339)},
			field{"ws url", cfg.WSURL},
		))
		fmt.Println(token)
		return nil
	},
}

var verifyCmd = &cobra.Command{
	Use:   "verify <token>",
	Short: "Verify an access token against API_KEY/API_SECRET",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		signer := crypto.NewTokenSigner(cfg.APIKey, cfg.APISecret)

		claims, err := signer.Verify(args[0])
		if err != nil {
			return err
		}
		if claims.Video == nil {
			return errors.New("token carries no video grant")
		}

		fields := []field{
			{"identity", claims.Subject},
			{"room", claims.Video.Room},
			{"token id", claims.ID},
			{"publish", fmt.Sprint(claims.Video.CanPublish)},
			{"subscribe", fmt.Sprint(claims.Video.CanSubscribe)},
		}
		if claims.ExpiresAt != nil {
			fields = append(fields, field{"expires", claims.ExpiresAt.Format(time.RFC3339)})
		}
		fmt.Println(renderBox("Valid token", fields...))
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVarP(&flagRoom, "room", "r", "", "room name")
	tokenCmd.Flags().StringVarP(&flagIdentity, "identity", "i", "", "participant identity")
	tokenCmd.Flags().DurationVar(&flagTTL, "ttl", 0, "token lifetime (default TOKEN_TTL)")
	tokenCmd.Flags().BoolVar(&flagRaw, "raw", false, "print only the token")
	_ = tokenCmd.MarkFlagRequired("room")
	_ = tokenCmd.MarkFlagRequired("identity")

	rootCmd.AddCommand(tokenCmd, verifyCmd)
}
