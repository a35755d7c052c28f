package main

import (
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/aretw0/graft/internal/config"
	"github.com/aretw0/graft/pkg/convert"
	"github.com/spf13/cobra"
)

var encryptCmd = &cobra.Command{
	Use:   "encrypt <value>",
	Short: "Encrypt a value with secrets.key for use in configuration files",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		cfg, err := config.Load(path)
		if err != nil {
			return err
		}
		if cfg.Secrets.Key == "" {
			return errors.New("secrets.key is not configured (set GRAFT_SECRETS_KEY)")
		}
		key, err := base64.StdEncoding.DecodeString(cfg.Secrets.Key)
		if err != nil {
			return fmt.Errorf("invalid secrets.key: %w", err)
		}

		sealed, err := convert.Encrypt(convert.Keys{Active: key}, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), sealed)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(encryptCmd)
}
