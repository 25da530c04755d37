package main

import (
	"fmt"
	"os"

	"github.com/sandeepkv93/chorejar/internal/storage"
	"github.com/spf13/cobra"
)

func exportCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Write the saved state as indented JSON (stdout when no file)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			a, err := openApp(cmd.Context(), cfg, quietLogger(cfg), nil)
			if err != nil {
				return err
			}
			defer a.Close()

			raw, err := storage.EncodeIndent(a.svc.Snapshot())
			if err != nil {
				return err
			}
			if len(args) == 0 {
				_, err = cmd.OutOrStdout().Write(append(raw, '\n'))
				return err
			}
			if err := os.WriteFile(args[0], raw, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported %d bytes to %s\n", len(raw), args[0])
			return nil
		},
	}
}

func importCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "import [file]",
		Short: "Replace the saved state with an exported file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}
			logger := quietLogger(cfg)
			store, err := storage.Open(cmd.Context(), cfg.StorageOptions(), logger)
			if err != nil {
				return fmt.Errorf("open storage: %w", err)
			}
			defer store.Close()

			st, err := store.Import(cmd.Context(), raw)
			if err != nil {
				if r := storage.Reason(err); r != storage.ReasonGeneric {
					return fmt.Errorf("%s (%w)", storage.UserMessage(err), err)
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d checklist tasks, %d stars, wallet %d\n",
				len(st.Checklist), st.Stars.Total, st.Wallet.Amount)
			return nil
		},
	}
}
