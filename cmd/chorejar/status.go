package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/sandeepkv93/chorejar/internal/config"
	"github.com/sandeepkv93/chorejar/internal/rewards"
	"github.com/sandeepkv93/chorejar/internal/storage"
	"github.com/sandeepkv93/chorejar/internal/update"
	"github.com/sandeepkv93/chorejar/internal/views"
	"github.com/spf13/cobra"
)

func statusCmd(flags *globalFlags) *cobra.Command {
	var (
		week   bool
		ledger bool
	)
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Print balances, streak and progress",
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

			st := a.svc.Snapshot()
			payout := a.svc.NextPayout()
			out := cmd.OutOrStdout()

			fmt.Fprintln(out, "chorejar status · "+a.svc.Today())
			fmt.Fprintln(out, strings.Repeat("=", 40))
			fmt.Fprintf(out, "  Stars:      %d today, %d total\n", st.Stars.Today, st.Stars.Total)
			fmt.Fprintf(out, "  Streak:     %d days (best %d)\n", st.Stars.Streak.Current, st.Stars.Streak.Best())
			fmt.Fprintf(out, "  Checklist:  %d/%d done, %d more to keep the streak\n",
				st.CompletedCount(), len(st.Checklist), a.svc.TasksToKeepStreak())
			fmt.Fprintf(out, "  Wallet:     %d\n", st.Wallet.Amount)
			fmt.Fprintf(out, "  Piggy bank: %d", st.Piggy.Amount)
			if st.Piggy.Goal.Amount > 0 {
				fmt.Fprintf(out, " of %d for %s", st.Piggy.Goal.Amount, st.Piggy.Goal.Name)
			}
			fmt.Fprintln(out)
			fmt.Fprintf(out, "  Next payout: %d/%d stars (%d to go for %d)\n",
				payout.Have, payout.StarsToMoney, payout.Need, payout.MoneyPerStars)
			fmt.Fprintf(out, "  Storage:    %s\n", cfg.Storage.Backend)

			if week {
				md := views.WeeklyReportMarkdown(update.ReportData(a.svc.WeeklySummary(), st.Stars.Streak.Current))
				fmt.Fprint(out, views.RenderMarkdown(md))
			}
			if ledger {
				fmt.Fprint(out, views.RenderMarkdown(views.LedgerMarkdown("Wallet", update.LedgerLines(st.Wallet.History))))
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&week, "week", "w", false, "include the weekly report")
	cmd.Flags().BoolVarP(&ledger, "ledger", "l", false, "include the wallet ledger")
	return cmd
}

func exchangeCmd(flags *globalFlags) *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "exchange [stars]",
		Short: "Trade stars for wallet money in whole bundles",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(strings.TrimSpace(args[0]))
			if err != nil {
				return fmt.Errorf("stars must be a whole number, got %q", args[0])
			}
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			a, err := openApp(cmd.Context(), cfg, quietLogger(cfg), nil)
			if err != nil {
				return err
			}
			defer a.Close()

			if dryRun {
				q, err := a.svc.ExchangePreview(n)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "would exchange %d stars for %d, %d stars kept\n", q.Stars, q.Money, q.Leftover)
				return nil
			}
			q, err := a.svc.ExchangeStars(cmd.Context(), n)
			if errors.Is(err, rewards.ErrSaveFailed) {
				return errors.New(storage.UserMessage(err))
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exchanged %d stars for %d, %d stars kept\n", q.Stars, q.Money, q.Leftover)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "show the quote without spending stars")
	return cmd
}

// quietLogger keeps one-shot commands to warnings on stderr.
func quietLogger(cfg config.RuntimeConfig) *log.Logger {
	l := cfg.NewLogger(os.Stderr)
	l.SetLevel(log.WarnLevel)
	return l
}
