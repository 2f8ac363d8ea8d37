package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"allogator/internal/allocator"
	"allogator/internal/domain"
	"allogator/internal/symbols"
)

var rootCmd = &cobra.Command{
	Use:   "allogator",
	Short: "portfolio allocation calculator",
	Long:  "allogator computes how to distribute new cash (or rebalance with sells) across a portfolio to pull every holding toward its target weight",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "run the http api",
	RunE: func(cmd *cobra.Command, args []string) error {
		handler, cfg, err := InitializeDependencies()
		if err != nil {
			return err
		}
		defer CloseDependencies(handler)

		port := cfg.Port
		if servePort != 0 {
			port = servePort
		}
		handler.Logger.Infof("listening on :%d", port)
		return handler.StartApi(port)
	},
}

var (
	allocateFile  string
	allocateMoney float64
	allocateSell  bool
)

var allocateCmd = &cobra.Command{
	Use:   "allocate",
	Short: "compute an allocation for a portfolio file",
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(allocateFile)
		if err != nil {
			return fmt.Errorf("failed to read portfolio file: %w", err)
		}

		var req domain.AllocationRequest
		if err := json.Unmarshal(raw, &req); err != nil {
			return fmt.Errorf("failed to parse portfolio file: %w", err)
		}
		if cmd.Flags().Changed("money") {
			req.NewMoney = allocateMoney
		}
		if cmd.Flags().Changed("sell") {
			req.EnableSelling = allocateSell
		}

		for i := range req.Assets {
			req.Assets[i].Symbol = symbols.Normalize(req.Assets[i].Symbol)
		}

		validation := allocator.Validate(req.Assets, req.EnableSelling)
		if !validation.IsValid {
			for _, msg := range validation.Errors {
				fmt.Fprintln(os.Stderr, msg)
			}
			return fmt.Errorf("invalid portfolio")
		}

		results := allocator.Allocate(req)
		summary := allocator.Summarize(results)

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "SYMBOL\tADD\tNEW VALUE\tNEW %\tTARGET %\tDRIFT")
		for _, r := range results {
			fmt.Fprintf(w, "%s\t%.2f\t%.2f\t%.2f\t%.2f\t%+.2f\n",
				r.Symbol, r.AmountToAdd, r.NewValue, r.NewPercentage, r.TargetPercentage, r.Difference)
		}
		if err := w.Flush(); err != nil {
			return err
		}

		fmt.Printf("\nmax drift %.2f%%, mean drift %.2f%%\n", summary.MaxDrift, summary.MeanAbsDrift)
		return nil
	},
}

var quoteCmd = &cobra.Command{
	Use:   "quote SYMBOL...",
	Short: "fetch the latest price for one or more symbols",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		handler, _, err := InitializeDependencies()
		if err != nil {
			return err
		}
		defer CloseDependencies(handler)

		resolved := make([]string, 0, len(args))
		for _, arg := range args {
			symbol := symbols.Resolve(arg)
			if !symbols.Valid(symbol) {
				return fmt.Errorf("invalid symbol %q", arg)
			}
			resolved = append(resolved, symbol)
		}

		prices, errs := handler.PriceService.GetPrices(context.Background(), resolved)
		for _, symbol := range resolved {
			if err, ok := errs[symbol]; ok {
				fmt.Fprintf(os.Stderr, "%s\t%v\n", symbol, err)
				continue
			}
			fmt.Printf("%s\t%s\n", symbol, prices[symbol].Price.StringFixed(2))
		}
		if len(errs) > 0 {
			return fmt.Errorf("%d of %d quotes failed", len(errs), len(resolved))
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "override the configured port")

	allocateCmd.Flags().StringVarP(&allocateFile, "file", "f", "", "portfolio json file")
	allocateCmd.Flags().Float64VarP(&allocateMoney, "money", "m", 0, "new cash to allocate")
	allocateCmd.Flags().BoolVar(&allocateSell, "sell", false, "allow selling overweight holdings")
	_ = allocateCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(allocateCmd)
	rootCmd.AddCommand(quoteCmd)
}
