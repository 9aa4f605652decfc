package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rsclarke/clicktrace/internal/holder"
)

var resolveFlags struct {
	page string
}

var resolveCmd = &cobra.Command{
	Use:   "resolve <selector>",
	Short: "Show the holder chosen for an element",
	Long: `Parse an HTML page, locate the element matching the selector and print
the holder the interceptor would report for an event on it.

Selectors are tag, #id and .class compounds, optionally chained with spaces
as descendant combinators, for example "table td span.price".`,
	Args: cobra.ExactArgs(1),
	RunE: runResolve,
}

func init() {
	rootCmd.AddCommand(resolveCmd)

	resolveCmd.Flags().StringVar(&resolveFlags.page, "page", "", "HTML page to inspect")
	_ = resolveCmd.MarkFlagRequired("page")
}

func runResolve(cmd *cobra.Command, args []string) error {
	doc, err := loadPage(resolveFlags.page)
	if err != nil {
		return err
	}
	target, err := doc.Query(args[0])
	if err != nil {
		return err
	}

	res := holder.Walk(target)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "target:     %s\n", target.Tag())
	fmt.Fprintf(out, "holder:     %s\n", res.Holder.Tag())
	fmt.Fprintf(out, "iterations: %d\n", res.Iterations)
	fmt.Fprintf(out, "reason:     %s\n", res.Reason)
	fmt.Fprintln(out)
	fmt.Fprintln(out, res.Holder.OuterHTML())
	return nil
}
