// cmd/recommend-cli/query.go
package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"assessment-recommender/internal/console"
)

var queryCmd = &cobra.Command{
	Use:   "query [text]",
	Short: "Fetch recommendations for a single query",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return query(cmd, strings.Join(args, " "))
	},
}

var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "Run an interactive query prompt",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return interactive(cmd)
	},
}

func query(cmd *cobra.Command, text string) error {
	c, _, err := newClient(cmd)
	if err != nil {
		return err
	}

	form := console.NewQueryForm(c, loggerFor("warn"))

	if !form.Submit(cmd.Context(), text) {
		return errors.New("query cannot be empty")
	}

	return printOutcome(cmd, form)
}

// interactive loops on a prompt until the user exits with an empty line
// or an interrupt.
func interactive(cmd *cobra.Command) error {
	c, cfg, err := newClient(cmd)
	if err != nil {
		return err
	}

	log := loggerFor("warn")
	form := console.NewQueryForm(c, log)

	fmt.Printf("Connected to %s. Describe a role to get assessment recommendations.\n", cfg.Client.BaseURL)
	fmt.Println("Press ENTER on an empty line or Ctrl+C to exit.")

	prompt := promptui.Prompt{Label: "Query"}

	for {
		text, err := prompt.Run()
		if err != nil {
			// promptui returns an error on interrupt or EOF.
			return nil
		}
		if strings.TrimSpace(text) == "" {
			return nil
		}

		if !form.Submit(cmd.Context(), text) {
			continue
		}

		if err := printOutcome(cmd, form); err != nil {
			return err
		}
	}
}

func printOutcome(cmd *cobra.Command, form *console.QueryForm) error {
	if msg := form.Err(); msg != "" {
		fmt.Println(msg)
		return nil
	}

	result := form.Result()
	if result == nil || result.Len() == 0 {
		fmt.Println("No assessments matched the query.")
		return nil
	}

	noColor, _ := cmd.Flags().GetBool("no-color")
	fmt.Print(console.RenderTable(result, !noColor))
	return nil
}
