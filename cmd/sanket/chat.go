package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/xhad/sanket/internal/models"
	"github.com/xhad/sanket/pkg/agent"
)

func chatLoop(ctx context.Context, a *agent.Agent, report models.AnalysisReport, lang models.Language) error {
	color.Cyan("\nAsk about %s (type 'exit' to quit)", report.BillName)

	scanner := bufio.NewScanner(os.Stdin)
	userPrompt := color.New(color.FgGreen).PrintfFunc()
	assistantPrompt := color.New(color.FgCyan).PrintfFunc()

	for {
		userPrompt("\nYou: ")
		if !scanner.Scan() {
			break
		}

		query := strings.TrimSpace(scanner.Text())
		if strings.ToLower(query) == "exit" {
			break
		}
		if query == "" {
			continue
		}

		answer := withSpinner("🤖 Generating response...", func() string {
			return a.Ask(ctx, report.BillText, query, lang)
		})
		assistantPrompt("Assistant: ")
		fmt.Println(answer)

		if ctx.Err() != nil {
			return ctx.Err()
		}
	}

	return scanner.Err()
}
