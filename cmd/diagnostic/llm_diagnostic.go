// File: cmd/diagnostic/llm_diagnostic.go
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/iyunix/go-kanoon/internal/config"
	"github.com/iyunix/go-kanoon/internal/services"
	"github.com/iyunix/go-kanoon/internal/services/ai"
	"github.com/iyunix/go-kanoon/internal/services/kanoon"
)

func main() {
	cfg := config.Load()
	logger := services.NewLogger("diagnostic")
	failed := false

	fmt.Printf("Testing LLM %s at %s...\n", cfg.LLMModel, cfg.LLMBaseURL)
	aiCfg := ai.DefaultConfig()
	aiCfg.APIKey = cfg.LLMAPIKey
	aiCfg.BaseURL = cfg.LLMBaseURL
	aiCfg.Model = cfg.LLMModel
	aiCfg.Timeout = cfg.LLMTimeout

	provider, err := ai.NewOpenAIProvider(aiCfg)
	if err != nil {
		log.Fatalf("LLM provider setup failed: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	reply, err := provider.Complete(ctx, ai.CompletionRequest{
		System:      "You are a concise assistant on Indian law.",
		Prompt:      "In one sentence, what does Section 420 of the Indian Penal Code cover?",
		Temperature: 0.2,
	})
	if err != nil {
		fmt.Printf("LLM completion failed: %v\n", err)
		failed = true
	} else {
		fmt.Printf("LLM response: %s\n", reply)
	}

	if cfg.KanoonAPIKey == "" {
		fmt.Println("INDIAN_KANOON_API_KEY not set; skipping legal search")
	} else {
		kcfg := kanoon.DefaultConfig()
		kcfg.APIKey = cfg.KanoonAPIKey
		kcfg.BaseURL = cfg.KanoonBaseURL
		client, err := kanoon.NewClient(kcfg, logger)
		if err != nil {
			log.Fatalf("Indian Kanoon client setup failed: %v", err)
		}
		results, err := client.Search(ctx, "section 420 cheating", 0)
		if err != nil {
			fmt.Printf("Indian Kanoon search failed: %v\n", err)
			failed = true
		} else {
			fmt.Printf("Indian Kanoon returned %d results\n", len(results))
			for i, r := range results {
				if i == 3 {
					break
				}
				fmt.Printf("  - %s (%s)\n", r.Title, r.DocSource)
			}
		}
	}

	if failed {
		os.Exit(1)
	}
}
