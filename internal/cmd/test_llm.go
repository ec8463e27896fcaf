package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matthieukhl/nexsales/internal/command"
	"github.com/matthieukhl/nexsales/internal/config"
	"github.com/matthieukhl/nexsales/internal/llm"
	"github.com/matthieukhl/nexsales/internal/types"
)

var testLLMCmd = &cobra.Command{
	Use:   "test-llm",
	Short: "Test the LLM provider connection",
	Long: `Send a short request to the configured generator and check that the reply
can be read as an assistant command. This helps verify API keys and
connectivity before starting the server.`,
	RunE: testLLMProvider,
}

func init() {
	rootCmd.AddCommand(testLLMCmd)
}

func testLLMProvider(cmd *cobra.Command, args []string) error {
	fmt.Println("🧪 Testing LLM provider connection...")

	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	fmt.Printf("🤖 Testing generator (%s/%s)...\n", cfg.LLM.Generator.Provider, cfg.LLM.Generator.Model)
	generator, err := llm.NewGenerator(&cfg.LLM)
	if err != nil {
		return fmt.Errorf("failed to create generator: %w", err)
	}

	testPrompt := `Reply with exactly this JSON object and nothing else:
{"action": "generate_report", "period": "today"}`

	response, err := generator.Complete(ctx, testPrompt, map[string]any{
		types.OptMaxTokens: 100,
		types.OptSystem:    "You are a terse assistant that follows formatting instructions exactly.",
	})
	if err != nil {
		return fmt.Errorf("failed to generate response: %w", err)
	}

	fmt.Printf("   ✅ Generated response: %s\n", response)

	if _, err := command.Decode(response); err != nil {
		fmt.Printf("   ⚠️  Reply is not a valid command (%v); the assistant may answer in prose\n", err)
	} else {
		fmt.Println("   ✅ Reply parsed as a generate_report command")
	}

	fmt.Println("\n🎉 LLM provider is working!")
	return nil
}
