package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matthieukhl/nexsales/internal/config"
)

var mockDataEmpty bool

var mockDataCmd = &cobra.Command{
	Use:   "mock-data",
	Short: "Generate a batch of mock products and customers",
	Long: `Ask the configured generator for 5 products and 3 customers, load them
into the store and print the resulting catalog and customer list as JSON.
Use this to check what the provider produces before loading it through
the API.`,
	RunE: runMockData,
}

func init() {
	mockDataCmd.Flags().BoolVar(&mockDataEmpty, "empty", false, "start from an empty store instead of the demo records")
	rootCmd.AddCommand(mockDataCmd)
}

func runMockData(cmd *cobra.Command, args []string) error {
	a, err := newApp(func(cfg *config.Config) {
		if mockDataEmpty {
			cfg.Store.SeedDemo = false
		}
	})
	if err != nil {
		return err
	}
	defer a.close()

	fmt.Printf("🎲 Generating mock data with %s...\n", a.generator.Model())
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	res, err := a.interpreter.GenerateMockData(ctx)
	if err != nil {
		return fmt.Errorf("failed to generate mock data: %w", err)
	}
	fmt.Printf("   ✅ Added %d products and %d customers\n", res.Products, res.Customers)

	out, err := json.MarshalIndent(map[string]any{
		"products":  a.store.Products(),
		"customers": a.store.Customers(),
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode records: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
