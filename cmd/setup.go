package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/user/regnav/pkg/adk"
	"github.com/user/regnav/pkg/config"
	"github.com/user/regnav/pkg/engine"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactive setup wizard",
	Run: func(cmd *cobra.Command, args []string) {
		scanner := bufio.NewScanner(os.Stdin)
		prompt := func() string {
			fmt.Print("> ")
			scanner.Scan()
			return strings.TrimSpace(scanner.Text())
		}

		fmt.Println("Welcome to the regnav setup wizard")
		fmt.Println("----------------------------------")

		cfg, err := config.LoadConfig()
		if err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			return
		}

		// 1. Select Provider
		fmt.Println("Step 1: Choose the provider that extracts findings")
		for i, p := range adk.Providers {
			fmt.Printf("%d. %s\n", i+1, p)
		}
		choice := strings.ToLower(prompt())
		provider := choice
		if idx, err := strconv.Atoi(choice); err == nil && idx >= 1 && idx <= len(adk.Providers) {
			provider = adk.Providers[idx-1]
		}
		if !knownProvider(provider) {
			fmt.Println("Invalid choice. Aborting.")
			return
		}

		// 2. Enter API Key
		fmt.Printf("\nStep 2: Enter API Key for %s\n", provider)
		apiKey := prompt()
		if apiKey == "" {
			apiKey = cfg.GetAPIKey(provider)
		}
		if apiKey == "" {
			fmt.Println("API Key cannot be empty.")
			return
		}

		// 3. Fetch Models
		fmt.Println("\nStep 3: Validating key and fetching available models...")
		ctx := context.Background()
		var selectedModel string
		models, err := listModels(ctx, provider, apiKey)
		if err != nil || len(models) == 0 {
			fmt.Printf("Warning: Could not fetch models from API: %v\n", err)
			fmt.Println("Please enter model name manually (e.g., 'gpt-4o', 'gemini-1.5-pro'):")
			selectedModel = prompt()
		} else {
			fmt.Printf("Successfully retrieved %d models.\n", len(models))
			for i, m := range models {
				fmt.Printf("%d. %s\n", i+1, m)
			}
			fmt.Print("Select Model (number) ")
			selIdx, err := strconv.Atoi(prompt())
			if err != nil || selIdx < 1 || selIdx > len(models) {
				fmt.Println("Invalid selection. Using first available model.")
				selectedModel = models[0]
			} else {
				selectedModel = models[selIdx-1]
			}
		}

		// 4. Catalogue
		fmt.Printf("\nStep 4: Requirement catalogue directory [%s]\n", cfg.CatalogueDir)
		if dir := prompt(); dir != "" {
			cfg.CatalogueDir = dir
		}
		if _, err := engine.LoadCatalogue(cfg.CatalogueDir); err != nil {
			fmt.Printf("Warning: %v\n", err)
		}

		// 5. Save Configuration
		fmt.Println("\nStep 5: Saving Configuration...")
		cfg.SelectedProvider = provider
		cfg.SelectedModel = selectedModel
		cfg.SetAPIKey(provider, apiKey)

		if err := config.SaveConfig(cfg); err != nil {
			fmt.Printf("Error saving config: %v\n", err)
			return
		}

		fmt.Println("----------------------------------")
		fmt.Println("Setup Complete!")
		fmt.Printf("Provider:  %s\n", provider)
		fmt.Printf("Model:     %s\n", selectedModel)
		fmt.Printf("Catalogue: %s\n", cfg.CatalogueDir)
		fmt.Println("You can now run 'regnav evaluate --business-plan bp.txt --compliance-policy cp.txt --legal-structure ls.txt'")
	},
}

func listModels(ctx context.Context, provider, apiKey string) ([]string, error) {
	p, err := adk.NewProvider(ctx, provider, apiKey, "")
	if err != nil {
		return nil, err
	}
	if closer, ok := p.(interface{ Close() }); ok {
		defer closer.Close()
	}
	return p.ListModels(ctx)
}

func init() {
	configCmd.AddCommand(setupCmd)
}
