package cmd

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/user/regnav/pkg/adk"
	"github.com/user/regnav/pkg/config"
	"github.com/user/regnav/pkg/engine"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration (providers, models, keys, catalogue)",
}

var setKeyCmd = &cobra.Command{
	Use:   "set-key",
	Short: "Store the API key for a provider",
	RunE: func(cmd *cobra.Command, args []string) error {
		provider, _ := cmd.Flags().GetString("provider")
		key, _ := cmd.Flags().GetString("key")
		if key == "" {
			return fmt.Errorf("--key is required")
		}
		return updateConfig(cmd.OutOrStdout(), func(cfg *config.Config) (string, error) {
			name, err := providerName(provider)
			if err != nil {
				return "", err
			}
			cfg.SetAPIKey(name, key)
			return "API key saved for provider: " + name, nil
		})
	},
}

var setModelCmd = &cobra.Command{
	Use:   "set-model",
	Short: "Select the active provider and model",
	RunE: func(cmd *cobra.Command, args []string) error {
		provider, _ := cmd.Flags().GetString("provider")
		model, _ := cmd.Flags().GetString("model")
		return updateConfig(cmd.OutOrStdout(), func(cfg *config.Config) (string, error) {
			if provider != "" {
				name, err := providerName(provider)
				if err != nil {
					return "", err
				}
				cfg.SelectedProvider = name
			}
			if model != "" {
				cfg.SelectedModel = model
			}
			return fmt.Sprintf("Active configuration updated: Provider=%s, Model=%s", cfg.SelectedProvider, cfg.SelectedModel), nil
		})
	},
}

var setCatalogueCmd = &cobra.Command{
	Use:   "set-catalogue [dir]",
	Short: "Set the requirement catalogue directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return updateConfig(cmd.OutOrStdout(), func(cfg *config.Config) (string, error) {
			dir, err := filepath.Abs(args[0])
			if err != nil {
				return "", err
			}
			if _, err := engine.LoadCatalogue(dir); err != nil {
				return "", err
			}
			cfg.CatalogueDir = dir
			return "Catalogue directory set to " + dir, nil
		})
	},
}

var listModelsCmd = &cobra.Command{
	Use:   "list-models",
	Short: "List available models from the configured provider",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}
		provider := cfg.SelectedProvider
		apiKey := cfg.GetAPIKey(provider)
		if apiKey == "" {
			return fmt.Errorf("no API key found for %s, run 'regnav config set-key'", provider)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Fetching models for %s...\n", provider)
		models, err := listModels(cmd.Context(), provider, apiKey)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "\nAvailable Models (%s):\n", provider)
		for _, m := range models {
			mark := " "
			if m == cfg.SelectedModel {
				mark = "*"
			}
			fmt.Fprintf(out, "%s %s\n", mark, m)
		}
		return nil
	},
}

// updateConfig loads the user config, applies change and saves it. Nothing
// is written when change fails.
func updateConfig(w io.Writer, change func(cfg *config.Config) (string, error)) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	msg, err := change(cfg)
	if err != nil {
		return err
	}
	if err := config.SaveConfig(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	fmt.Fprintln(w, msg)
	return nil
}

// providerName lowercases name and checks it against the supported backends
func providerName(name string) (string, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if !knownProvider(name) {
		return "", fmt.Errorf("unknown provider %q (%s)", name, strings.Join(adk.Providers, ", "))
	}
	return name, nil
}

func knownProvider(name string) bool {
	for _, p := range adk.Providers {
		if p == name {
			return true
		}
	}
	return false
}

func init() {
	providers := strings.Join(adk.Providers, ", ")
	setKeyCmd.Flags().StringP("provider", "p", "", "Provider ("+providers+")")
	setKeyCmd.Flags().StringP("key", "k", "", "API Key")

	setModelCmd.Flags().StringP("provider", "p", "", "Provider ("+providers+")")
	setModelCmd.Flags().StringP("model", "m", "", "Model name")

	configCmd.AddCommand(setKeyCmd, setModelCmd, setCatalogueCmd, listModelsCmd)
	rootCmd.AddCommand(configCmd)
}
