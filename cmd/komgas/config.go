package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/kerbaras/komgas/pkg/host"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the server settings",
}

var configSetServerCmd = &cobra.Command{
	Use:   "set-server [url]",
	Short: "Set the Komga server address",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		env, err := newEnv()
		cobra.CheckErr(err)
		cobra.CheckErr(env.store.Set(host.KeyServerURL, args[0]))
		fmt.Println("Server address saved.")
	},
}

var configSetUserCmd = &cobra.Command{
	Use:   "set-user [username] [password]",
	Short: "Set and verify the server credentials",
	Long:  "Verify the credentials against the server before saving them. The probe authenticates with the supplied values, never with previously stored ones.",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		env, err := newEnv()
		cobra.CheckErr(err)

		if err := env.client.CheckLogin(cmd.Context(), args[0], args[1]); err != nil {
			cobra.CheckErr(fmt.Errorf("credential check failed: %w", err))
		}

		cobra.CheckErr(env.store.Set(host.KeyUsername, args[0]))
		cobra.CheckErr(env.store.Set(host.KeyPassword, args[1]))
		fmt.Println("Credentials verified and saved.")
	},
}

var configSetFlagsCmd = &cobra.Command{
	Use:   "set-flags",
	Short: "Toggle the optional home sections",
	Run: func(cmd *cobra.Command, args []string) {
		env, err := newEnv()
		cobra.CheckErr(err)

		if cmd.Flags().Changed("on-deck") {
			v, _ := cmd.Flags().GetBool("on-deck")
			cobra.CheckErr(env.store.Set(host.KeyShowOnDeck, strconv.FormatBool(v)))
		}
		if cmd.Flags().Changed("keep-reading") {
			v, _ := cmd.Flags().GetBool("keep-reading")
			cobra.CheckErr(env.store.Set(host.KeyShowKeepReading, strconv.FormatBool(v)))
		}
		fmt.Println("Flags saved.")
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current settings",
	Run: func(cmd *cobra.Command, args []string) {
		env, err := newEnv()
		cobra.CheckErr(err)

		cfg := env.store.ServerConfig()
		url := cfg.BaseURL
		if url == "" {
			url = "(not configured)"
		}
		user := cfg.Username
		if user == "" {
			user = "(not set)"
		}
		fmt.Printf("Server:   %s\n", url)
		fmt.Printf("Username: %s\n", user)

		onDeck, _ := env.store.Get(host.KeyShowOnDeck)
		keepReading, _ := env.store.Get(host.KeyShowKeepReading)
		fmt.Printf("On deck section:      %s\n", flagLabel(onDeck))
		fmt.Printf("Keep reading section: %s\n", flagLabel(keepReading))
	},
}

func flagLabel(v string) string {
	if v == "false" {
		return "off"
	}
	return "on"
}

func init() {
	configSetFlagsCmd.Flags().Bool("on-deck", true, "Show the On Deck section")
	configSetFlagsCmd.Flags().Bool("keep-reading", true, "Show the Keep Reading section")

	configCmd.AddCommand(configSetServerCmd)
	configCmd.AddCommand(configSetUserCmd)
	configCmd.AddCommand(configSetFlagsCmd)
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}
