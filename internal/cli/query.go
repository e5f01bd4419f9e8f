package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/aurum-network/aurum/internal/daemon"
)

func init() {
	rootCmd.AddCommand(balanceCmd)
	rootCmd.AddCommand(supplyCmd)
	rootCmd.AddCommand(sweepCmd)
}

var balanceCmd = &cobra.Command{
	Use:   "balance ADDRESS",
	Short: "Query an address balance",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return apiGet("/v1/token/balance/" + args[0])
	},
}

var supplyCmd = &cobra.Command{
	Use:   "supply",
	Short: "Show the token supply record",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return apiGet("/v1/token/supply")
	},
}

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Settle all due scheduled and recurring transfers",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return apiPost("/v1/sweep")
	},
}

func apiClient() (*http.Client, string, error) {
	cfg, err := daemon.LoadConfig(configPath)
	if err != nil {
		return nil, "", err
	}
	return &http.Client{Timeout: 30 * time.Second}, "http://" + cfg.API.Addr(), nil
}

func apiGet(path string) error {
	client, base, err := apiClient()
	if err != nil {
		return err
	}
	resp, err := client.Get(base + path)
	if err != nil {
		return fmt.Errorf("is the daemon running? %w", err)
	}
	defer resp.Body.Close()
	return printResponse(resp)
}

func apiPost(path string) error {
	client, base, err := apiClient()
	if err != nil {
		return err
	}
	resp, err := client.Post(base+path, "application/json", nil)
	if err != nil {
		return fmt.Errorf("is the daemon running? %w", err)
	}
	defer resp.Body.Close()
	return printResponse(resp)
}

func printResponse(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	var pretty json.RawMessage
	if json.Unmarshal(body, &pretty) == nil {
		out, err := json.MarshalIndent(pretty, "", "  ")
		if err == nil {
			body = append(out, '\n')
		}
	}
	os.Stdout.Write(body)
	if resp.StatusCode >= 400 {
		return fmt.Errorf("request failed: %s", resp.Status)
	}
	return nil
}
