package main

import (
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(eventsCmd)
	rootCmd.AddCommand(judgesCmd)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(metricsCmd)
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/health")
	},
}

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "List the scheduled match events",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/events")
	},
}

var judgesCmd = &cobra.Command{
	Use:   "judges",
	Short: "List current judge assignments",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/judges")
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear [event-id]",
	Short: "Clear all events, or a single event by ID",
	RunE: func(cmd *cobra.Command, args []string) error {
		endpoint := "/clear"
		if len(args) > 0 {
			endpoint += "?eventID=" + url.QueryEscape(args[0])
		}
		return performGetRequest(endpoint)
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/metrics")
	},
}

func performGetRequest(endpoint string) error {
	url := host + endpoint
	fmt.Printf("Making request to %s\n", url)

	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(body))

	return nil
}
