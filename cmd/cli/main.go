package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "paymaster-cli",
		Short: "Paymaster CLI tool",
		Long:  `A command line interface for interacting with the Paymaster API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the Paymaster API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	accountCmd := &cobra.Command{
		Use:   "account",
		Short: "Account operations",
	}

	accountCmd.AddCommand(&cobra.Command{
		Use:   "create [user_id]",
		Short: "Create an account for a user",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			doRequest(http.MethodPost, "/account/create/user_id/"+args[0], nil)
		},
	})

	accountCmd.AddCommand(&cobra.Command{
		Use:   "delete [user_id]",
		Short: "Delete a user's account",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			doRequest(http.MethodDelete, "/account/delete/user_id/"+args[0], nil)
		},
	})

	balanceCmd := &cobra.Command{
		Use:   "balance",
		Short: "Balance operations",
	}

	var currency string
	getCmd := &cobra.Command{
		Use:   "get [user_id]",
		Short: "Get a user's balance",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			path := "/balance/get/user_id/" + args[0]
			if currency != "" {
				path += "?currency=" + currency
			}
			doRequest(http.MethodGet, path, nil)
		},
	}
	getCmd.Flags().StringVar(&currency, "currency", "", "Currency to convert the balance to")
	balanceCmd.AddCommand(getCmd)

	var description string
	changeCmd := &cobra.Command{
		Use:   "change [operation] [user_id] [total]",
		Short: "Credit or debit a user's balance",
		Args:  cobra.ExactArgs(3),
		Run: func(cmd *cobra.Command, args []string) {
			doRequest(http.MethodPost, "/balance/change", map[string]any{
				"operation":   args[0],
				"user_id":     mustAtoi(args[1]),
				"total":       args[2],
				"description": description,
			})
		},
	}
	changeCmd.Flags().StringVar(&description, "description", "", "Movement description")
	balanceCmd.AddCommand(changeCmd)

	var transferDescription string
	transferCmd := &cobra.Command{
		Use:   "transfer [sender_id] [recipient_id] [total]",
		Short: "Transfer funds between two users",
		Args:  cobra.ExactArgs(3),
		Run: func(cmd *cobra.Command, args []string) {
			doRequest(http.MethodPost, "/transactions/transfer", map[string]any{
				"sender_id":    mustAtoi(args[0]),
				"recipient_id": mustAtoi(args[1]),
				"total":        args[2],
				"description":  transferDescription,
			})
		},
	}
	transferCmd.Flags().StringVar(&transferDescription, "description", "", "Transfer description")

	var (
		pageNumber int
		pageSize   int
		orderDate  string
		orderTotal string
	)
	historyCmd := &cobra.Command{
		Use:   "history [user_id]",
		Short: "Show a user's movement history",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			path := fmt.Sprintf("/transactions/history/user_id/%s?page_number=%d&page_size=%d", args[0], pageNumber, pageSize)
			if orderDate != "" {
				path += "&order_by_date=" + orderDate
			}
			if orderTotal != "" {
				path += "&order_by_total=" + orderTotal
			}
			doRequest(http.MethodGet, path, nil)
		},
	}
	historyCmd.Flags().IntVar(&pageNumber, "page", 1, "Page number")
	historyCmd.Flags().IntVar(&pageSize, "page-size", 20, "Page size")
	historyCmd.Flags().StringVar(&orderDate, "order-by-date", "", "Sort by date (asc|desc)")
	historyCmd.Flags().StringVar(&orderTotal, "order-by-total", "", "Sort by amount (asc|desc)")

	rootCmd.AddCommand(accountCmd, balanceCmd, transferCmd, historyCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func mustAtoi(s string) int64 {
	var id int64
	if _, err := fmt.Sscan(s, &id); err != nil {
		fmt.Printf("invalid integer %q\n", s)
		os.Exit(1)
	}
	return id
}

func doRequest(method, path string, payload map[string]any) {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			fmt.Printf("Failed to encode request: %v\n", err)
			os.Exit(1)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, baseURL+path, body)
	if err != nil {
		fmt.Printf("Failed to build request: %v\n", err)
		os.Exit(1)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, raw, "", "  "); err != nil {
		pretty.Write(raw)
	}

	fmt.Printf("Status: %d\n%s\n", resp.StatusCode, pretty.String())

	if resp.StatusCode >= 400 {
		os.Exit(1)
	}
}
