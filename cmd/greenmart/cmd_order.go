package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/daliaibrahim58/greenmart/app/models"
	"github.com/daliaibrahim58/greenmart/pkg/storeclient"
)

var (
	orderAPIURL   string
	orderLogin    string
	orderPassword string
)

// greenmart order:status <order-id> <status> - transition an order through a
// running server's API instead of poking the database directly.
var orderStatusCmd = &cobra.Command{
	Use:   "order:status <order-id> <status>",
	Short: "Transition an order (pending, delivered, cancelled) via the API",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var orderID uint
		if _, err := fmt.Sscanf(args[0], "%d", &orderID); err != nil {
			return fmt.Errorf("invalid order id %q", args[0])
		}
		status, ok := models.ParseStatus(args[1])
		if !ok {
			return fmt.Errorf("unknown status %q", args[1])
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		client, err := storeclient.New(orderAPIURL).Login(ctx, orderLogin, orderPassword)
		if err != nil {
			return fmt.Errorf("login: %w", err)
		}

		if err := client.UpdateOrderStatus(ctx, orderID, status); err != nil {
			return err
		}
		fmt.Printf("Order %d is now %s\n", orderID, status)
		return nil
	},
}

func init() {
	orderStatusCmd.Flags().StringVar(&orderAPIURL, "api", "http://localhost:8080", "Base URL of the running server")
	orderStatusCmd.Flags().StringVar(&orderLogin, "login", "admin@shop.com", "Admin username or email")
	orderStatusCmd.Flags().StringVar(&orderPassword, "password", "", "Admin password")
}
