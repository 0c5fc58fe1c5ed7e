package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ErDev77/pc-configurator-sub000/internal/config"
	"github.com/ErDev77/pc-configurator-sub000/internal/watcher"
	"github.com/ErDev77/pc-configurator-sub000/pkg/models"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.LoadWatcher()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	client := watcher.NewAPIClient(cfg.APIURL, logger)

	onOrder := func(order *models.Order) {
		logger.WithFields(logrus.Fields{
			"order_id":     order.ID,
			"order_number": order.OrderNumber,
			"customer":     order.Customer.Email,
			"total":        order.Totals.Total.Float64(),
		}).Info("New order detected")

		fmt.Printf("\n=== New Order ===\n")
		fmt.Printf("Time: %s\n", time.Now().Format(time.RFC3339))
		fmt.Printf("Number: %s\n", order.OrderNumber)
		fmt.Printf("Customer: %s %s <%s>\n", order.Customer.FirstName, order.Customer.LastName, order.Customer.Email)
		fmt.Printf("Total: $%.2f\n", order.Totals.Total.Float64())
		fmt.Printf("=================\n\n")
	}

	w := watcher.New(client, cfg.Interval, cfg.Limit, onOrder, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go w.Run(ctx)

	logger.WithFields(logrus.Fields{
		"api_url":  cfg.APIURL,
		"interval": cfg.Interval.String(),
	}).Info("Order watcher started")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down order watcher...")
	cancel()
}
