// Command marketctl calls a running marketplace core from the shell.
//
//	marketctl [-addr URL] product <id>
//	marketctl [-addr URL] rating <productId>...
//	marketctl [-addr URL] seller-rating <sellerId>
//	marketctl [-addr URL] order -user <buyer> -product <id> -qty <n> [-pay cash|card] [-note text]
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/AngelReyesZN/FoodStack-sub000/internal/client"
	"github.com/AngelReyesZN/FoodStack-sub000/internal/models"
	"github.com/AngelReyesZN/FoodStack-sub000/internal/obs"
	"github.com/AngelReyesZN/FoodStack-sub000/internal/retry"
)

func main() {
	addr := flag.String("addr", envOr("MARKETPLACE_URL", "http://localhost:8082"), "marketplace core base URL")
	timeout := flag.Duration("timeout", 15*time.Second, "overall request timeout")
	flag.Parse()
	obs.InitLogger(envOr("LOG_LEVEL", "warn"))

	args := flag.Args()
	if len(args) == 0 {
		usage()
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	c := client.NewMarketClient(*addr, retry.DefaultPolicy())
	var (
		out any
		err error
	)
	switch args[0] {
	case "product":
		if len(args) != 2 {
			usage()
		}
		out, err = c.GetProduct(ctx, args[1])
	case "rating":
		if len(args) < 2 {
			usage()
		}
		out, err = c.ProductRating(ctx, args[1:]...)
	case "seller-rating":
		if len(args) != 2 {
			usage()
		}
		out, err = c.SellerRating(ctx, args[1])
	case "order":
		out, err = placeOrder(ctx, c, args[1:])
	default:
		usage()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func placeOrder(ctx context.Context, c *client.MarketClient, args []string) (any, error) {
	fs := flag.NewFlagSet("order", flag.ExitOnError)
	user := fs.String("user", "", "buyer user id")
	product := fs.String("product", "", "product id")
	qty := fs.Int("qty", 1, "quantity")
	pay := fs.String("pay", "cash", "payment method: cash or card")
	note := fs.String("note", "", "delivery instructions")
	fs.Parse(args)

	if *user == "" || *product == "" {
		usage()
	}
	id, err := c.PlaceOrder(ctx, *user, models.CreateOrderRequest{
		ProductID:     *product,
		Quantity:      *qty,
		PaymentMethod: *pay,
		Instructions:  *note,
	})
	if err != nil {
		return nil, err
	}
	return map[string]string{"id": id}, nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage:
  marketctl [-addr URL] product <id>
  marketctl [-addr URL] rating <productId>...
  marketctl [-addr URL] seller-rating <sellerId>
  marketctl [-addr URL] order -user <buyer> -product <id> -qty <n> [-pay cash|card] [-note text]`)
	os.Exit(2)
}
