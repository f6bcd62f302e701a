package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/robotomize/fxwidget"
	"github.com/robotomize/fxwidget/history"
	"github.com/robotomize/fxwidget/internal/logging"
	"github.com/robotomize/fxwidget/label"
	"github.com/robotomize/fxwidget/provider/frankfurter"
	"github.com/robotomize/fxwidget/store"
)

const defaultRedisConnectTimeout = 3 * time.Second

var flagSet = flag.NewFlagSet("fxwidget", flag.ContinueOnError)

var (
	fromFlag    = flagSet.String("from", "USD", "currency code to convert from")
	toFlag      = flagSet.String("to", "EUR", "currency code to convert to")
	amountFlag  = flagSet.Float64("amount", 1, "amount to convert")
	historyFlag = flagSet.Int("history", 0, "render the historical series for the given lookback window in days, 0 disables")
	redisFlag   = flagSet.String("redis", "", "redis address for the persisted display name, optional")
	nameFlag    = flagSet.String("name", "", "set and persist the developer display name")
)

func main() {
	ctx := logging.WithLogger(context.Background(), logging.NewLogger("Fxwidget: ", log.Lmsgprefix))
	logger := logging.FromContext(ctx)

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		logger.Fatalf("flag parse: %v", err)
	}

	if err := realMain(ctx); err != nil {
		logger.Fatal(err)
	}
}

func realMain(ctx context.Context) error {
	from, err := label.Parse(*fromFlag)
	if err != nil {
		return fmt.Errorf("parse -from: %w", err)
	}

	to, err := label.Parse(*toFlag)
	if err != nil {
		return fmt.Errorf("parse -to: %w", err)
	}

	kv, err := newKV(ctx)
	if err != nil {
		return err
	}

	displayName := store.NewDisplayName(kv)

	if *nameFlag != "" {
		if err := displayName.Save(ctx, *nameFlag); err != nil {
			return fmt.Errorf("save display name: %w", err)
		}
	}

	if name, err := displayName.Load(ctx); err == nil && name != "" {
		fmt.Printf("maintained by %s\n\n", name)
	}

	client := &http.Client{Transport: &http.Transport{
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		DisableCompression:    true,
		IdleConnTimeout:       5 * time.Minute,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		ResponseHeaderTimeout: 10 * time.Second,
	}}

	source := frankfurter.NewSource(client)
	widget := fxwidget.New(source)

	if _, err := widget.RefreshSnapshot(ctx, from); err != nil {
		return fmt.Errorf("refresh snapshot: %w", err)
	}

	if _, err := widget.SetTo(ctx, to); err != nil {
		return fmt.Errorf("select target: %w", err)
	}

	res, err := widget.SetAmount(ctx, *amountFlag)
	if err != nil {
		return fmt.Errorf("convert: %w", err)
	}

	fmt.Printf("%v %s = %s %s\n", res.Amount, res.From, res.DisplayAmount(), res.To)
	fmt.Printf("1 %s = %s %s\n", res.From, res.DisplayRate(), res.To)
	if res.RateUsed > 0 {
		inverse := fxwidget.ConversionResult{RateUsed: 1 / res.RateUsed}
		fmt.Printf("1 %s = %s %s\n", res.To, inverse.DisplayRate(), res.From)
	}

	fmt.Println("\npopular rates:")
	for _, row := range widget.PopularRates(res.Amount) {
		fmt.Printf("  %s  %-28s %s\n", row.Code, row.Name, fxwidget.ConversionResult{ConvertedAmount: row.ConvertedAmount}.DisplayAmount())
	}

	if *historyFlag > 0 {
		viewer := history.New(source, &textRenderer{}, from, to)
		if err := viewer.SetParams(ctx, from, to, *historyFlag); err != nil {
			return fmt.Errorf("set history params: %w", err)
		}

		if _, err := viewer.Toggle(ctx); err != nil {
			return fmt.Errorf("load history: %w", err)
		}
	}

	return nil
}

func newKV(ctx context.Context) (store.KV, error) {
	if *redisFlag == "" {
		return store.NewMemory(), nil
	}

	kv, err := store.NewRedis(ctx, *redisFlag, defaultRedisConnectTimeout)
	if err != nil {
		return nil, fmt.Errorf("redis store: %w", err)
	}

	return kv, nil
}

// textRenderer draws the chart as plain rows, one dated rate per line
type textRenderer struct{}

func (r *textRenderer) Render(data history.ChartData) {
	fmt.Printf("\n%s (%s)\n", data.Title, data.SeriesLabel)
	for i, lbl := range data.Labels {
		fmt.Printf("  %s  %.6f\n", lbl, data.Series[i])
	}
}
