// Command pawtrail-lambda runs pawtrail on AWS Lambda. PAWTRAIL_LAMBDA_MODE
// selects the handler: "api" (default) serves API Gateway proxy requests,
// "stream" checks walker table stream records.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jacentio/pawtrail/internal/app"
	"github.com/jacentio/pawtrail/internal/config"
	"github.com/jacentio/pawtrail/lambdaapi"
	"github.com/jacentio/pawtrail/stream"
)

func main() {
	if err := run(context.Background()); err != nil {
		slog.Error("pawtrail-lambda failed to start", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg := config.Default()
	if path := os.Getenv("PAWTRAIL_CONFIG"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	logger, err := app.NewLogger(os.Stdout, cfg.Logging)
	if err != nil {
		return err
	}

	a, err := app.New(ctx, cfg,
		app.WithLogger(logger),
		app.WithRegisterer(prometheus.DefaultRegisterer),
	)
	if err != nil {
		return err
	}

	// Counters are cumulative for the life of the execution environment.
	switch mode := os.Getenv("PAWTRAIL_LAMBDA_MODE"); mode {
	case "", "api":
		h := lambdaapi.NewHandler(a.Service, logger)
		lambda.Start(func(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
			defer a.LogStoreCalls(ctx)
			return h.Handle(ctx, event)
		})
	case "stream":
		h := stream.NewHandler(a.Sync, logger)
		lambda.Start(func(ctx context.Context, event events.DynamoDBEvent) error {
			defer a.LogStoreCalls(ctx)
			return h.HandleWalkerChanges(ctx, event)
		})
	default:
		return fmt.Errorf("unknown PAWTRAIL_LAMBDA_MODE %q", mode)
	}
	return nil
}
