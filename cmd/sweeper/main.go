// The sweeper runs as an AWS Lambda attached to the library table's
// stream. It repairs playlist orphans left behind by interrupted
// playlist deletions.
package main

import (
	"context"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/charmbracelet/log"

	"github.com/tonearc/tonearc/internal/store"
	"github.com/tonearc/tonearc/internal/sweep"
)

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		Prefix: "sweeper",
	})

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background())
	if err != nil {
		logger.Fatal("load aws config", "error", err)
	}

	st := store.New(dynamodb.NewFromConfig(awsCfg), store.Config{
		TableName: os.Getenv("TABLE_NAME"),
	})

	handler := sweep.NewHandler(st, logger)
	lambda.Start(handler.HandleOrphanSweep)
}
