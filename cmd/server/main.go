package main

import (
	"context"
	"net/http"
	"os"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/charmbracelet/log"

	"github.com/tonearc/tonearc/internal/api"
	"github.com/tonearc/tonearc/internal/config"
	"github.com/tonearc/tonearc/internal/identity"
	"github.com/tonearc/tonearc/internal/library"
	"github.com/tonearc/tonearc/internal/store"
)

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "tonearc",
	})

	cfg, err := config.FromEnv()
	if err != nil {
		logger.Fatal("invalid configuration", "error", err)
	}

	ctx := context.Background()
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		logger.Fatal("load aws config", "error", err)
	}

	st := store.New(dynamodb.NewFromConfig(awsCfg), store.Config{TableName: cfg.TableName})
	lib := library.New(st)
	provider := identity.NewCognito(
		cognitoidentityprovider.NewFromConfig(awsCfg),
		cfg.CognitoUserPoolID,
		cfg.CognitoClientID,
	)

	server := api.NewServer(st, lib, provider, logger)

	addr := ":" + cfg.Port
	logger.Info("listening", "addr", addr, "table", cfg.TableName)
	if err := http.ListenAndServe(addr, server.Router()); err != nil {
		logger.Fatal("server stopped", "error", err)
	}
}
