package main

import (
	"context"

	awslambda "github.com/aws/aws-lambda-go/lambda"
	"github.com/sirupsen/logrus"

	"serverless-bridge/internal/config"
	"serverless-bridge/internal/logging"
	"serverless-bridge/pkg/lambda"
)

func main() {
	cfg, err := config.GetOptimizedConfig()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	if err := logging.Setup(cfg.Log); err != nil {
		logrus.WithError(err).Fatal("Failed to configure logging")
	}

	sc := config.GetServerlessConfig()
	logrus.WithFields(logrus.Fields{
		"function_name":   sc.FunctionName,
		"region":          sc.Region,
		"stage":           sc.Stage,
		"payload_version": cfg.Lambda.PayloadVersion,
		"mount_path":      cfg.Bridge.MountPath,
	}).Info("Starting Lambda handler")

	// Warm the container during the init phase; invocations retry on failure
	cm := lambda.GetContainerManager()
	if _, err := cm.GetContainer(context.Background()); err != nil {
		logrus.WithError(err).Error("Failed to initialize container, retrying on first invocation")
	}

	if cfg.Lambda.PayloadVersion == "2.0" {
		awslambda.Start(lambda.NewManagedV2Handler(cm))
		return
	}
	awslambda.Start(lambda.NewManagedHandler(cm))
}
