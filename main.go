package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/reaandrew/s3hunter/utils"
	log "github.com/sirupsen/logrus"
)

var Version string

func setupLogging() {
	logFile, err := os.OpenFile(utils.DefaultLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		fmt.Println("Failed to open log file:", err)
		return
	}

	log.SetOutput(logFile)
	log.SetLevel(log.InfoLevel)
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp: true,
	})
}

func main() {
	if _, exists := os.LookupEnv("AWS_LAMBDA_FUNCTION_NAME"); exists {
		// Lambda logs go to CloudWatch through stdout
		log.SetFormatter(&log.JSONFormatter{})
		log.Println("Starting in Lambda mode")
		lambda.Start(Handler)
		return
	}

	setupLogging()
	log.Println("Starting in CLI mode")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli := &Cli{}
	if err := cli.Execute(ctx); err != nil {
		log.Errorf("Error executing command: %v", err)
		stop()
		os.Exit(1)
	}
}
