package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/reaandrew/s3hunter/core"
	"github.com/reaandrew/s3hunter/probes"
	"github.com/reaandrew/s3hunter/utils"
	log "github.com/sirupsen/logrus"
)

// LambdaRequest represents the expected JSON structure in the request body
type LambdaRequest struct {
	Company           string   `json:"company"`
	Words             []string `json:"words"`
	WordlistParameter string   `json:"wordlist_parameter"`
	Threads           int      `json:"threads"`
	Timeout           int      `json:"timeout"`
	Retries           *int     `json:"retries"`
	Mode              string   `json:"mode"`
}

// LambdaResponse is the body returned for a completed scan
type LambdaResponse struct {
	Findings []core.Finding   `json:"findings"`
	Summary  core.ScanSummary `json:"summary"`
}

// WordlistLoader fetches a newline separated wordlist by parameter name.
type WordlistLoader func(ctx context.Context, name string) ([]string, error)

// LambdaHandler serves bucket scans behind API Gateway.
type LambdaHandler struct {
	LoadWordlist WordlistLoader
	HttpClient   probes.HttpClient
}

var defaultLambdaHandler = LambdaHandler{LoadWordlist: loadSsmWordlist}

// Handler is the Lambda function handler
func Handler(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	return defaultLambdaHandler.Handle(ctx, request)
}

func (h LambdaHandler) Handle(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	var lambdaReq LambdaRequest
	if err := json.Unmarshal([]byte(request.Body), &lambdaReq); err != nil {
		log.Printf("Error parsing request body: %v", err)
		return errorResponse(400, "Invalid JSON format."), nil
	}

	scanConfig := lambdaReq.scanConfig()
	if err := scanConfig.Validate(); err != nil {
		log.Println(err)
		return errorResponse(400, err.Error()), nil
	}

	words, err := h.words(ctx, lambdaReq)
	if err != nil {
		log.Printf("Error loading wordlist: %v", err)
		var configErr *utils.ConfigurationError
		if errors.As(err, &configErr) {
			return errorResponse(400, err.Error()), nil
		}
		return errorResponse(500, err.Error()), nil
	}

	hunt := Hunt{
		Config:     scanConfig,
		Words:      words,
		Events:     core.EventSinkFunc(logEvent),
		HttpClient: h.HttpClient,
	}
	repository, summary, err := hunt.Run(ctx)
	if err != nil {
		log.Printf("Error scanning buckets: %v", err)
		return errorResponse(400, err.Error()), nil
	}
	defer repository.Close()

	findings := repository.Findings()
	if findings == nil {
		findings = []core.Finding{}
	}
	body, err := json.Marshal(LambdaResponse{Findings: findings, Summary: summary})
	if err != nil {
		return errorResponse(500, err.Error()), nil
	}

	return toAPIGatewayResponse(200, string(body)), nil
}

// scanConfig applies the request over the defaults. The progress bar has no
// terminal to draw on here.
func (r LambdaRequest) scanConfig() utils.ScanConfig {
	scanConfig := utils.DefaultScanConfig()
	scanConfig.Company = r.Company
	scanConfig.NoProgress = true
	scanConfig.Normalize()
	if r.Threads != 0 {
		scanConfig.Threads = r.Threads
	}
	if r.Timeout != 0 {
		scanConfig.Timeout = r.Timeout
	}
	if r.Retries != nil {
		scanConfig.Retries = *r.Retries
	}
	if r.Mode != "" {
		scanConfig.Mode = r.Mode
	}
	return scanConfig
}

func (h LambdaHandler) words(ctx context.Context, request LambdaRequest) ([]string, error) {
	words := append([]string{}, request.Words...)
	if request.WordlistParameter == "" {
		return words, nil
	}
	if h.LoadWordlist == nil {
		return nil, utils.NewConfigurationError("wordlist_parameter", errors.New("no wordlist loader configured"))
	}
	loaded, err := h.LoadWordlist(ctx, request.WordlistParameter)
	if err != nil {
		return nil, err
	}
	return append(words, loaded...), nil
}

func logEvent(event core.Event) {
	fields := log.Fields{"kind": event.Kind, "url": event.URL}
	switch event.Kind {
	case core.EventFound:
		fields["status"] = event.StatusCode
		fields["signed"] = event.Signed
		log.WithFields(fields).Info("Bucket found")
	case core.EventGiveUp:
		fields["class"] = event.ErrorClass
		log.WithFields(fields).Warn("Gave up on endpoint")
	default:
		log.WithFields(fields).Debug("Probe event")
	}
}

func errorResponse(statusCode int, message string) events.APIGatewayProxyResponse {
	body, _ := json.Marshal(map[string]string{"error": message})
	return toAPIGatewayResponse(statusCode, string(body))
}

// toAPIGatewayResponse converts a status and body to events.APIGatewayProxyResponse
func toAPIGatewayResponse(statusCode int, body string) events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{
		StatusCode:      statusCode,
		Headers:         map[string]string{"Content-Type": "application/json"},
		Body:            body,
		IsBase64Encoded: false,
	}
}

// loadSsmWordlist reads a wordlist from SSM Parameter Store. The optional
// SSM_PARAMETER_PREFIX environment variable is prepended to name.
func loadSsmWordlist(ctx context.Context, name string) ([]string, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS SDK config: %w", err)
	}

	svc := ssm.NewFromConfig(cfg)

	paramName := os.Getenv("SSM_PARAMETER_PREFIX") + name
	input := &ssm.GetParameterInput{
		Name:           aws.String(paramName),
		WithDecryption: aws.Bool(true),
	}

	result, err := svc.GetParameter(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve parameter '%s': %w", paramName, err)
	}

	if result.Parameter == nil || result.Parameter.Value == nil {
		return nil, utils.NewConfigurationError("wordlist_parameter", fmt.Errorf("parameter '%s' has no value", paramName))
	}

	return utils.ReadWordlist(strings.NewReader(*result.Parameter.Value))
}
