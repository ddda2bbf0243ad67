package main

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLambdaHandlerScansRequestedCompany(t *testing.T) {
	handler := LambdaHandler{HttpClient: signedAcmeDev()}

	resp, err := handler.Handle(context.Background(), events.APIGatewayProxyRequest{
		Body: `{"company": "acme", "words": ["dev", "prod"], "threads": 2}`,
	})
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Headers["Content-Type"])

	var body LambdaResponse
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &body))
	require.Len(t, body.Findings, 1)
	assert.Equal(t, "https://acme-dev.s3.amazonaws.com", body.Findings[0].URL)
	assert.Equal(t, 5, body.Summary.Candidates)

	var raw struct {
		Summary map[string]interface{} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &raw))
	assert.Contains(t, raw.Summary, "elapsed_ms")
	assert.NotContains(t, raw.Summary, "elapsed")
}

func TestLambdaHandlerLoadsWordlistParameter(t *testing.T) {
	var requested string
	handler := LambdaHandler{
		HttpClient: signedAcmeDev(),
		LoadWordlist: func(ctx context.Context, name string) ([]string, error) {
			requested = name
			return []string{"dev"}, nil
		},
	}

	resp, err := handler.Handle(context.Background(), events.APIGatewayProxyRequest{
		Body: `{"company": "acme", "wordlist_parameter": "wordlists/common"}`,
	})
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "wordlists/common", requested)
	assert.Contains(t, resp.Body, "https://acme-dev.s3.amazonaws.com")
}

func TestLambdaHandlerRejectsBadRequests(t *testing.T) {
	testCases := []struct {
		name string
		body string
	}{
		{"invalid json", `{"company":`},
		{"missing company", `{"words": ["dev"]}`},
		{"negative retries", `{"company": "acme", "retries": -1}`},
		{"unknown mode", `{"company": "acme", "mode": "eventually"}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			client := signedAcmeDev()
			resp, err := LambdaHandler{HttpClient: client}.Handle(context.Background(), events.APIGatewayProxyRequest{Body: tc.body})
			require.NoError(t, err)
			assert.Equal(t, 400, resp.StatusCode)
			assert.Contains(t, resp.Body, "error")
			assert.Empty(t, client.Requests())
		})
	}
}

func TestLambdaHandlerReportsWordlistFailure(t *testing.T) {
	handler := LambdaHandler{
		HttpClient: signedAcmeDev(),
		LoadWordlist: func(ctx context.Context, name string) ([]string, error) {
			return nil, errors.New("access denied")
		},
	}

	resp, err := handler.Handle(context.Background(), events.APIGatewayProxyRequest{
		Body: `{"company": "acme", "wordlist_parameter": "secret"}`,
	})
	require.NoError(t, err)
	assert.Equal(t, 500, resp.StatusCode)
	assert.Contains(t, resp.Body, "access denied")
}

func TestLambdaRequestRetriesZeroIsKept(t *testing.T) {
	var request LambdaRequest
	require.NoError(t, json.Unmarshal([]byte(`{"company": "acme", "retries": 0}`), &request))
	assert.Equal(t, 0, request.scanConfig().Retries)

	var defaulted LambdaRequest
	require.NoError(t, json.Unmarshal([]byte(`{"company": "acme"}`), &defaulted))
	assert.Equal(t, 2, defaulted.scanConfig().Retries)
}
