package telegram

import (
	"context"
	"testing"

	"price-sr-bot/pkg/httpclient"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHTTPClient struct {
	status   int
	endpoint string
	body     interface{}
}

func (f *fakeHTTPClient) Get(ctx context.Context, endpoint string, queryParams map[string]string, headers map[string]string, result interface{}) (*httpclient.BaseResponse, error) {
	return &httpclient.BaseResponse{StatusCode: f.status}, nil
}

func (f *fakeHTTPClient) Post(ctx context.Context, endpoint string, body interface{}, headers map[string]string, result interface{}) (*httpclient.BaseResponse, error) {
	f.endpoint = endpoint
	f.body = body
	return &httpclient.BaseResponse{StatusCode: f.status}, nil
}

func TestAlertNotifier_SendAlert(t *testing.T) {
	client := &fakeHTTPClient{status: 200}
	notifier := NewAlertNotifier(client, "123:abc", "-100", 0)

	require.NoError(t, notifier.SendAlert("boom"))
	assert.Equal(t, "/bot123:abc/sendMessage", client.endpoint)
	assert.Equal(t, map[string]interface{}{"chat_id": "-100", "text": "boom"}, client.body)
}

func TestAlertNotifier_SendAlertStatus(t *testing.T) {
	notifier := NewAlertNotifier(&fakeHTTPClient{status: 401}, "t", "1", 0)
	err := notifier.SendAlert("boom")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.NotContains(t, err.Error(), "bott")
}
