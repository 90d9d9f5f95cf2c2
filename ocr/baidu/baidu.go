package baidu

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/examforge-project/examforge/ocr"
)

const (
	defaultTokenURL = "https://aip.baidubce.com/oauth/2.0/token"
	// The "accurate" variant returns word locations; the cheaper
	// "accurate_basic" variant does not and cannot serve reconstruction.
	defaultDetectURL = "https://aip.baidubce.com/rest/2.0/ocr/v1/accurate"
)

// Client calls the Baidu accurate OCR API. The access token is fetched
// lazily on first use and cached for the process lifetime; Baidu tokens
// are valid for 30 days, an expiry policy is not worth carrying here.
type Client struct {
	apiKey     string
	secretKey  string
	httpClient *http.Client

	// Used to delay the next request when the external API fails.
	backoffDuration time.Duration

	tokenURL  string
	detectURL string

	mu    sync.Mutex
	token string
}

func New(apiKey string, secretKey string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		apiKey:          apiKey,
		secretKey:       secretKey,
		httpClient:      httpClient,
		backoffDuration: time.Second / 2,
		tokenURL:        defaultTokenURL,
		detectURL:       defaultDetectURL,
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	Error       string `json:"error"`
	ErrorDesc   string `json:"error_description"`
}

type detectResponse struct {
	ErrorCode   int    `json:"error_code"`
	ErrorMsg    string `json:"error_msg"`
	WordsResult []struct {
		Words    string `json:"words"`
		Location struct {
			Top    int `json:"top"`
			Left   int `json:"left"`
			Width  int `json:"width"`
			Height int `json:"height"`
		} `json:"location"`
	} `json:"words_result"`
}

// accessToken returns the cached token, fetching it on first use.
// Callers serialize on the mutex, so at most one fetch is in flight.
func (c *Client) accessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token != "" {
		return c.token, nil
	}

	if c.apiKey == "" || c.secretKey == "" {
		return "", fmt.Errorf("baidu OCR credentials are not configured")
	}

	token, err := backoff.RetryWithData(func() (string, error) {
		return c.fetchToken(ctx)
	}, backoff.WithMaxRetries(backoff.NewConstantBackOff(c.backoffDuration), 4))
	if err != nil {
		return "", err
	}
	c.token = token
	return token, nil
}

func (c *Client) fetchToken(ctx context.Context) (string, error) {
	params := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {c.apiKey},
		"client_secret": {c.secretKey},
	}
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", err
	}
	response, err := c.httpClient.Do(request)
	if err != nil {
		return "", fmt.Errorf("failed to request access token: %w", err)
	}
	defer response.Body.Close()

	var result tokenResponse
	if err := json.NewDecoder(response.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}
	if result.AccessToken == "" {
		return "", fmt.Errorf("failed to obtain access token: %s %s", result.Error, result.ErrorDesc)
	}
	return result.AccessToken, nil
}

// DetectText submits an image to the accurate OCR endpoint and returns the
// reported fragments in provider order.
func (c *Client) DetectText(ctx context.Context, imageBytes []byte) ([]ocr.Fragment, error) {
	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	form := url.Values{"image": {base64.StdEncoding.EncodeToString(imageBytes)}}
	result, err := backoff.RetryWithData(func() (*detectResponse, error) {
		return c.detect(ctx, token, form)
	}, backoff.WithMaxRetries(backoff.NewConstantBackOff(c.backoffDuration), 4))
	if err != nil {
		return nil, err
	}

	fragments := make([]ocr.Fragment, 0, len(result.WordsResult))
	for _, word := range result.WordsResult {
		fragments = append(fragments, ocr.Fragment{
			Text:   word.Words,
			Top:    word.Location.Top,
			Left:   word.Location.Left,
			Width:  word.Location.Width,
			Height: word.Location.Height,
		})
	}
	return fragments, nil
}

func (c *Client) detect(ctx context.Context, token string, form url.Values) (*detectResponse, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.detectURL+"?access_token="+token, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("failed to request OCR: %w", err)
	}
	defer response.Body.Close()

	var result detectResponse
	if err := json.NewDecoder(response.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode OCR response: %w", err)
	}
	if result.ErrorCode != 0 {
		return nil, fmt.Errorf("OCR request failed: %d %s", result.ErrorCode, result.ErrorMsg)
	}
	return &result, nil
}
