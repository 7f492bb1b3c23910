package ksiegowosc

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	pkgerrors "github.com/kevin07696/ksiegowosc-client/pkg/errors"
	"github.com/kevin07696/ksiegowosc-client/pkg/observability"
	"github.com/kevin07696/ksiegowosc-client/test/mocks"
)

var testAuth = AuthConfig{APIId: "api-id", APIKey: "secret"}

// fixedClock returns the reference instant 2024-12-10 10:40:49 local time
func fixedClock() time.Time {
	return time.Date(2024, 12, 10, 10, 40, 49, 553000000, time.Local)
}

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) (*Client, *mocks.MockLogger) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	logger := mocks.NewMockLogger()
	client := NewClient(testAuth, &ClientConfig{BaseURL: srv.URL + "/api/"}, srv.Client(), logger, opts...)
	return client, logger
}

func TestClient_Do_SignsRequest(t *testing.T) {
	var (
		gotMethod string
		gotPath   string
		gotQuery  map[string][]string
		gotHeader http.Header
		gotBody   []byte
	)
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		gotHeader = r.Header.Clone()
		gotBody, _ = io.ReadAll(r.Body)
		w.Write([]byte(`{"Id":"new-id"}`))
	}, WithClock(fixedClock))

	var out CreateCustomerResult
	err := client.Do(context.Background(), "v2/sendcustomer", struct{}{}, &out)

	require.NoError(t, err)
	assert.Equal(t, "new-id", out.Id)

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/api/v2/sendcustomer", gotPath)
	assert.Equal(t, "application/json", gotHeader.Get("Content-Type"))
	assert.Equal(t, `{}`, string(gotBody))

	assert.Len(t, gotQuery, 3)
	assert.Equal(t, []string{"api-id"}, gotQuery["ApiId"])
	assert.Equal(t, []string{"20241210104049"}, gotQuery["timestamp"])
	assert.Equal(t, []string{"PvU4eJ9kRlWpucdGdRPGxAWyputjs6r3jQlqGcvMDxA="}, gotQuery["signature"])
	assert.True(t, ValidateSignature("secret", "api-id", "20241210104049", gotBody, gotQuery["signature"][0]))
}

func TestClient_Do_FreshTimestampPerCall(t *testing.T) {
	var (
		mu         sync.Mutex
		timestamps []string
		signatures []string
	)
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		timestamps = append(timestamps, r.URL.Query().Get("timestamp"))
		signatures = append(signatures, r.URL.Query().Get("signature"))
		mu.Unlock()
		w.Write([]byte(`[]`))
	})

	ticks := []time.Time{
		time.Date(2024, 12, 10, 10, 40, 49, 0, time.Local),
		time.Date(2024, 12, 10, 10, 40, 50, 0, time.Local),
	}
	calls := 0
	client.now = func() time.Time {
		tick := ticks[calls]
		calls++
		return tick
	}

	payload := &InvoiceQuery{PeriodStart: "20241201"}
	require.NoError(t, client.Do(context.Background(), pathGetInvoices, payload, nil))
	require.NoError(t, client.Do(context.Background(), pathGetInvoices, payload, nil))

	assert.Equal(t, []string{"20241210104049", "20241210104050"}, timestamps)
	assert.NotEqual(t, signatures[0], signatures[1], "identical bodies are re-signed with the new timestamp")
}

func TestClient_Do_EmptySuccessBody(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	out := []Tax{{Id: "untouched"}}
	err := client.Do(context.Background(), pathGetTaxes, struct{}{}, &out)

	require.NoError(t, err)
	assert.Equal(t, "untouched", out[0].Id, "empty body leaves the target as is")
}

func TestClient_Do_ErrorResponses(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantCode    string
		wantMessage string
	}{
		{"plain text error", 500, "Server exploded", pkgerrors.CodeUnknownError, "Server exploded"},
		{"json error", 400, `{"Message":"  Bad input  ","code":42}`, "42", "Bad input"},
		{"non-json success", 200, "<html>maintenance</html>", pkgerrors.CodeUnknownResponse, "Unsupported response"},
		{"success with wrong shape", 200, `{"Message":"api error"}`, pkgerrors.CodeUnknownResponse, "Unsupported response"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, logger := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			var out []Tax
			err := client.Do(context.Background(), pathGetTaxes, struct{}{}, &out)

			apiErr := requireAPIError(t, err)
			assert.Equal(t, tt.wantCode, apiErr.Code)
			assert.Equal(t, tt.wantMessage, apiErr.Message)
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Contains(t, apiErr.Context["url"], "/api/v1/gettaxes")
			assert.NotContains(t, apiErr.Context["url"], "signature", "auth query is not kept on errors")
			assert.Nil(t, out)

			if tt.status != 200 {
				require.Len(t, logger.ErrorCalls, 1)
				assert.Equal(t, "accounting API returned an error", logger.ErrorCalls[0].Message)
			}
		})
	}
}

func TestClient_Do_ValidationErrors(t *testing.T) {
	mockHTTP := mocks.NewMockHTTPClient(nil)
	client := NewClient(testAuth, nil, mockHTTP, nil)

	err := client.Do(context.Background(), "", struct{}{}, nil)
	assert.True(t, IsValidationError(err))

	err = client.Do(context.Background(), pathGetTaxes, nil, nil)
	assert.True(t, IsValidationError(err))

	err = client.Do(context.Background(), pathGetTaxes, map[string]interface{}{"bad": make(chan int)}, nil)
	assert.True(t, IsValidationError(err))
	var apiErr *pkgerrors.APIError
	assert.False(t, errors.As(err, &apiErr), "programmer errors are not folded into API errors")

	assert.Empty(t, mockHTTP.Calls(), "nothing is sent for invalid input")
}

func TestClient_Do_NetworkError(t *testing.T) {
	mockHTTP := mocks.NewMockHTTPClient(func(req *http.Request) (*http.Response, error) {
		return nil, errors.New("connection refused")
	})
	logger := mocks.NewMockLogger()
	client := NewClient(testAuth, nil, mockHTTP, logger)

	err := client.Do(context.Background(), pathGetBanks, struct{}{}, nil)

	apiErr := requireAPIError(t, err)
	assert.Equal(t, pkgerrors.CodeNetworkError, apiErr.Code)
	assert.Equal(t, 0, apiErr.Status)
	assert.EqualError(t, apiErr.Cause, "connection refused")
	require.Len(t, logger.ErrorCalls, 1)
	assert.Equal(t, "accounting API request failed", logger.ErrorCalls[0].Message)
}

func TestClient_Do_CancelAbortsInFlightRequest(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		close(started)
		select {
		case <-r.Context().Done():
		case <-release:
		}
	})
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- client.Do(ctx, pathGetInvoices, &InvoiceQuery{}, nil)
	}()

	<-started
	cancel()

	select {
	case err := <-errCh:
		assert.True(t, pkgerrors.IsCanceled(err), "got %v", err)
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("canceled call did not return")
	}
}

func TestClient_Do_AlreadyCanceled(t *testing.T) {
	mockHTTP := mocks.NewMockHTTPClient(func(req *http.Request) (*http.Response, error) {
		return nil, req.Context().Err()
	})
	client := NewClient(testAuth, nil, mockHTTP, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := client.Do(ctx, pathGetTaxes, struct{}{}, nil)
	assert.True(t, pkgerrors.IsCanceled(err))
}

func TestClient_Do_RateLimiterHonorsCancellation(t *testing.T) {
	mockHTTP := mocks.NewMockHTTPClient(nil)
	limiter := rate.NewLimiter(rate.Every(time.Hour), 1)
	client := NewClient(testAuth, nil, mockHTTP, nil, WithRateLimiter(limiter))

	require.NoError(t, client.Do(context.Background(), pathGetBanks, struct{}{}, nil))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := client.Do(ctx, pathGetBanks, struct{}{}, nil)

	assert.True(t, pkgerrors.IsCanceled(err))
	assert.Len(t, mockHTTP.Calls(), 1, "second call never reached the transport")
}

func TestClient_Do_RecordsMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := observability.NewClientMetrics(reg)

	status := http.StatusOK
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		w.Write([]byte(`{"Message":"nope","code":"E1"}`))
	}, WithMetrics(metrics))

	require.NoError(t, client.Do(context.Background(), pathGetTaxes, struct{}{}, nil))
	status = http.StatusBadRequest
	require.Error(t, client.Do(context.Background(), pathGetTaxes, struct{}{}, nil))

	expected := `
# HELP ksiegowosc_requests_total Total number of accounting API requests by endpoint and result code
# TYPE ksiegowosc_requests_total counter
ksiegowosc_requests_total{code="ok",endpoint="v1/gettaxes"} 1
ksiegowosc_requests_total{code="remote_error",endpoint="v1/gettaxes"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "ksiegowosc_requests_total"))
}

func TestClient_Do_LogsWithoutSecrets(t *testing.T) {
	client, logger := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})

	require.NoError(t, client.Do(context.Background(), pathGetBanks, struct{}{}, nil))

	require.Len(t, logger.InfoCalls, 1)
	call := logger.InfoCalls[0]
	assert.Equal(t, "making request to accounting API", call.Message)
	assert.Equal(t, "POST", call.Field("method"))
	assert.Equal(t, pathGetBanks, call.Field("endpoint"))
	assert.NotEmpty(t, call.Field("request_id"))
	for _, f := range call.Fields {
		assert.NotContains(t, f.Value, "secret")
	}
}

func TestClient_ConcurrentCalls(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		q := r.URL.Query()
		if !ValidateSignature("secret", "api-id", q.Get("timestamp"), body, q.Get("signature")) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"msg":"bad signature"}`))
			return
		}
		w.Write([]byte(`[{"BankId":"1","Name":"PKO"}]`))
	})

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := client.GetBanks(context.Background())
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
}

func TestResultCode(t *testing.T) {
	assert.Equal(t, "ok", resultCode(nil))
	assert.Equal(t, "canceled", resultCode(canceledError(context.Canceled)))
	assert.Equal(t, "unknown_error", resultCode(pkgerrors.NewAPIError(pkgerrors.CodeUnknownError, "x", 500)))
	assert.Equal(t, "remote_error", resultCode(pkgerrors.NewAPIError("42", "x", 400)))
	assert.Equal(t, "error", resultCode(errors.New("x")))
}
