package ports

import "net/http"

// HTTPClient is the transport used to reach the accounting API.
// *http.Client satisfies it; tests inject mocks.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}
