package test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"reflect"
	"testing"

	"github.com/dentora/backend/internal/router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Request executes an HTTP request against a fresh router and returns the
// recorded response.
//
// Strings, structs, maps and slices passed as body are serialized to JSON.
// Anything else is assumed to be a prepared *bytes.Buffer, e.g. a file.
func Request(t *testing.T, method, reqURL string, body any, headers ...map[string]string) httptest.ResponseRecorder {
	apiURL, ok := os.LookupEnv("API_URL")
	if !ok {
		assert.FailNow(t, "environment variable API_URL must be set")
	}

	baseURL, err := url.Parse(apiURL)
	if err != nil {
		assert.FailNow(t, "environment variable API_URL must be a valid URL")
	}

	r, teardown, err := router.Config(baseURL)
	defer teardown()
	if err != nil {
		assert.FailNow(t, "Router could not be initialized")
	}
	router.AttachRoutes(r.Group("/"))

	req, _ := http.NewRequest(method, reqURL, requestBody(t, body))
	for _, headerMap := range headers {
		for header, value := range headerMap {
			req.Header.Set(header, value)
		}
	}

	recorder := httptest.NewRecorder()
	r.ServeHTTP(recorder, req)

	return *recorder
}

func requestBody(t *testing.T, body any) *bytes.Buffer {
	switch reflect.TypeOf(body).Kind() {
	case reflect.String:
		return bytes.NewBufferString(body.(string))

	case reflect.Struct, reflect.Map, reflect.Slice:
		marshalled, err := json.Marshal(body)
		if err != nil {
			assert.Fail(t, "Request body could not be marshalled from struct input", err)
		}
		return bytes.NewBuffer(marshalled)

	default:
		return body.(*bytes.Buffer)
	}
}

// DecodeResponse parses the recorded JSON response into target.
func DecodeResponse(t *testing.T, r *httptest.ResponseRecorder, target any) {
	err := json.Unmarshal(r.Body.Bytes(), &target)
	if err != nil {
		assert.FailNow(t, "Parsing error", "Unable to parse response from server %q into %v, '%v', Request ID: %s", r.Body, reflect.TypeOf(target), err, r.Result().Header.Get("x-request-id"))
	}
}

// AssertHTTPStatus verifies that the response code is one of expectedStatus.
func AssertHTTPStatus(t *testing.T, r *httptest.ResponseRecorder, expectedStatus ...int) {
	require.Contains(t, expectedStatus, r.Code, "HTTP status is wrong. Request ID: '%s' Response body: %s", r.Result().Header.Get("x-request-id"), r.Body.String())
}
