package utils

import (
	"fmt"
	"io"
	"net/http"

	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// MaxResponseBodyBytes caps how much of a response body is read into memory.
// Anything past it is dropped.
const MaxResponseBodyBytes = 1 << 20

// ReadResponseBody drains and closes an esapi response body.
func ReadResponseBody(response *esapi.Response) (string, error) {
	if response == nil {
		return "", fmt.Errorf("response is nil")
	}
	return readAndClose(response.Body)
}

// ReadHTTPResponseBody drains and closes a raw transport response body.
func ReadHTTPResponseBody(response *http.Response) (string, error) {
	if response == nil {
		return "", fmt.Errorf("response is nil")
	}
	return readAndClose(response.Body)
}

// ReadBody drains and closes any body, e.g. a request body handed to a
// transport logger.
func ReadBody(body io.ReadCloser) (string, error) {
	return readAndClose(body)
}

func readAndClose(body io.ReadCloser) (string, error) {
	if body == nil {
		return "", fmt.Errorf("response body is nil")
	}
	defer body.Close()

	data, err := io.ReadAll(io.LimitReader(body, MaxResponseBodyBytes))
	if err != nil {
		return "", err
	}

	return string(data), nil
}
