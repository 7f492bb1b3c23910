package ksiegowosc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	pkgerrors "github.com/kevin07696/ksiegowosc-client/pkg/errors"
)

const (
	// maxErrorTextChars bounds how much of an unparseable body is kept on the error
	maxErrorTextChars = 4096

	defaultErrorMessage = "Unknown error"
	unsupportedMessage  = "Unsupported response"
)

// NormalizeResponse interprets a raw API response.
//
// The API does not use HTTP status consistently: it may answer 200 with an
// error-shaped JSON body or a non-2xx status with plain text. The outcome is
// therefore chosen from both the status and whether the body parses:
//
//   - 2xx, empty or JSON body: the body is returned untouched
//   - 2xx, non-JSON body:      unknown_response, parse error as cause
//   - non-2xx, non-JSON body:  unknown_error, body text is the message
//   - non-2xx, JSON body:      message from Message/msg, code from code
//
// An empty body counts as parseable and yields an empty result.
func NormalizeResponse(raw []byte, status int, requestURL string) (json.RawMessage, error) {
	ok := status >= 200 && status < 300

	parsed, parseErr := parseJSON(raw)
	if parseErr != nil {
		text := string(raw)
		if !ok {
			return nil, pkgerrors.NewAPIError(pkgerrors.CodeUnknownError, text, status).
				WithContext("text", text).
				WithContext("url", requestURL)
		}
		return nil, pkgerrors.NewAPIError(pkgerrors.CodeUnknownResponse, unsupportedMessage, status).
			WithCause(parseErr).
			WithContext("text", truncateChars(text, maxErrorTextChars)).
			WithContext("url", requestURL)
	}

	if !ok {
		message, code := errorDetails(parsed)
		return nil, pkgerrors.NewAPIError(code, message, status).
			WithContext("url", requestURL).
			WithContext("raw", string(raw))
	}

	return json.RawMessage(raw), nil
}

// parseJSON decodes raw into a generic value. Empty input decodes to nil
// without error so that bodyless success responses are accepted.
func parseJSON(raw []byte) (interface{}, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	// Unmarshal validates the whole input, including trailing data
	if err := json.Unmarshal(raw, new(json.RawMessage)); err != nil {
		return nil, fmt.Errorf("could not parse JSON with err: %w, origin text: %s", err, truncateChars(string(raw), maxErrorTextChars))
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("could not parse JSON with err: %w, origin text: %s", err, truncateChars(string(raw), maxErrorTextChars))
	}

	return v, nil
}

// errorDetails extracts the message and code from an error-shaped body.
// "Message" takes priority over "msg" and is trimmed; "code" is used when it
// carries a value.
func errorDetails(parsed interface{}) (message, code string) {
	message = defaultErrorMessage
	code = pkgerrors.CodeUnknownError

	obj, isObject := parsed.(map[string]interface{})
	if !isObject {
		return message, code
	}

	if msg, ok := obj["msg"].(string); ok {
		message = msg
	}
	if msg, ok := obj["Message"].(string); ok {
		message = strings.TrimSpace(msg)
	}
	if c, ok := codeString(obj["code"]); ok {
		code = c
	}

	return message, code
}

// codeString renders a JSON code value as a string. Absent, null, false,
// zero and empty values are treated as not present.
func codeString(v interface{}) (string, bool) {
	switch c := v.(type) {
	case string:
		return c, c != ""
	case json.Number:
		if f, err := c.Float64(); err == nil && f == 0 {
			return "", false
		}
		return c.String(), true
	case bool:
		if !c {
			return "", false
		}
		return "true", true
	case nil:
		return "", false
	default:
		b, err := json.Marshal(c)
		if err != nil {
			return "", false
		}
		return string(b), true
	}
}

// truncateChars returns at most n characters (runes) of s
func truncateChars(s string, n int) string {
	if len(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
