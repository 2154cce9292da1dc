package httpx

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
)

// ParseBody decodes data as JSON and falls back to the raw text when it is
// not valid JSON. Upstream error bodies are not always JSON.
func ParseBody(data []byte) any {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return string(data)
	}
	if dec.More() {
		return string(data)
	}
	return v
}

// CheckResponse returns nil for a 2xx response. Otherwise it reads the body
// and returns an *Error describing the failure. The caller still owns
// resp.Body and must close it.
func CheckResponse(resp *http.Response, op string) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Kind: KindTransport, Op: op, StatusCode: resp.StatusCode, Status: statusText(resp), Err: fmt.Errorf("failed to read response: %w", err)}
	}

	body := ParseBody(raw)
	e := &Error{
		Kind:       KindUpstreamStatus,
		Op:         op,
		StatusCode: resp.StatusCode,
		Status:     statusText(resp),
		Body:       body,
		RawBody:    raw,
	}
	if _, isText := body.(string); isText {
		e.Kind = KindUpstreamBody
	} else {
		e.Graph = graphError(raw)
	}
	return e
}

// DecodeJSON reads a successful response body into v.
func DecodeJSON(resp *http.Response, op string, v any) error {
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Kind: KindTransport, Op: op, StatusCode: resp.StatusCode, Status: statusText(resp), Err: fmt.Errorf("failed to read response: %w", err)}
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return &Error{
			Kind:       KindUpstreamBody,
			Op:         op,
			StatusCode: resp.StatusCode,
			Status:     statusText(resp),
			Body:       string(raw),
			RawBody:    raw,
			Err:        err,
		}
	}
	return nil
}

func statusText(resp *http.Response) string {
	if text, ok := strings.CutPrefix(resp.Status, strconv.Itoa(resp.StatusCode)+" "); ok {
		return text
	}
	return http.StatusText(resp.StatusCode)
}

func graphError(raw []byte) *GraphError {
	var envelope struct {
		Error *GraphError `json:"error"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil
	}
	if envelope.Error == nil || (envelope.Error.Message == "" && envelope.Error.Code == 0) {
		return nil
	}
	return envelope.Error
}
