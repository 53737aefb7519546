package dto

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const maxToolBody = 1 << 20

// ErrMalformedBody is returned when a tool request body cannot be decoded.
var ErrMalformedBody = errors.New("malformed request body")

// ToolInput collects the values a tool call may carry. Lookups resolve in a
// fixed order: request header, then legacy top-level field (query string or
// top-level body key), then the nested serverless event shape
// (request.headers / request.body inside a JSON body).
type ToolInput struct {
	headers       http.Header
	query         url.Values
	top           map[string]interface{}
	nestedHeaders map[string]interface{}
	nestedBody    map[string]interface{}
}

// NewToolInput reads r once and indexes its headers, query and body.
func NewToolInput(r *http.Request) (*ToolInput, error) {
	in := &ToolInput{
		headers: r.Header,
		query:   r.URL.Query(),
		top:     map[string]interface{}{},
	}
	if r.Body == nil || r.Body == http.NoBody {
		return in, nil
	}

	raw, err := io.ReadAll(io.LimitReader(r.Body, maxToolBody))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if len(strings.TrimSpace(string(raw))) == 0 {
		return in, nil
	}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/x-www-form-urlencoded":
		form, err := url.ParseQuery(string(raw))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedBody, err)
		}
		for k := range form {
			in.top[k] = form.Get(k)
		}
	default:
		if err := json.Unmarshal(raw, &in.top); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedBody, err)
		}
	}

	if req, ok := in.top["request"].(map[string]interface{}); ok {
		in.nestedHeaders, _ = req["headers"].(map[string]interface{})
		in.nestedBody, _ = req["body"].(map[string]interface{})
	}
	return in, nil
}

// Value returns the first non-empty value for any of keys, honouring the
// header > top-level > nested precedence across all keys.
func (in *ToolInput) Value(keys ...string) string {
	if in == nil {
		return ""
	}
	for _, k := range keys {
		if v := in.headers.Get(k); v != "" {
			return v
		}
	}
	for _, k := range keys {
		if v := in.query.Get(k); v != "" {
			return v
		}
		if v := scalar(in.top[k]); v != "" {
			return v
		}
	}
	for _, k := range keys {
		if v := lookupFold(in.nestedHeaders, k); v != "" {
			return v
		}
		if v := scalar(in.nestedBody[k]); v != "" {
			return v
		}
	}
	return ""
}

// Field returns the first non-empty body value for any of keys: top-level
// fields first, then the nested request.body object. Headers are ignored so
// transport headers such as Date never shadow payload fields.
func (in *ToolInput) Field(keys ...string) string {
	if in == nil {
		return ""
	}
	for _, k := range keys {
		if v := in.query.Get(k); v != "" {
			return v
		}
		if v := scalar(in.top[k]); v != "" {
			return v
		}
	}
	for _, k := range keys {
		if v := scalar(in.nestedBody[k]); v != "" {
			return v
		}
	}
	return ""
}

func lookupFold(m map[string]interface{}, key string) string {
	if v := scalar(m[key]); v != "" {
		return v
	}
	for k, v := range m {
		if strings.EqualFold(k, key) {
			return scalar(v)
		}
	}
	return ""
}

func scalar(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case json.Number:
		return t.String()
	default:
		return ""
	}
}
