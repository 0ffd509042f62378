package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/url"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

const (
	requestBodyLogKey  = "http.request.body.summary"
	responseBodyLogKey = "http.response.body.summary"
	maxLoggedBody      = 2048
	redacted           = "[REDACTED]"
)

func registerLogging(e *echo.Echo, log *zap.Logger) {
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogStatus:   true,
		LogMethod:   true,
		LogLatency:  true,
		LogError:    true,
		LogRemoteIP: true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			userID := "anonymous"
			if user, ok := CurrentUser(c); ok {
				userID = user.ID.Hex()
			}
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Int64("latency_ms", v.Latency.Milliseconds()),
				zap.String("remote_ip", v.RemoteIP),
				zap.String("user_id", userID),
			}
			if summary := c.Get(requestBodyLogKey); summary != nil {
				fields = append(fields, zap.Any("request_body", summary))
			}
			if summary := c.Get(responseBodyLogKey); summary != nil {
				fields = append(fields, zap.Any("response_body", summary))
			}
			switch {
			case v.Status >= 500:
				if v.Error != nil {
					fields = append(fields, zap.Error(v.Error))
				}
				log.Error("request", fields...)
			case v.Status >= 400:
				log.Warn("request", fields...)
			default:
				log.Info("request", fields...)
			}
			return nil
		},
	}))

	// Response bodies are kept for failures only; success payloads such as
	// listings are large and carry nothing the status line does not.
	e.Use(middleware.BodyDump(func(c echo.Context, reqBody, resBody []byte) {
		if summary := redactBody(reqBody, c.Request().Header.Get(echo.HeaderContentType)); summary != nil {
			c.Set(requestBodyLogKey, summary)
		}
		if c.Response().Status < 400 {
			return
		}
		if summary := redactBody(resBody, c.Response().Header().Get(echo.HeaderContentType)); summary != nil {
			c.Set(responseBodyLogKey, summary)
		}
	}))
}

// credentialMarkers are substrings of field names whose values never reach
// the log: passwords, access and refresh tokens, reset tokens and OTP codes.
var credentialMarkers = []string{"password", "token", "otp"}

func sensitiveKey(key string) bool {
	key = strings.ToLower(key)
	for _, marker := range credentialMarkers {
		if strings.Contains(key, marker) {
			return true
		}
	}
	return false
}

// redactBody turns a request or response body into a log-safe value.
// Credentials are replaced, uploads are reduced to their names and sizes and
// anything larger than maxLoggedBody is cut down to its top-level keys.
func redactBody(body []byte, contentType string) any {
	if len(body) == 0 {
		return nil
	}
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = ""
	}

	switch {
	case mediaType == echo.MIMEMultipartForm:
		return redactMultipart(body, params["boundary"])
	case mediaType == echo.MIMEApplicationForm:
		if values, err := url.ParseQuery(string(body)); err == nil && len(values) > 0 {
			return fitBody(redactValues(values))
		}
	case mediaType == echo.MIMEApplicationJSON || json.Valid(body):
		dec := json.NewDecoder(bytes.NewReader(body))
		dec.UseNumber()
		var decoded any
		if err := dec.Decode(&decoded); err == nil {
			return fitBody(redactJSON(decoded, ""))
		}
	}

	if !utf8.Valid(body) {
		return fmt.Sprintf("binary (%d bytes)", len(body))
	}
	return truncate(string(body), maxLoggedBody)
}

func redactJSON(value any, key string) any {
	if key != "" && sensitiveKey(key) {
		return redacted
	}
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, item := range v {
			out[k] = redactJSON(item, k)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = redactJSON(item, key)
		}
		return out
	case string:
		return truncate(v, maxLoggedBody)
	default:
		return v
	}
}

func redactValues(values url.Values) map[string]any {
	out := make(map[string]any, len(values))
	for key, vals := range values {
		if sensitiveKey(key) {
			out[key] = redacted
			continue
		}
		if len(vals) == 1 {
			out[key] = truncate(vals[0], maxLoggedBody)
			continue
		}
		items := make([]any, len(vals))
		for i, v := range vals {
			items[i] = truncate(v, maxLoggedBody)
		}
		out[key] = items
	}
	return out
}

// redactMultipart lists the parts of an upload. File parts are described as
// "file name (N bytes)" and never logged.
func redactMultipart(body []byte, boundary string) any {
	if boundary == "" {
		return fmt.Sprintf("multipart (%d bytes)", len(body))
	}
	reader := multipart.NewReader(bytes.NewReader(body), boundary)
	values := url.Values{}
	files := map[string]string{}
	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Sprintf("multipart (%d bytes)", len(body))
		}
		name := part.FormName()
		if name == "" {
			_ = part.Close()
			continue
		}
		n, data := drainPart(part, part.FileName() == "")
		if part.FileName() != "" {
			files[name] = fmt.Sprintf("%s (%d bytes)", part.FileName(), n)
		} else {
			values.Add(name, string(data))
		}
		_ = part.Close()
	}
	out := redactValues(values)
	for name, desc := range files {
		out[name] = desc
	}
	return fitBody(out)
}

// drainPart counts a part's bytes and, when keep is set, returns up to
// maxLoggedBody of them.
func drainPart(part io.Reader, keep bool) (int64, []byte) {
	if !keep {
		n, _ := io.Copy(io.Discard, part)
		return n, nil
	}
	var buf bytes.Buffer
	n, _ := io.Copy(&buf, io.LimitReader(part, maxLoggedBody+1))
	return n, buf.Bytes()
}

// fitBody keeps value when it encodes within maxLoggedBody; otherwise it logs
// the encoded size and the sorted top-level keys.
func fitBody(value any) any {
	encoded, err := json.Marshal(value)
	if err != nil || len(encoded) <= maxLoggedBody {
		return value
	}
	summary := map[string]any{"_truncated": true, "_bytes": len(encoded)}
	if m, ok := value.(map[string]any); ok {
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		summary["_keys"] = keys
	}
	if items, ok := value.([]any); ok {
		summary["_items"] = len(items)
	}
	return summary
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := s[:limit]
	for len(cut) > 0 && !utf8.ValidString(cut) {
		cut = cut[:len(cut)-1]
	}
	return cut + "...(truncated)"
}
