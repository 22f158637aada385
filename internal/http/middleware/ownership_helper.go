package middleware

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/gin-gonic/gin"
)

// requestValue reads field from one request source: path, query, header or
// body. Reading the body restores it for the handler.
func requestValue(c *gin.Context, source, field string) (string, error) {
	var value string
	switch source {
	case "path":
		value = c.Param(field)
	case "query":
		value = c.Query(field)
	case "header":
		value = c.GetHeader(field)
	case "body":
		return bodyValue(c, field)
	default:
		return "", fmt.Errorf("unsupported source type: %s", source)
	}
	if value == "" {
		return "", fmt.Errorf("%s value '%s' not found", source, field)
	}
	return value, nil
}

func bodyValue(c *gin.Context, field string) (string, error) {
	if c.Request.Body == nil {
		return "", fmt.Errorf("body field '%s' not found", field)
	}
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read body: %w", err)
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(raw))

	var body map[string]interface{}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&body); err != nil {
		return "", fmt.Errorf("failed to parse JSON body: %w", err)
	}
	value, ok := body[field]
	if !ok || value == nil {
		return "", fmt.Errorf("body field '%s' not found", field)
	}
	return fmt.Sprintf("%v", value), nil
}
