package internal

import (
	"bytes"
	"encoding/json"
	"mime"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/linkfluence/radarly-go/pkg/types"
)

// Parser handles parsing of Radarly API responses.
type Parser struct{}

// NewParser creates a new parser instance.
func NewParser() *Parser {
	return &Parser{}
}

// ParseErrorResponse reduces an error response body to the vendor's
// normalized error shape. The API returns errors either as an HTML page
// (type in <title>, detail in <p id="detail">) or as a JSON envelope
// ({"error_type": ..., "message": ...}).
func (p *Parser) ParseErrorResponse(status int, header http.Header, body []byte) *types.ErrorPayload {
	payload := &types.ErrorPayload{ErrorCode: status}

	contentType := header.Get("Content-Type")
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
		contentType = mediaType
	}

	switch contentType {
	case "text/html":
		p.parseHTMLError(body, payload)
	case "application/json":
		p.parseJSONError(body, payload)
	default:
		// Some gateways omit the Content-Type on error pages; sniff it.
		trimmed := bytes.TrimSpace(body)
		if len(trimmed) > 0 && trimmed[0] == '{' {
			p.parseJSONError(body, payload)
		} else if len(trimmed) > 0 && trimmed[0] == '<' {
			p.parseHTMLError(body, payload)
		}
	}

	return payload
}

func (p *Parser) parseHTMLError(body []byte, payload *types.ErrorPayload) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return
	}

	payload.ErrorType = strings.TrimSpace(doc.Find("title").First().Text())
	payload.ErrorMessage = strings.TrimSpace(doc.Find("p#detail").First().Text())
}

func (p *Parser) parseJSONError(body []byte, payload *types.ErrorPayload) {
	var envelope struct {
		ErrorType string `json:"error_type"`
		Error     string `json:"error"`
		Message   string `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return
	}

	payload.ErrorType = envelope.ErrorType
	if payload.ErrorType == "" {
		payload.ErrorType = envelope.Error
	}
	payload.ErrorMessage = envelope.Message
}
