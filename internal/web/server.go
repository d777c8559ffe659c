// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package web

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"author-scan/internal/config"
	"author-scan/internal/core"
	"author-scan/internal/document"
	"author-scan/internal/formatters"
	"author-scan/internal/observability"
	"author-scan/internal/preprocessors"
	"author-scan/internal/version"

	// Import formatters to register them
	_ "author-scan/internal/formatters/csv"
	_ "author-scan/internal/formatters/json"
	_ "author-scan/internal/formatters/text"
	_ "author-scan/internal/formatters/yaml"
)

//go:embed template.html
var homeTemplate []byte

// WebServer serves the upload form and the extraction API
type WebServer struct {
	port     string
	server   *http.Server
	cfg      *config.Config
	scanner  *core.Scanner
	observer *observability.StandardObserver
	mux      *http.ServeMux

	// One document is processed at a time
	pipelineMu sync.Mutex
}

// ExtractResponse is the JSON body of /api/extract and of every API error
type ExtractResponse struct {
	Success bool         `json:"success"`
	Report  *core.Report `json:"report,omitempty"`
	Error   string       `json:"error,omitempty"`
}

// requestError is a failure with the HTTP status it maps to
type requestError struct {
	status  int
	message string
}

func (e *requestError) Error() string {
	return e.message
}

// NewWebServer creates a new web server instance
func NewWebServer(port string, cfg *config.Config, scanner *core.Scanner, observer *observability.StandardObserver) *WebServer {
	if cfg == nil {
		cfg = config.LoadConfigOrDefault("")
	}
	ws := &WebServer{
		port:     port,
		cfg:      cfg,
		scanner:  scanner,
		observer: observer,
		mux:      http.NewServeMux(),
	}
	ws.setupRoutes()
	return ws
}

// Handler returns the routed handler, for embedding or tests
func (ws *WebServer) Handler() http.Handler {
	return ws.mux
}

// Start starts the web server, trying the next ports when the first is busy
func (ws *WebServer) Start() error {
	base, err := strconv.Atoi(ws.port)
	if err != nil {
		return fmt.Errorf("invalid port %q: %w", ws.port, err)
	}

	var lastError error
	for i := 0; i < 10; i++ {
		currentPort := strconv.Itoa(base + i)

		// Test if port is available first
		listener, err := net.Listen("tcp", ":"+currentPort)
		if err != nil {
			lastError = err
			if i == 0 {
				fmt.Printf("Port %s is not available, trying alternative ports...\n", currentPort)
			}
			continue
		}
		listener.Close()

		ws.server = ws.createSecureServer(currentPort)

		fmt.Printf("Author Scan web UI started on port %s\n", currentPort)
		fmt.Printf("Local:     http://localhost:%s\n", currentPort)

		if err := ws.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			lastError = err
			fmt.Printf("Server on port %s failed: %v\n", currentPort, err)
			continue
		}
		return nil
	}

	return fmt.Errorf("could not find an available port in range %d-%d\n"+
		"Last error: %v\n"+
		"Troubleshooting:\n"+
		"  1. Try a specific port with -port <number>\n"+
		"  2. Ensure you have permission to bind to the requested port", base, base+9, lastError)
}

// Stop stops the web server
func (ws *WebServer) Stop() error {
	if ws.server != nil {
		return ws.server.Close()
	}
	return nil
}

func (ws *WebServer) setupRoutes() {
	ws.mux.HandleFunc("/", ws.serveHome)
	ws.mux.HandleFunc("/health", ws.handleHealth)
	ws.mux.HandleFunc("/api/extract", ws.handleExtract)
	ws.mux.HandleFunc("/api/export", ws.handleExport)
}

// createSecureServer creates an HTTP server with security timeouts. Parsing
// may take the full parse timeout, so the write timeout allows for it.
func (ws *WebServer) createSecureServer(port string) *http.Server {
	return &http.Server{
		Addr:              ":" + port,
		Handler:           ws.mux,
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      ws.cfg.Acquisition.ParseTimeout*2 + 30*time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

// serveHome serves the upload page
func (ws *WebServer) serveHome(responseWriter http.ResponseWriter, request *http.Request) {
	if request.URL.Path != "/" {
		http.NotFound(responseWriter, request)
		return
	}
	if request.Method != http.MethodGet {
		http.Error(responseWriter, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	responseWriter.Header().Set("Content-Type", "text/html; charset=utf-8")
	responseWriter.WriteHeader(http.StatusOK)
	responseWriter.Write(homeTemplate)
}

// handleHealth provides a health check endpoint with version information
func (ws *WebServer) handleHealth(responseWriter http.ResponseWriter, request *http.Request) {
	if request.Method != http.MethodGet {
		http.Error(responseWriter, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	versionInfo := version.Full()
	healthData := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "author-scan-web",
		"version":   versionInfo["version"],
		"build_info": map[string]interface{}{
			"version":    versionInfo["version"],
			"commit":     versionInfo["commit"],
			"build_date": versionInfo["buildDate"],
			"go_version": versionInfo["goVersion"],
			"platform":   versionInfo["platform"],
		},
	}

	responseWriter.Header().Set("Content-Type", "application/json")
	responseWriter.WriteHeader(http.StatusOK)
	json.NewEncoder(responseWriter).Encode(healthData)
}

// handleExtract runs the pipeline over the uploaded file and returns the report
func (ws *WebServer) handleExtract(responseWriter http.ResponseWriter, request *http.Request) {
	if request.Method != http.MethodPost {
		http.Error(responseWriter, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	report, err := ws.processUpload(responseWriter, request)
	if err != nil {
		ws.sendRequestError(responseWriter, err)
		return
	}

	responseWriter.Header().Set("Content-Type", "application/json")
	json.NewEncoder(responseWriter).Encode(ExtractResponse{
		Success: true,
		Report:  report,
	})
}

// handleExport runs the pipeline and returns the author list as a download,
// CSV unless the form names another format
func (ws *WebServer) handleExport(responseWriter http.ResponseWriter, request *http.Request) {
	if request.Method != http.MethodPost {
		http.Error(responseWriter, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	report, err := ws.processUpload(responseWriter, request)
	if err != nil {
		ws.sendRequestError(responseWriter, err)
		return
	}

	format := request.FormValue("format")
	if format == "" {
		format = "csv"
	}

	output, contentType, filename, err := formatters.ExportForWeb(format, report, formatters.FormatterOptions{
		NoColor: true, // Always disable color for exports
		TopN:    ws.cfg.Defaults.TopN,
	})
	if err != nil {
		ws.sendErrorWithStatus(responseWriter, err.Error(), http.StatusBadRequest)
		return
	}

	responseWriter.Header().Set("Content-Type", contentType)
	responseWriter.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))
	responseWriter.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	responseWriter.WriteHeader(http.StatusOK)
	io.WriteString(responseWriter, output)
}

// processUpload reads the multipart upload and runs the pipeline under the
// pipeline lock
func (ws *WebServer) processUpload(responseWriter http.ResponseWriter, request *http.Request) (*core.Report, error) {
	maxBytes := int64(ws.cfg.Web.MaxUploadMB) << 20
	request.Body = http.MaxBytesReader(responseWriter, request.Body, maxBytes)
	if err := request.ParseMultipartForm(maxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, &requestError{http.StatusRequestEntityTooLarge, fmt.Sprintf("upload exceeds %d MB", ws.cfg.Web.MaxUploadMB)}
		}
		return nil, &requestError{http.StatusBadRequest, "Failed to parse form data"}
	}

	minMentions, err := ws.parseMinMentions(request.FormValue("min_mentions"))
	if err != nil {
		return nil, &requestError{http.StatusBadRequest, err.Error()}
	}

	file, header, err := request.FormFile("file")
	if err != nil {
		return nil, &requestError{http.StatusBadRequest, "No file uploaded"}
	}
	defer file.Close()

	// Reject unsupported formats before reading the body
	if _, err := document.FormatFromFilename(header.Filename); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, &requestError{http.StatusBadRequest, "Failed to read uploaded file"}
	}

	doc, err := document.New(header.Filename, data)
	if err != nil {
		return nil, err
	}
	doc.Name = sanitizeUserInput(doc.Name, 255)

	ws.pipelineMu.Lock()
	defer ws.pipelineMu.Unlock()

	ctx := request.Context()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return ws.scanner.WithMinMentions(minMentions).Run(ctx, doc)
}

func (ws *WebServer) parseMinMentions(value string) (int, error) {
	if value == "" {
		return ws.cfg.Defaults.MinMentions, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("min_mentions must be a number, got %q", sanitizeUserInput(value, 20))
	}
	if err := config.ValidateMinMentions(n); err != nil {
		return 0, err
	}
	return n, nil
}

// statusFor maps pipeline errors onto HTTP statuses
func statusFor(err error) int {
	var reqErr *requestError
	switch {
	case errors.As(err, &reqErr):
		return reqErr.status
	case errors.Is(err, preprocessors.ErrUnsupportedFormat):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	case errors.Is(err, preprocessors.ErrDecode),
		errors.Is(err, preprocessors.ErrParse),
		errors.Is(err, preprocessors.ErrParseTimeout):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (ws *WebServer) sendRequestError(responseWriter http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError && ws.observer != nil {
		ws.observer.Logger().WithError(err).Error("extraction failed")
	}
	ws.sendErrorWithStatus(responseWriter, err.Error(), status)
}

// sendErrorWithStatus sends an error response with a specific HTTP status code
func (ws *WebServer) sendErrorWithStatus(responseWriter http.ResponseWriter, message string, statusCode int) {
	responseWriter.Header().Set("Content-Type", "application/json")
	responseWriter.WriteHeader(statusCode)
	json.NewEncoder(responseWriter).Encode(ExtractResponse{
		Success: false,
		Error:   ws.enhanceErrorMessage(message, statusCode),
	})
}

// enhanceErrorMessage adds troubleshooting information to error messages
func (ws *WebServer) enhanceErrorMessage(message string, statusCode int) string {
	switch {
	case strings.Contains(message, "Failed to parse form data"):
		return message + "\nTroubleshooting: Upload the document as multipart/form-data in the 'file' field"
	case statusCode == http.StatusUnsupportedMediaType:
		return message + "\nTroubleshooting: Convert the document to PDF, EPUB or plain text"
	case statusCode == http.StatusUnprocessableEntity:
		return message + "\nTroubleshooting: Ensure the uploaded file is not corrupted or password protected"
	case statusCode == http.StatusInternalServerError:
		return message + "\nTroubleshooting: Check server logs for detailed error information"
	default:
		return message
	}
}

// sanitizeUserInput removes dangerous characters from user input for safe output
func sanitizeUserInput(input string, maxLength int) string {
	sanitized := strings.Map(func(r rune) rune {
		// Remove control characters (0-31, 127)
		if r < 32 || r == 127 {
			return -1
		}
		switch r {
		case '<', '>', '"', '\'', '&', '/', '\\':
			return -1
		}
		return r
	}, input)

	if len(sanitized) > maxLength {
		sanitized = sanitized[:maxLength]
	}
	return sanitized
}
