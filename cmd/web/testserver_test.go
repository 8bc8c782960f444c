package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mkarvonen/prepdeck/internal/errors"
	"github.com/mkarvonen/prepdeck/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// waitForReady calls the specified endpoint until it gets a HTTP 200 Success
// response or until the context is cancelled or the 1-second timeout is reached.
func waitForReady(ctx context.Context, endpoint string) error {
	timeout := 1 * time.Second
	client := http.Client{}
	startTime := time.Now()
	var (
		err  error
		req  *http.Request
		resp *http.Response
	)
	for {
		if req, err = http.NewRequestWithContext(
			ctx,
			http.MethodGet,
			endpoint,
			nil,
		); err != nil {
			return errors.Wrap(err, "create request")
		}

		if resp, err = client.Do(req); err == nil {
			if resp.StatusCode == http.StatusOK {
				if err = resp.Body.Close(); err != nil {
					return errors.Wrap(err, "close response body")
				}
				return nil
			}
			if err = resp.Body.Close(); err != nil {
				return errors.Wrap(err, "close response body")
			}
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			if time.Since(startTime) >= timeout {
				return errors.New("timeout waiting for endpoint to be ready")
			}
			time.Sleep(250 * time.Millisecond)
		}
	}
}

func testLookupEnv(key string) (string, bool) {
	switch key {
	case "PREPDECK_ADDR":
		return "localhost:0", true
	case "PREPDECK_SQLITE_URL":
		return ":memory:", true
	case "PREPDECK_TOKEN_SECRET":
		return "test-secret", true
	default:
		return "", false
	}
}

// scriptedCompleter answers prompts the way the real model is expected to.
// Evaluation calls can be scripted to fail a number of times before
// succeeding.
type scriptedCompleter struct {
	mu               sync.Mutex
	evaluateFailures int
	prompts          []string
}

func (c *scriptedCompleter) Complete(_ context.Context, prompt string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prompts = append(c.prompts, prompt)

	switch {
	case strings.Contains(prompt, "---CV START---"):
		return "1. Tell me about your Go experience.\n" +
			"2. How do you approach debugging?\n" +
			"3. Describe a project you led.\n" +
			"4. How do you handle disagreements?\n" +
			"5. Why this role?", nil
	case strings.Contains(prompt, "single JSON object"):
		if c.evaluateFailures > 0 {
			c.evaluateFailures--
			return "", errors.New("rate limited")
		}
		return `{"score": 7.5,
"strengths": ["clear communication", "relevant experience"],
"improvements": ["add more concrete numbers"],
"recommendations": "Practice the STAR format for behavioral questions."}`, nil
	case strings.Contains(prompt, "structured numbered list"):
		return "1. Clarity: good. Relevance: good. Score: 8/10", nil
	}
	return "", errors.New("unexpected prompt")
}

type testServer struct {
	url    string
	client http.Client
}

// startTestServer starts the test server, waits for it to be ready, and
// returns the server handle for testing.
func startTestServer(t *testing.T, w io.Writer, completer *scriptedCompleter) testServer {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	// We need to grab the dynamically allocated port from the log output.
	addrCh := make(chan string, 1)
	logger := slog.New(logging.NewContextHandler(slog.NewTextHandler(w, &slog.HandlerOptions{
		AddSource: false,
		Level:     slog.LevelDebug,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == "Addr" {
				addrCh <- a.Value.String()
			}
			return a
		},
	})))

	// Start the server and wait for it to be ready.
	go func() {
		if err := runWithCompleter(ctx, logger, testLookupEnv, completer); err != nil {
			cancel()
			assert.NoError(t, err)
		}
	}()
	select {
	case <-ctx.Done():
		t.Fatal("server failed to start")
		return testServer{}
	case addr := <-addrCh:
		serverURL := fmt.Sprintf("http://%s", addr)
		if err := waitForReady(ctx, fmt.Sprintf("%s/api/healthy", serverURL)); err != nil {
			require.NoError(t, err)
		}
		return testServer{
			url:    serverURL,
			client: http.Client{},
		}
	}
}

// PostJSON sends a JSON request, with a bearer token when one is given.
func (s *testServer) PostJSON(t *testing.T, urlPath, token string, payload any) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPost, s.url+urlPath, bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.client.Do(req)
	require.NoError(t, err)
	return resp
}

// Get sends a GET request, with a bearer token when one is given.
func (s *testServer) Get(t *testing.T, urlPath, token string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, s.url+urlPath, nil)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.client.Do(req)
	require.NoError(t, err)
	return resp
}

// UploadCV posts a multipart CV upload to the interview start endpoint.
func (s *testServer) UploadCV(t *testing.T, token, role, filename string, contents []byte) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("role", role))
	part, err := mw.CreateFormFile("cv", filename)
	require.NoError(t, err)
	_, err = part.Write(contents)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, s.url+"/api/interview/start", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.client.Do(req)
	require.NoError(t, err)
	return resp
}

// Register creates an account and returns its bearer token.
func (s *testServer) Register(t *testing.T, name, email string) string {
	t.Helper()
	resp := s.PostJSON(t, "/api/auth/register", "", map[string]string{
		"name":     name,
		"email":    email,
		"password": "correct horse battery staple",
	})
	defer closeBody(t, resp)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body struct {
		Success bool   `json:"success"`
		Token   string `json:"token"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.True(t, body.Success)
	require.NotEmpty(t, body.Token)
	return body.Token
}

func closeBody(t *testing.T, resp *http.Response) {
	t.Helper()
	require.NoError(t, resp.Body.Close())
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

// minimalPDF builds a one-page PDF containing the given line of text. The
// cross-reference offsets are computed while writing so the file is valid for
// any input.
func minimalPDF(t *testing.T, text string) []byte {
	t.Helper()
	var buf bytes.Buffer
	offsets := make([]int, 0, 6)
	writeObj := func(body string) {
		offsets = append(offsets, buf.Len())
		buf.WriteString(body)
	}

	content := fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text)

	buf.WriteString("%PDF-1.4\n")
	writeObj("1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n")
	writeObj("2 0 obj\n<< /Type /Pages /Kids [3 0 R] /Count 1 >>\nendobj\n")
	writeObj("3 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] " +
		"/Contents 4 0 R /Resources << /Font << /F1 5 0 R >> >> >>\nendobj\n")
	writeObj(fmt.Sprintf("4 0 obj\n<< /Length %d >>\nstream\n%s\nendstream\nendobj\n", len(content), content))
	writeObj("5 0 obj\n<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>\nendobj\n")

	xrefStart := buf.Len()
	buf.WriteString(fmt.Sprintf("xref\n0 %d\n", len(offsets)+1))
	buf.WriteString("0000000000 65535 f \n")
	for _, offset := range offsets {
		buf.WriteString(fmt.Sprintf("%010d 00000 n \n", offset))
	}
	buf.WriteString(fmt.Sprintf("trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n",
		len(offsets)+1, xrefStart))

	return buf.Bytes()
}
