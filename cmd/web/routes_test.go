package main

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"
	"unicode/utf16"

	"github.com/AdamBeresnev/knockout-fixture/internal/config"
	"github.com/AdamBeresnev/knockout-fixture/internal/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
)

func testConfig() config.Config {
	return config.Config{
		Port:            8080,
		AllowedOrigins:  []string{"*"},
		RateLimitRPS:    1000,
		RateLimitBurst:  1000,
		MaxParticipants: 128,
		MaxBodyBytes:    1 << 20,
		LogLevel:        slog.LevelInfo,
		LogFormat:       "text",
		Environment:     "test",
	}
}

func newTestRouter(t *testing.T, cfg config.Config) http.Handler {
	t.Helper()
	srv := newServer(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)), metrics.New(), "1.2.3")
	srv.now = func() time.Time { return time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC) }
	return srv.routes()
}

func do(t *testing.T, h http.Handler, method, target, contentType, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

type apiResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    struct {
		Tournament struct {
			Name             string `json:"name"`
			ParticipantCount int    `json:"participantCount"`
			BracketSize      int    `json:"bracketSize"`
			Byes             int    `json:"byes"`
			Rounds           int    `json:"rounds"`
			Bracket          []struct {
				MatchID      string          `json:"matchId"`
				Participant1 json.RawMessage `json:"participant1"`
				Participant2 json.RawMessage `json:"participant2"`
				Status       string          `json:"status"`
				NextMatchID  *string         `json:"nextMatchId"`
			} `json:"bracket"`
		} `json:"tournament"`
	} `json:"data"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) apiResponse {
	t.Helper()
	var resp apiResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return resp
}

func TestHealth(t *testing.T) {
	h := newTestRouter(t, testConfig())

	rec := do(t, h, http.MethodGet, "/health", "", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "2026-03-01T10:00:00Z", body["timestamp"])
	assert.Equal(t, "1.2.3", body["version"])
	assert.Equal(t, "test", body["environment"])
}

func TestAPIDocs(t *testing.T) {
	h := newTestRouter(t, testConfig())

	rec := do(t, h, http.MethodGet, "/api", "", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/api/tournaments/quick-pdf")
	assert.Contains(t, rec.Body.String(), `"maxParticipants":128`)
	assert.Contains(t, rec.Body.String(), `"maxPdfParticipants":256`)
}

func TestCreateTournament_JSON(t *testing.T) {
	h := newTestRouter(t, testConfig())

	rec := do(t, h, http.MethodPost, "/api/tournaments", "application/json",
		`{"name":"Summer Cup","participants":["A","B",{"name":"C"},{"id":9,"name":"D"},"E"]}`)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	resp := decode(t, rec)
	assert.True(t, resp.Success)
	assert.Equal(t, "Tournament created successfully", resp.Message)

	tournament := resp.Data.Tournament
	assert.Equal(t, "Summer Cup", tournament.Name)
	assert.Equal(t, 5, tournament.ParticipantCount)
	assert.Equal(t, 8, tournament.BracketSize)
	assert.Equal(t, 3, tournament.Byes)
	assert.Equal(t, 3, tournament.Rounds)
	require.Len(t, tournament.Bracket, 7)

	first := tournament.Bracket[0]
	assert.Equal(t, "R1M1", first.MatchID)
	assert.JSONEq(t, `{"id":1,"name":"A"}`, string(first.Participant1))
	assert.JSONEq(t, `{"bye":true}`, string(first.Participant2))
	assert.Equal(t, "completed", first.Status)

	final := tournament.Bracket[6]
	assert.Equal(t, "R3M1", final.MatchID)
	assert.Nil(t, final.NextMatchID)
}

func TestCreateTournament_DefaultName(t *testing.T) {
	h := newTestRouter(t, testConfig())

	rec := do(t, h, http.MethodPost, "/api/tournaments", "application/json", `{"participants":["A","B"]}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Knockout Tournament", decode(t, rec).Data.Tournament.Name)
}

func TestCreateTournament_YAML(t *testing.T) {
	h := newTestRouter(t, testConfig())

	rec := do(t, h, http.MethodPost, "/api/tournaments", "application/json",
		`{"participants":["A","B","C"],"returnType":"yaml"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/yaml; charset=utf-8", rec.Header().Get("Content-Type"))

	var body struct {
		Success bool `yaml:"success"`
		Data    struct {
			Tournament struct {
				Byes int `yaml:"byes"`
			} `yaml:"tournament"`
		} `yaml:"data"`
	}
	require.NoError(t, yaml.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, 1, body.Data.Tournament.Byes)
}

func TestCreateTournament_Files(t *testing.T) {
	h := newTestRouter(t, testConfig())

	t.Run("xlsx", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/api/tournaments", "application/json",
			`{"name":"Summer Cup 2026!","participants":["A","B","C","D"],"returnType":"xlsx"}`)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, contentTypeXLSX, rec.Header().Get("Content-Type"))
		assert.Equal(t, `attachment; filename="summer-cup-2026.xlsx"`, rec.Header().Get("Content-Disposition"))

		f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
		require.NoError(t, err)
		defer f.Close()
		value, err := f.GetCellValue("Matches", "A2")
		require.NoError(t, err)
		assert.Equal(t, "R1M1", value)
	})

	t.Run("pdf", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/api/tournaments", "application/json",
			`{"name":"Summer Cup","participants":["A","B","C"],"returnType":"PDF"}`)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, contentTypePDF, rec.Header().Get("Content-Type"))
		assert.Equal(t, `attachment; filename="summer-cup.pdf"`, rec.Header().Get("Content-Disposition"))
		assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")))
	})

	t.Run("quick pdf", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/api/tournaments/quick-pdf", "application/json",
			`{"participants":["A","B","C"]}`)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, `attachment; filename="knockout-tournament.pdf"`, rec.Header().Get("Content-Disposition"))
		assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")))
		assert.True(t, bytes.Contains(rec.Body.Bytes(), pdfInfoString("Knockout Tournament")))
	})
}

func TestCreateTournament_PDFTitle(t *testing.T) {
	h := newTestRouter(t, testConfig())

	testCases := []struct {
		name     string
		target   string
		body     string
		expected string
	}{
		{
			name:     "return type pdf",
			target:   "/api/tournaments",
			body:     `{"name":"Summer Cup","participants":["A","B","C"],"returnType":"pdf","pdfTitle":"Finals Night"}`,
			expected: "Finals Night",
		},
		{
			name:     "quick pdf",
			target:   "/api/tournaments/quick-pdf",
			body:     `{"name":"Summer Cup","participants":["A","B","C"],"pdfTitle":"  Кубок Києва "}`,
			expected: "Кубок Києва",
		},
		{
			name:     "blank title keeps the name",
			target:   "/api/tournaments/quick-pdf",
			body:     `{"name":"Summer Cup","participants":["A","B","C"],"pdfTitle":"   "}`,
			expected: "Summer Cup",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, tc.target, "application/json", tc.body)

			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.Equal(t, `attachment; filename="summer-cup.pdf"`, rec.Header().Get("Content-Disposition"))
			assert.True(t, bytes.Contains(rec.Body.Bytes(), pdfInfoString(tc.expected)), "title %q not in document info", tc.expected)
		})
	}
}

func TestCreateTournament_PDFParticipantLimit(t *testing.T) {
	cfg := testConfig()
	cfg.MaxParticipants = 300
	h := newTestRouter(t, cfg)

	names := make([]string, 257)
	for i := range names {
		names[i] = fmt.Sprintf("%q", fmt.Sprintf("Team %d", i+1))
	}
	participants := `"participants":[` + strings.Join(names, ",") + `]`

	rec := do(t, h, http.MethodPost, "/api/tournaments", "application/json", `{`+participants+`,"returnType":"pdf"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode(t, rec).Message, "pdf output supports at most 256 participants")

	rec = do(t, h, http.MethodPost, "/api/tournaments/quick-pdf", "application/json", `{`+participants+`}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/tournaments", "application/json", `{`+participants+`}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

// pdfInfoString encodes s the way fpdf writes UTF-8 document info entries.
func pdfInfoString(s string) []byte {
	out := []byte{0xFE, 0xFF}
	for _, u := range utf16.Encode([]rune(s)) {
		out = append(out, byte(u>>8), byte(u))
	}
	return out
}

func TestCreateTournament_InvalidInput(t *testing.T) {
	h := newTestRouter(t, testConfig())

	testCases := []struct {
		name        string
		body        string
		expectedMsg string
	}{
		{"malformed json", `{"participants":[`, "malformed JSON body"},
		{"missing participants", `{"name":"Cup"}`, "participants are required"},
		{"single participant", `{"participants":["A"]}`, "at least 2 participants are required"},
		{"blank name", `{"participants":["A","  "]}`, "participant 2 has no name"},
		{"duplicate name", `{"participants":["Alpha","alpha"]}`, "duplicate"},
		{"bad entry", `{"participants":["A",true]}`, "participant must be a name or an object with a name"},
		{"short tournament name", `{"name":"ab","participants":["A","B"]}`, "tournament name"},
		{"unknown return type", `{"participants":["A","B"],"returnType":"csv"}`, "returnType must be one of"},
		{"pdf title too long", `{"participants":["A","B"],"returnType":"pdf","pdfTitle":"` + strings.Repeat("x", 101) + `"}`, "pdf title must be between 1 and 100 characters"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/api/tournaments", "application/json", tc.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			resp := decode(t, rec)
			assert.False(t, resp.Success)
			assert.Contains(t, resp.Message, tc.expectedMsg)
		})
	}
}

func TestCreateTournament_TooManyParticipants(t *testing.T) {
	cfg := testConfig()
	cfg.MaxParticipants = 4
	h := newTestRouter(t, cfg)

	rec := do(t, h, http.MethodPost, "/api/tournaments", "application/json", `{"participants":["A","B","C","D","E"]}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode(t, rec).Message, "maximum 4 participants allowed")
}

func TestCreateTournament_BodyTooLarge(t *testing.T) {
	cfg := testConfig()
	cfg.MaxBodyBytes = 64
	h := newTestRouter(t, cfg)

	names := make([]string, 40)
	for i := range names {
		names[i] = fmt.Sprintf("%q", fmt.Sprintf("Team %d", i))
	}
	rec := do(t, h, http.MethodPost, "/api/tournaments", "application/json",
		`{"participants":[`+strings.Join(names, ",")+`]}`)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestNotFoundAndMethodNotAllowed(t *testing.T) {
	h := newTestRouter(t, testConfig())

	rec := do(t, h, http.MethodGet, "/nope", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Not found - /nope", decode(t, rec).Message)

	rec = do(t, h, http.MethodGet, "/api/tournaments", "", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.False(t, decode(t, rec).Success)
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimitRPS = 0.001
	cfg.RateLimitBurst = 2
	h := newTestRouter(t, cfg)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		codes = append(codes, do(t, h, http.MethodGet, "/api", "", "").Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/health", "", "").Code, "health is not rate limited")
}

func TestHTMLForm(t *testing.T) {
	h := newTestRouter(t, testConfig())

	rec := do(t, h, http.MethodGet, "/", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `<form method="post" action="/tournaments">`)

	form := url.Values{"name": {"Office League"}, "participants": {"Ann\nBob\n\n# reserve\nCid\n"}}
	rec = do(t, h, http.MethodPost, "/tournaments", "application/x-www-form-urlencoded", form.Encode())
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<h1>Office League</h1>")
	assert.Contains(t, rec.Body.String(), "3 participants, bracket of 4, 1 byes, 2 rounds")

	form = url.Values{"participants": {"Ann"}}
	rec = do(t, h, http.MethodPost, "/tournaments", "application/x-www-form-urlencoded", form.Encode())
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "at least 2 participants are required")
	assert.Contains(t, rec.Body.String(), "<textarea")
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestRouter(t, testConfig())

	do(t, h, http.MethodPost, "/api/tournaments", "application/json", `{"participants":["A","B","C"]}`)
	do(t, h, http.MethodPost, "/api/tournaments", "application/json", `{"participants":["A"]}`)

	rec := do(t, h, http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "knockout_fixtures_built_total 1")
	assert.Contains(t, rec.Body.String(), "knockout_fixtures_rejected_total 1")
	assert.Contains(t, rec.Body.String(), `route="/api/tournaments"`)
}

func TestGzip(t *testing.T) {
	h := newTestRouter(t, testConfig())

	names := make([]string, 32)
	for i := range names {
		names[i] = fmt.Sprintf("%q", fmt.Sprintf("Team %d", i+1))
	}
	req := httptest.NewRequest(http.MethodPost, "/api/tournaments", strings.NewReader(`{"participants":[`+strings.Join(names, ",")+`]}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))

	zr, err := gzip.NewReader(rec.Body)
	require.NoError(t, err)
	body, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"participantCount":32`)
}

func TestSlug(t *testing.T) {
	testCases := map[string]string{
		"Summer Cup":          "summer-cup",
		"  Spaces  around ":   "spaces-around",
		"Coupe d'Été 2026":    "coupe-d-t-2026",
		"!!!":                 "tournament",
		"Knockout Tournament": "knockout-tournament",
	}
	for in, expected := range testCases {
		assert.Equal(t, expected, slug(in), in)
	}
}
