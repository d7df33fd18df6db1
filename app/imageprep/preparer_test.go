package imageprep

import (
	"archive/zip"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/plkim/newsdeck/app/cards"
	"github.com/plkim/newsdeck/app/retry"
)

func testPreparer(serverURL string) *Preparer {
	return &Preparer{
		apiBase:    serverURL,
		httpClient: &http.Client{Timeout: time.Second},
		policy:     retry.Policy{MaxAttempts: 2, Delay: time.Millisecond},
	}
}

func iconServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/search":
			query := r.URL.Query().Get("query")
			if strings.HasPrefix(query, "material-symbols:") {
				w.Write([]byte(`{"icons":["material-symbols:business-center","material-symbols:work"]}`))
				return
			}
			w.Write([]byte(`{"icons":["mdi:briefcase","tabler:building","ph:buildings"]}`))
		case strings.HasSuffix(r.URL.Path, ".svg"):
			w.Write([]byte(`<svg xmlns="http://www.w3.org/2000/svg"></svg>`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestSearchIcons(t *testing.T) {
	server := iconServer(t)
	defer server.Close()

	icons := testPreparer(server.URL).SearchIcons(context.Background(), "business")
	if len(icons) != 3 {
		t.Fatalf("Expected 3 icons, got %d", len(icons))
	}
	if icons[0].Name != "mdi:briefcase" {
		t.Errorf("Unexpected icon name: %q", icons[0].Name)
	}
	if !strings.HasSuffix(icons[0].URL, "/mdi:briefcase.svg") {
		t.Errorf("Unexpected icon URL: %q", icons[0].URL)
	}
}

func TestSearchMaterialIcons_FiltersPrefix(t *testing.T) {
	server := iconServer(t)
	defer server.Close()

	icons := testPreparer(server.URL).SearchMaterialIcons(context.Background(), "business")
	if len(icons) != 2 {
		t.Fatalf("Expected 2 icons, got %d", len(icons))
	}
	for _, icon := range icons {
		if !strings.HasPrefix(icon.Name, "material-symbols:") {
			t.Errorf("Expected material-symbols prefix, got %q", icon.Name)
		}
	}
}

func TestSearch_FailureDegrades(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	if icons := testPreparer(server.URL).SearchIcons(context.Background(), "business"); len(icons) != 0 {
		t.Errorf("Expected no icons on failure, got %d", len(icons))
	}
}

func TestDownloadSVG_RetriesRateLimit(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte("<svg/>"))
	}))
	defer server.Close()

	data, err := testPreparer(server.URL).DownloadSVG(context.Background(), server.URL+"/icon.svg")
	if err != nil {
		t.Fatalf("Expected success after retry, got %v", err)
	}
	if string(data) != "<svg/>" || calls != 2 {
		t.Errorf("Expected retried download, got %d calls, %q", calls, data)
	}
}

func TestPrepare_UsesFirstKeyword(t *testing.T) {
	var queries []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		queries = append(queries, r.URL.Query().Get("query"))
		w.Write([]byte(`{"icons":[]}`))
	}))
	defer server.Close()

	card := cards.Card{Type: "cover", Head: "제목", ImageKey: "business meeting, award"}
	testPreparer(server.URL).Prepare(context.Background(), card)

	if len(queries) != 2 || queries[0] != "business" || queries[1] != "material-symbols:business" {
		t.Errorf("Expected first keyword searches, got %v", queries)
	}
}

func TestPrepare_EmptyImageKeySkipsSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("No search expected without an image key")
	}))
	defer server.Close()

	card := cards.Card{Type: "cover", Head: "제목"}
	assets := testPreparer(server.URL).Prepare(context.Background(), card)
	if assets.Prompt == "" {
		t.Error("Prompt should always be generated")
	}
	if len(assets.IconifyIcons) != 0 || len(assets.MaterialIcons) != 0 {
		t.Error("Expected no icons without an image key")
	}
}

func TestBuildPrompt(t *testing.T) {
	card := cards.Card{Type: "cover", Head: "충콘진이 하는 일", Body: "본문 내용", ImageKey: "business meeting"}
	prompt := BuildPrompt(card)

	if !strings.Contains(prompt, "#6750A4") || !strings.Contains(prompt, "#625B71") {
		t.Error("Prompt should carry the brand colors")
	}
	if !strings.Contains(prompt, "진한 파란색/보라색 계열") {
		t.Error("Cover cards should use the dark background guide")
	}
	if !strings.Contains(prompt, "[카드 타입: COVER]") {
		t.Error("Prompt should name the card type")
	}
	if !strings.Contains(prompt, "business meeting") {
		t.Error("Prompt should include the image keywords")
	}
}

func TestBuildPrompt_UnknownTypeDefaultsBackground(t *testing.T) {
	prompt := BuildPrompt(cards.Card{Type: "unknown", Head: "제목"})
	if !strings.Contains(prompt, "밝은 회색/흰색 계열") {
		t.Error("Unknown card types should use the default background")
	}
}

func TestBundle_PacksPromptsAndIcons(t *testing.T) {
	server := iconServer(t)
	defer server.Close()

	cardList := []cards.Card{
		{Type: "cover", Head: "제목", ImageKey: "business"},
		{Type: "closing", Head: "마무리"},
	}

	data, err := testPreparer(server.URL).Bundle(context.Background(), cardList)
	if err != nil {
		t.Fatalf("Failed to build bundle: %v", err)
	}

	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("Bundle is not a valid zip: %v", err)
	}

	names := map[string]bool{}
	for _, f := range reader.File {
		names[f.Name] = true
	}
	if !names["card_01/prompt.txt"] || !names["card_02/prompt.txt"] {
		t.Errorf("Expected prompt files per card, got %v", names)
	}
	if !names["card_01/mdi_briefcase.svg"] {
		t.Errorf("Expected sanitized icon file names, got %v", names)
	}
}
