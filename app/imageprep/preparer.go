// Package imageprep assembles design assets for card news production:
// vector icons from the Iconify API and AI illustration prompts built
// from each card.
package imageprep

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/plkim/newsdeck/app/cards"
	"github.com/plkim/newsdeck/app/retry"
)

const (
	iconifyAPIBase = "https://api.iconify.design"
	iconLimit      = 3
)

// Background color guidance per card type, used in the illustration
// prompt.
var backgroundGuide = map[string]string{
	"cover":   "진한 파란색/보라색 계열",
	"program": "밝은 회색/흰색 계열",
	"impact":  "밝은 회색/흰색 계열",
	"result":  "밝은 회색/흰색 계열",
	"closing": "연한 파란색/초록색 계열",
}

const defaultBackground = "밝은 회색/흰색 계열"

type Icon struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type CardAssets struct {
	Prompt        string `json:"prompt"`
	IconifyIcons  []Icon `json:"iconify_icons"`
	MaterialIcons []Icon `json:"material_icons"`
}

type searchResponse struct {
	Icons []string `json:"icons"`
}

type Preparer struct {
	apiBase    string
	httpClient *http.Client
	policy     retry.Policy
}

func NewPreparer() *Preparer {
	return &Preparer{
		apiBase:    iconifyAPIBase,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		policy:     retry.Policy{MaxAttempts: 2, Delay: time.Second},
	}
}

// Prepare collects icon candidates and the illustration prompt for one
// card. Search failures degrade to a prompt-only result.
func (p *Preparer) Prepare(ctx context.Context, card cards.Card) CardAssets {
	assets := CardAssets{
		Prompt:        BuildPrompt(card),
		IconifyIcons:  []Icon{},
		MaterialIcons: []Icon{},
	}

	query := firstKeyword(card.ImageKey)
	if query == "" {
		return assets
	}

	assets.IconifyIcons = p.SearchIcons(ctx, query)
	assets.MaterialIcons = p.SearchMaterialIcons(ctx, query)
	return assets
}

// SearchIcons queries the Iconify catalog for matching vector icons.
func (p *Preparer) SearchIcons(ctx context.Context, query string) []Icon {
	names, err := p.search(ctx, query)
	if err != nil {
		slog.Warn("Iconify search failed", "query", query, "error", err)
		return []Icon{}
	}

	icons := make([]Icon, 0, len(names))
	for _, name := range names {
		icons = append(icons, Icon{Name: name, URL: fmt.Sprintf("%s/%s.svg", p.apiBase, name)})
	}
	return icons
}

// SearchMaterialIcons restricts the search to the material-symbols set.
func (p *Preparer) SearchMaterialIcons(ctx context.Context, query string) []Icon {
	names, err := p.search(ctx, "material-symbols:"+query)
	if err != nil {
		slog.Warn("Material icon search failed", "query", query, "error", err)
		return []Icon{}
	}

	icons := make([]Icon, 0, len(names))
	for _, name := range names {
		if !strings.HasPrefix(name, "material-symbols:") {
			continue
		}
		icons = append(icons, Icon{Name: name, URL: fmt.Sprintf("%s/%s.svg", p.apiBase, name)})
	}
	return icons
}

func (p *Preparer) search(ctx context.Context, query string) ([]string, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("limit", fmt.Sprintf("%d", iconLimit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.apiBase+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var result searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	names := result.Icons
	if len(names) > iconLimit {
		names = names[:iconLimit]
	}
	return names, nil
}

// DownloadSVG fetches one icon file, retrying once on rate limits.
func (p *Preparer) DownloadSVG(ctx context.Context, svgURL string) ([]byte, error) {
	var data []byte
	err := p.policy.Do(ctx, "svg download", func() (bool, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, svgURL, nil)
		if err != nil {
			return false, fmt.Errorf("failed to create request: %w", err)
		}

		resp, err := p.httpClient.Do(req)
		if err != nil {
			return true, fmt.Errorf("request failed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusTooManyRequests {
			return true, fmt.Errorf("rate limited")
		}
		if resp.StatusCode != http.StatusOK {
			return false, fmt.Errorf("unexpected status %d", resp.StatusCode)
		}

		data, err = io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		if err != nil {
			return false, fmt.Errorf("failed to read body: %w", err)
		}
		return false, nil
	})
	return data, err
}

// Bundle prepares assets for every card and packs prompts plus
// downloaded icons into a zip archive.
func (p *Preparer) Bundle(ctx context.Context, cardList []cards.Card) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for i, card := range cardList {
		assets := p.Prepare(ctx, card)
		dir := fmt.Sprintf("card_%02d", i+1)

		w, err := zw.Create(dir + "/prompt.txt")
		if err != nil {
			return nil, fmt.Errorf("failed to add prompt to archive: %w", err)
		}
		if _, err := w.Write([]byte(assets.Prompt)); err != nil {
			return nil, fmt.Errorf("failed to write prompt: %w", err)
		}

		for _, icon := range append(assets.IconifyIcons, assets.MaterialIcons...) {
			data, err := p.DownloadSVG(ctx, icon.URL)
			if err != nil {
				slog.Warn("Icon download failed", "icon", icon.Name, "error", err)
				continue
			}
			w, err := zw.Create(fmt.Sprintf("%s/%s.svg", dir, sanitizeName(icon.Name)))
			if err != nil {
				return nil, fmt.Errorf("failed to add icon to archive: %w", err)
			}
			if _, err := w.Write(data); err != nil {
				return nil, fmt.Errorf("failed to write icon: %w", err)
			}
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize archive: %w", err)
	}
	return buf.Bytes(), nil
}

// BuildPrompt renders the AI illustration prompt for one card using
// the agency's brand palette.
func BuildPrompt(card cards.Card) string {
	cardType := strings.ToLower(card.Type)
	background, ok := backgroundGuide[cardType]
	if !ok {
		background = defaultBackground
	}

	var b strings.Builder
	fmt.Fprintf(&b, "충남콘텐츠진흥원(충콘진) 브랜드 카드뉴스용 일러스트 한 장을 만든다.\n")
	fmt.Fprintf(&b, "정사각형(1:1) 비율, SNS용 카드뉴스 스타일.\n\n")
	fmt.Fprintf(&b, "디자인 스타일:\n")
	fmt.Fprintf(&b, "- 브랜드 컬러: #6750A4 (Primary), #625B71 (Secondary)\n")
	fmt.Fprintf(&b, "- 일러스트 스타일: 현대적이고 깔끔한 플랫 디자인\n")
	fmt.Fprintf(&b, "- 여백: 충분한 여백으로 가독성 확보\n")
	fmt.Fprintf(&b, "- 배경: %s\n\n", background)
	fmt.Fprintf(&b, "[카드 타입: %s]\n", strings.ToUpper(cardType))
	fmt.Fprintf(&b, "제목: %q\n", card.Head)
	if card.Body != "" {
		fmt.Fprintf(&b, "본문: %q\n", card.Body)
	}
	fmt.Fprintf(&b, "\nIMAGE_KEY 키워드: %s", card.ImageKey)
	return b.String()
}

func firstKeyword(imageKey string) string {
	fields := strings.Fields(strings.ReplaceAll(imageKey, ",", " "))
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func sanitizeName(name string) string {
	name = strings.ReplaceAll(name, "material-symbols:", "")
	return strings.Map(func(r rune) rune {
		switch r {
		case ':', '/', '\\':
			return '_'
		}
		return r
	}, name)
}
