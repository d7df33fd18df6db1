// Package gemini calls the Google Generative Language REST API for
// article summaries and card news script drafts.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/plkim/newsdeck/app/retry"
)

const apiBase = "https://generativelanguage.googleapis.com/v1"

const summaryPromptHeader = "다음 뉴스 기사를 한국어로 자연스럽게 350~450자 사이로 요약해 주세요.\n\n" +
	"요약 형식:\n" +
	"1. 핵심 키워드(충남콘텐츠진흥원, 충콘진, 충남콘텐츠코리아랩, 충남콘텐츠기업지원센터, 충남글로벌게임센터, 충남음악창작소, 김곡미 등)를 **굵게** 표시하세요.\n" +
	"2. 핵심 키워드와 관련된 내용을 중심으로 요약하세요.\n" +
	"3. 마지막에 '충남콘텐츠진흥원의 관여도' 섹션을 별도로 추가하여, 진흥원이 이 기사에서 어떤 역할을 했는지, 어떤 사업/프로그램과 관련이 있는지 명확히 설명하세요.\n" +
	"4. 중복 표현은 줄이고, 핵심 내용 위주로 정리하세요.\n\n"

const cardScriptPromptHeader = "당신은 충남콘텐츠진흥원의 젊고 센스 있는 SNS 홍보 담당자입니다. 아래 뉴스 기사를 읽고, 진흥원의 역할과 성과를 사실에 기반해 카드뉴스 형식으로 정리해 주세요. 독자가 끝까지 읽을 수 있도록 흥미로운 후크와 친근한 말투를 사용하는 것이 핵심입니다.\n\n" +
	"⚠️ 절대 규칙:\n" +
	"- 반드시 **이 기사 내용만** 사용하세요. 기사에 없는 예산, 인원수, 성과, 기관명 등은 절대 만들어내지 마세요.\n" +
	"- '주도했다' 대신 **'지원했다', '참여했다', '협력했다', '추진했다'** 등 사실 기반 동사만 사용하세요.\n" +
	"- **불필요한 설명 제거:** (이하 진흥원), 원장 이름, 기사 출처 등은 제외하고 핵심만 전달하세요.\n\n" +
	"🎯 톤 & 타겟:\n" +
	"- 타겟: 충남콘텐츠진흥원이 무엇을 하는 곳인지 잘 모르는 일반 시민.\n" +
	"- 말투: **친구에게 카톡 하듯 매우 친근하고 캐주얼한 구어체.** (\"~했어요!\", \"~이랍니다.\", \"~는요?\", \"~할 거예요.\")\n" +
	"- 후크(Hook): 초반 카드(1~3번)에 궁금증을 유발하는 질문이나 감탄사를 넣어 시선을 사로잡으세요.\n\n" +
	"--- 1단계) 카드 분할 전략 (분량 엄수)\n" +
	"- 기사의 흐름과 맥락에 따라 **최소 6장, 표준 8장, 최대 10장**으로 구성하세요.\n" +
	"- 기사 내용이 짧더라도 내용을 세밀하게 쪼개어 가독성을 높이고, 정보를 충분히 풀어서 설명하세요.\n" +
	"- **절대로 5장 이하로 끝내지 마세요.**\n\n" +
	"- 구성 가이드:\n" +
	"  - 1번(Cover): 가장 강력한 후크와 핵심 주제\n" +
	"  - 2번(Intro): 기사 배경이나 궁금증 유발 질문\n" +
	"  - 중간(Program/Impact/Result): 사업 내용, 지원 과정, 구체적 변화, 성과의 의미를 단계별로 상세히 나열\n" +
	"  - 마지막(Closing): 홈페이지 방문 유도 및 친절한 마무리\n\n" +
	"--- 2단계) 카드별 문구 작성 규칙\n" +
	"- TYPE: cover / program / impact / result / closing 중 선택\n" +
	"- HEAD: 12~20자 내외. **질문형, 감탄사 등 후크를 반드시 활용하세요.**\n" +
	"- BODY (TYPE=cover 제외):\n" +
	"  - **20~40자 내외의 완결된 문장.** (너무 짧거나 길지 않게 유지)\n" +
	"  - **절대 \"...\"(줄임표)를 사용하지 마세요.** 문장을 명확하게 끝맺으세요.\n" +
	"  - HEAD와 내용이 겹치지 않게 정보를 나누어 담으세요.\n" +
	"- IMAGE_KEY: 영어 키워드 2~4단어. (예: \"business meeting\", \"award ceremony\")\n\n" +
	"--- 3단계) 형식\n"

const cardScriptPromptFooter = "위 내용을 바탕으로 아래 형식에 맞춰 한 줄씩 출력하세요. (번호는 1번부터 시작)\n\n" +
	"출력 형식:\n" +
	"1. TYPE=cover | HEAD=... | IMAGE_KEY=...\n" +
	"2. TYPE=program | HEAD=... | BODY=... | IMAGE_KEY=...\n" +
	"...\n" +
	"N. TYPE=closing | HEAD=더 자세한 내용이 궁금하다면? | BODY=진흥원 홈페이지(https://ccon.kr/)에서 더 많은 정보를 확인해보세요! | IMAGE_KEY=website visit\n\n" +
	"**중요:** 반드시 최소 6장 이상 생성하고, 마지막 카드는 항상 closing 타입으로 홈페이지를 유도하세요."

type modelList struct {
	Models []struct {
		Name                       string   `json:"name"`
		SupportedGenerationMethods []string `json:"supportedGenerationMethods"`
	} `json:"models"`
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

type Client struct {
	apiBase    string
	apiKey     string
	httpClient *http.Client
	policy     retry.Policy

	mu    sync.Mutex
	model string
}

func NewClient(apiKey string) *Client {
	return &Client{
		apiBase:    apiBase,
		apiKey:     apiKey,
		httpClient: &http.Client{},
		policy:     retry.Policy{MaxAttempts: 2, Delay: 2 * time.Second},
	}
}

// Summarize produces a 350-450 character Korean summary of an article.
func (c *Client) Summarize(ctx context.Context, title, body string) (string, error) {
	prompt := summaryPromptHeader + fmt.Sprintf("[제목]\n%s\n\n[본문]\n%s", title, body)

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	return c.generate(ctx, prompt)
}

// GenerateCardScript drafts a multi-card promotional script for an
// article. Generation takes longer than a summary, so the timeout is
// wider.
func (c *Client) GenerateCardScript(ctx context.Context, title, body string) (string, error) {
	prompt := cardScriptPromptHeader +
		fmt.Sprintf("기사 원문:\n[제목]\n%s\n\n[본문]\n%s\n\n", title, body) +
		cardScriptPromptFooter

	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()
	return c.generate(ctx, prompt)
}

func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", errors.New("gemini API key is not configured")
	}

	model, err := c.workingModel(ctx)
	if err != nil {
		return "", err
	}

	payload, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/%s:generateContent?key=%s", c.apiBase, model, c.apiKey)

	var text string
	err = c.policy.Do(ctx, "gemini generate", func() (bool, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
		if err != nil {
			return false, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return true, fmt.Errorf("request failed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusTooManyRequests {
			return true, errors.New("rate limited")
		}
		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			return false, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, body)
		}

		var result generateResponse
		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			return false, fmt.Errorf("failed to decode response: %w", err)
		}
		if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
			return false, errors.New("response contains no candidates")
		}
		text = result.Candidates[0].Content.Parts[0].Text
		return false, nil
	})
	return text, err
}

// workingModel discovers a model that supports generateContent and
// caches it for the lifetime of the client. Flash models are preferred
// over pro, pro over anything else.
func (c *Client) workingModel(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.model != "" {
		return c.model, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiBase+"/models?key="+c.apiKey, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("model discovery failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("model discovery returned status %d: %s", resp.StatusCode, body)
	}

	var list modelList
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return "", fmt.Errorf("failed to decode model list: %w", err)
	}

	var available []string
	for _, m := range list.Models {
		if !strings.HasPrefix(m.Name, "models/") {
			continue
		}
		for _, method := range m.SupportedGenerationMethods {
			if method == "generateContent" {
				available = append(available, m.Name)
				break
			}
		}
	}
	if len(available) == 0 {
		return "", errors.New("no model supports generateContent")
	}

	c.model = pickModel(available)
	slog.Info("Selected Gemini model", "model", c.model)
	return c.model, nil
}

func pickModel(available []string) string {
	for _, m := range available {
		if strings.Contains(strings.ToLower(m), "flash") {
			return m
		}
	}
	for _, m := range available {
		if strings.Contains(strings.ToLower(m), "pro") {
			return m
		}
	}
	return available[0]
}
