package chatguard

import (
	_ "embed"
	"errors"
	"log/slog"
	"math"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/park285/roblox-mod-relay-go/internal/cache"
	"github.com/park285/roblox-mod-relay-go/internal/config"
)

const defaultThreshold = 1.0

// defaultRulepack: 외부 rulepack 디렉터리가 없을 때 쓰는 내장 규칙입니다.
//
//go:embed rulepacks/default.yml
var defaultRulepack []byte

// ChatGuard: 게임 내 채팅 메시지를 블록리스트로 검사하는 가드입니다.
// 매칭 결과는 알림 강조 표시에만 쓰이며 메시지 중계 자체를 막지 않습니다.
type ChatGuard struct {
	cfg    *config.Config
	logger *slog.Logger
	packs  []compiledPack
	cache  *cache.TTLCache[string, Evaluation]
	group  singleflight.Group
}

// NewGuard: 채팅 검사 가드를 생성합니다.
func NewGuard(cfg *config.Config, logger *slog.Logger) (*ChatGuard, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	cacheTTL := time.Duration(cfg.ChatGuard.CacheTTLSeconds) * time.Second
	guard := &ChatGuard{
		cfg:    cfg,
		logger: logger,
		cache:  cache.NewTTLCache[string, Evaluation](cfg.ChatGuard.CacheMaxSize, cacheTTL),
	}

	if cfg.ChatGuard.Enabled {
		guard.loadRulepacks()
	}

	return guard, nil
}

// Evaluate: 채팅 메시지를 평가합니다.
func (g *ChatGuard) Evaluate(message string) Evaluation {
	if g == nil || g.cfg == nil || !g.cfg.ChatGuard.Enabled {
		return Evaluation{Score: 0, Hits: nil, Threshold: math.Inf(1)}
	}

	if cached, ok := g.cache.Get(message); ok {
		return cached
	}

	value, _, _ := g.group.Do(message, func() (any, error) {
		result := g.evaluateInternal(message)
		g.cache.Set(message, result)
		return result, nil
	})

	if evaluation, ok := value.(Evaluation); ok {
		return evaluation
	}
	return Evaluation{Score: 0, Hits: nil, Threshold: g.threshold()}
}

// IsFlagged: 메시지를 강조 표시해야 하는지 반환합니다.
func (g *ChatGuard) IsFlagged(message string) bool {
	return g.Evaluate(message).Flagged()
}

func (g *ChatGuard) loadRulepacks() {
	dir := g.cfg.ChatGuard.RulepacksDir
	if dir == "" {
		dir = "rulepacks"
	}

	g.packs = loadRulepacks(dir, g.logger)
	if len(g.packs) == 0 {
		pack, err := parseRulepack(defaultRulepack, g.logger)
		if err == nil {
			g.packs = []compiledPack{pack}
		} else if g.logger != nil {
			g.logger.Warn("builtin_rulepack_broken", "err", err)
		}
	}

	if g.logger != nil {
		g.logger.Info("chatguard_ready", "packs", len(g.packs), "threshold", g.threshold())
	}
}

func (g *ChatGuard) threshold() float64 {
	if len(g.packs) == 0 {
		return defaultThreshold
	}

	maxThreshold := 0.0
	for _, pack := range g.packs {
		if pack.Threshold > maxThreshold {
			maxThreshold = pack.Threshold
		}
	}
	if maxThreshold > 0 {
		return maxThreshold
	}
	return defaultThreshold
}

func (g *ChatGuard) evaluateInternal(message string) Evaluation {
	normalized := normalizeText(message)
	score, hits := g.evaluatePacks(normalized)
	evaluation := Evaluation{Score: score, Hits: hits, Threshold: g.threshold()}
	if evaluation.Flagged() && g.logger != nil {
		g.logger.Warn("chat_flagged", "message", trimForLog(message), "score", score)
	}
	return evaluation
}

func (g *ChatGuard) evaluatePacks(text string) (float64, []Match) {
	total := 0.0
	hits := make([]Match, 0)
	textLower := strings.ToLower(text)

	for _, pack := range g.packs {
		for _, rule := range pack.RegexRules {
			if rule.Pattern.MatchString(text) {
				total += rule.Weight
				hits = append(hits, Match{ID: rule.ID, Weight: rule.Weight})
			}
		}

		if pack.PhraseMatcher == nil {
			continue
		}
		matches := pack.PhraseMatcher.MatchThreadSafe([]byte(textLower))
		for _, index := range matches {
			if index < 0 || index >= len(pack.Phrases) {
				continue
			}
			phrase := pack.Phrases[index]
			weight := pack.PhraseWeights[phrase]
			if weight <= 0 {
				continue
			}
			total += weight
			hits = append(hits, Match{ID: "phrase:" + phrase, Weight: weight})
		}
	}

	return total, hits
}

func trimForLog(value string) string {
	value = strings.TrimSpace(value)
	if len(value) <= 50 {
		return value
	}
	return value[:50]
}
