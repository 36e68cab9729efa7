package chatguard

import (
	"strings"
	"unicode"

	"github.com/forPelevin/gomoji"
	"github.com/mtibben/confusables"
	"golang.org/x/text/unicode/norm"
)

// isASCIIOnly: 문자열이 ASCII만 포함하는지 확인 (Zero Allocation)
func isASCIIOnly(text string) bool {
	for i := 0; i < len(text); i++ {
		if text[i] > unicode.MaxASCII {
			return false
		}
	}
	return true
}

// normalizeText: 블록리스트 매칭 전 메시지를 정규화합니다.
// Homoglyph 치환, 이모지 삽입, 제어 문자 삽입으로 필터를 우회하는 것을 막습니다.
func normalizeText(text string) string {
	// [Fast Path] ASCII만 포함된 경우 Skeleton 변환 불필요
	if isASCIIOnly(text) {
		return stripControlChars(text)
	}

	// 이모지는 문자 사이에 끼워 넣는 우회 수단이므로 먼저 제거
	if gomoji.ContainsEmoji(text) {
		text = gomoji.RemoveEmojis(text)
	}

	// NFD 입력 우회 방지: 먼저 NFC로 정규화
	nfcText := norm.NFC.String(text)

	// Homoglyph 정규화: "ｂａｄ" / "Ьad" → "bad"
	skeleton := confusables.Skeleton(nfcText)
	return stripControlChars(norm.NFKC.String(skeleton))
}

// stripControlChars: 불필요한 할당 방지
func stripControlChars(text string) string {
	// 1. 제어 문자가 없는지 먼저 스캔
	hasControl := false
	for _, r := range text {
		if unicode.Is(unicode.Cf, r) || unicode.Is(unicode.Cc, r) {
			hasControl = true
			break
		}
	}
	if !hasControl {
		return text
	}

	// 2. 제어 문자가 있을 때만 빌더 사용
	var builder strings.Builder
	builder.Grow(len(text))
	for _, r := range text {
		if unicode.Is(unicode.Cf, r) || unicode.Is(unicode.Cc, r) {
			continue
		}
		builder.WriteRune(r)
	}
	return builder.String()
}
