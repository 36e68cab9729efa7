package notify

import "time"

// 웹훅 embed 색상.
const (
	ColorJoin     = 0x55FFCC
	ColorAlert    = 0xFF0000
	ColorLeave    = 0xFFAA00
	ColorChat     = 0x5865F2
	ColorSuccess  = 0x00FF00
	ColorModerate = 0x5865F2
)

// EmbedField 는 embed 본문의 필드 한 줄이다.
type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

// Embed 는 Discord 웹훅 embed 본문이다.
type Embed struct {
	Title     string       `json:"title"`
	Color     int          `json:"color"`
	Fields    []EmbedField `json:"fields,omitempty"`
	Timestamp string       `json:"timestamp,omitempty"`
}

type webhookPayload struct {
	Embeds []Embed `json:"embeds"`
}

func newEmbed(color int, title string, fields []EmbedField) Embed {
	return Embed{
		Title:     title,
		Color:     color,
		Fields:    fields,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}
