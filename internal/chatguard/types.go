package chatguard

// Match: 매칭된 블록리스트 규칙 정보를 담습니다.
type Match struct {
	ID     string  `json:"id"`
	Weight float64 `json:"weight"`
}

// Evaluation: 채팅 메시지 검사 결과를 담습니다.
type Evaluation struct {
	Score     float64 `json:"score"`
	Hits      []Match `json:"hits"`
	Threshold float64 `json:"threshold"`
}

// Flagged: 메시지를 강조 표시해야 하는지 반환합니다.
func (e Evaluation) Flagged() bool {
	return e.Score >= e.Threshold && len(e.Hits) > 0
}

// RuleIDs: 매칭된 규칙 ID 목록을 반환합니다.
func (e Evaluation) RuleIDs() []string {
	if len(e.Hits) == 0 {
		return nil
	}
	ids := make([]string, 0, len(e.Hits))
	for _, hit := range e.Hits {
		ids = append(ids, hit.ID)
	}
	return ids
}
