package chatguard

// Guard 는 채팅 메시지 검사 인터페이스다.
// 테스트에서 mock 구현을 주입할 수 있도록 한다.
type Guard interface {
	// Evaluate 메시지 평가
	Evaluate(message string) Evaluation

	// IsFlagged 메시지 강조 표시 여부
	IsFlagged(message string) bool
}

// ChatGuard가 Guard 인터페이스를 구현하는지 컴파일 타임 확인
var _ Guard = (*ChatGuard)(nil)
