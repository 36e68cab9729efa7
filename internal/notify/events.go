package notify

import "strconv"

// PlayerJoined 는 입장 알림을 보낸다. flagged 는 반복 입장 경고 여부다.
func (n *Notifier) PlayerJoined(username string, userID int64, serverID string, joinCount int64, flagged bool) {
	color := ColorJoin
	if flagged {
		color = ColorAlert
	}
	n.send(n.cfg.Webhooks.Logs, newEmbed(color, "👤 Player Joined", []EmbedField{
		{Name: "Username", Value: username},
		{Name: "UserId", Value: strconv.FormatInt(userID, 10)},
		{Name: "Server", Value: serverID},
		{Name: "Joins", Value: strconv.FormatInt(joinCount, 10)},
	}))
}

// PlayerLeft 는 퇴장 알림을 보낸다.
func (n *Notifier) PlayerLeft(username string, userID int64, serverID string) {
	n.send(n.cfg.Webhooks.Logs, newEmbed(ColorLeave, "🚪 Player Left", []EmbedField{
		{Name: "Username", Value: username},
		{Name: "UserId", Value: strconv.FormatInt(userID, 10)},
		{Name: "Server", Value: serverID},
	}))
}

// ChatMessage 는 게임 내 채팅 중계 알림을 보낸다.
// flaggedRules 가 비어 있지 않으면 블록리스트에 걸린 메시지로 강조 표시한다.
func (n *Notifier) ChatMessage(username string, userID int64, text string, flaggedRules []string) {
	fields := []EmbedField{
		{Name: "User", Value: username + " (" + strconv.FormatInt(userID, 10) + ")"},
		{Name: "Message", Value: text},
	}

	color := ColorChat
	title := "💬 Chat"
	if len(flaggedRules) > 0 {
		color = ColorAlert
		title = "💬 Chat (flagged)"
		rules := flaggedRules[0]
		for _, rule := range flaggedRules[1:] {
			rules += ", " + rule
		}
		fields = append(fields, EmbedField{Name: "Matched Rules", Value: rules})
	}

	n.send(n.cfg.Webhooks.Logs, newEmbed(color, title, fields))
}

// BanIssued 는 전역 밴 알림을 보낸다.
func (n *Notifier) BanIssued(userID int64, reason string, moderator string) {
	n.send(n.cfg.Webhooks.UserBans, newEmbed(ColorAlert, "🔨 Global Ban", []EmbedField{
		{Name: "UserId", Value: strconv.FormatInt(userID, 10)},
		{Name: "Reason", Value: reason},
		{Name: "Moderator", Value: moderator},
	}))
}

// BanLifted 는 밴 해제 알림을 보낸다.
func (n *Notifier) BanLifted(userID int64, moderator string) {
	n.send(n.cfg.Webhooks.UserBans, newEmbed(ColorSuccess, "🔓 Ban Lifted", []EmbedField{
		{Name: "UserId", Value: strconv.FormatInt(userID, 10)},
		{Name: "Moderator", Value: moderator},
	}))
}

// TeleportAttempt 는 텔레포트 코드 입력 시도 알림을 보낸다.
func (n *Notifier) TeleportAttempt(userID int64, code string, serverID string, success bool) {
	color := ColorAlert
	result := "❌ WRONG CODE"
	if success {
		color = ColorSuccess
		result = "✅ CORRECT CODE"
	}
	n.send(n.cfg.Webhooks.Teleport, newEmbed(color, "🚪 Teleport Code Attempt", []EmbedField{
		{Name: "User ID", Value: strconv.FormatInt(userID, 10)},
		{Name: "Code Entered", Value: code},
		{Name: "Server ID", Value: serverID},
		{Name: "Result", Value: result},
	}))
}

// Online 은 기동 알림을 보낸다.
func (n *Notifier) Online() {
	n.send(n.cfg.Webhooks.Health, newEmbed(ColorSuccess, "🟢 Relay Online", []EmbedField{
		{Name: "Status", Value: "Running"},
	}))
}
