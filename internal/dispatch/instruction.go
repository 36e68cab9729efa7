package dispatch

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrNoActiveSession 는 대상 유저의 활성 세션이 없을 때 반환된다.
var ErrNoActiveSession = errors.New("no active session for target user")

// ErrUnknownAction 는 알 수 없는 명령어일 때 반환된다.
var ErrUnknownAction = errors.New("unknown action")

// ArgumentError 는 명령 인자가 잘못됐을 때 반환된다.
type ArgumentError struct {
	Message string
}

// Error 는 오류 메시지를 반환한다.
func (e *ArgumentError) Error() string {
	return e.Message
}

func newArgumentError(format string, args ...any) *ArgumentError {
	return &ArgumentError{Message: fmt.Sprintf(format, args...)}
}

// Instruction 는 파싱이 끝난 운영자 명령이다.
type Instruction struct {
	Action  string
	UserID  int64
	Reason  string
	PlaceID int64
}

// HelpText 는 운영자 명령어 안내문이다.
const HelpText = "Commands: !help, !warn <id> <reason>, !unwarn <id>, !kick <id> <reason>, " +
	"!ban <id> <reason>, !unban <id>, !forceteleport <id> <placeId>"

// ParseInstruction 는 운영자 채팅 한 줄을 명령으로 파싱한다.
// 명령어 앞의 "!" 는 있어도 없어도 되고, 대상 id 는 멘션 토큰(<@id>, <@!id>) 형태를 허용한다.
func ParseInstruction(text string) (Instruction, error) {
	fields := strings.Fields(strings.TrimSpace(text))
	if len(fields) == 0 {
		return Instruction{}, newArgumentError("empty instruction")
	}

	action := strings.ToLower(strings.TrimPrefix(fields[0], "!"))
	inst := Instruction{Action: action}

	switch action {
	case "help":
		return inst, nil

	case "warn", "kick", "ban":
		if len(fields) < 2 {
			return Instruction{}, newArgumentError("usage: !%s <id> <reason>", action)
		}
		userID, err := parseUserID(fields[1])
		if err != nil {
			return Instruction{}, err
		}
		inst.UserID = userID
		inst.Reason = strings.Join(fields[2:], " ")
		return inst, nil

	case "unwarn", "unban":
		if len(fields) < 2 {
			return Instruction{}, newArgumentError("usage: !%s <id>", action)
		}
		userID, err := parseUserID(fields[1])
		if err != nil {
			return Instruction{}, err
		}
		inst.UserID = userID
		return inst, nil

	case "forceteleport":
		if len(fields) < 3 {
			return Instruction{}, newArgumentError("usage: !forceteleport <id> <placeId>")
		}
		userID, err := parseUserID(fields[1])
		if err != nil {
			return Instruction{}, err
		}
		placeID, err := strconv.ParseInt(fields[2], 10, 64)
		if err != nil {
			return Instruction{}, newArgumentError("invalid place id: %s", fields[2])
		}
		inst.UserID = userID
		inst.PlaceID = placeID
		return inst, nil

	default:
		return Instruction{}, fmt.Errorf("%w: %s", ErrUnknownAction, action)
	}
}

// parseUserID 는 숫자 id 또는 멘션 토큰을 숫자 id 로 정규화한다.
func parseUserID(token string) (int64, error) {
	raw := token
	if strings.HasPrefix(raw, "<@") && strings.HasSuffix(raw, ">") {
		raw = strings.TrimSuffix(strings.TrimPrefix(raw, "<@"), ">")
		raw = strings.TrimPrefix(raw, "!")
	}
	userID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || userID <= 0 {
		return 0, newArgumentError("invalid user id: %s", token)
	}
	return userID, nil
}
