package service

import "github.com/shaw8386/server/internal/domain"

// Notification texts match what the mobile client has always shown.
const (
	notificationTitle  = "🎟️ Kết quả vé số"
	noWinMessage       = "❌ Không trúng thưởng."
	fetchFailedMessage = "⚠️ Không lấy được kết quả xổ số."
)

var tierMessages = map[string]string{
	"ĐB": "🎯 Trúng Giải Đặc Biệt!",
	"G1": "🥇 Trúng Giải Nhất!",
	"G2": "🥈 Trúng Giải Nhì!",
	"G3": "🥉 Trúng Giải Ba!",
	"G4": "🎉 Trúng Giải 4!",
	"G5": "🎉 Trúng Giải 5!",
	"G6": "🎉 Trúng Giải 6!",
	"G7": "🎉 Trúng Giải 7!",
	"G8": "🎉 Trúng Giải 8!",
}

// VerdictMessage renders a verdict as the user-facing message body.
func VerdictMessage(verdict domain.Verdict) string {
	switch verdict.Outcome {
	case domain.OutcomeWin:
		if msg, ok := tierMessages[verdict.Tier]; ok {
			return msg
		}
		return "🎉 Trúng thưởng!"
	case domain.OutcomeNoWin:
		return noWinMessage
	default:
		return fetchFailedMessage
	}
}
