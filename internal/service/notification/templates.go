package notification

import (
	"fmt"
	"time"
)

var weekdays = [...]string{"日", "月", "火", "水", "木", "金", "土"}

var timeSlotLabels = map[string]string{
	"18:00:00": "18:00-20:00",
	"20:00:00": "20:00-22:00",
}

// FormatDate renders 2006-01-02 as "2006年1月2日(月)". Unparseable input is
// returned unchanged.
func FormatDate(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return fmt.Sprintf("%d年%d月%d日(%s)", t.Year(), int(t.Month()), t.Day(), weekdays[t.Weekday()])
}

func TimeLabel(eventTime string) string {
	if label, ok := timeSlotLabels[eventTime]; ok {
		return label
	}
	return eventTime
}

// AreaName looks an area id up in names. Unknown ids are shown as is.
func AreaName(names map[string]string, areaID string) string {
	if name, ok := names[areaID]; ok {
		return name
	}
	return areaID
}

// Render turns a template into LINE text messages.
func Render(t Template) []Message {
	d := t.Data
	var text string

	switch t.Type {
	case TemplateMatchSuccess:
		text = fmt.Sprintf(`🎉 合コンが成立しました！

📅 日程: %s %s
📍 エリア: %s
👥 参加者: %d名

チャットルームが作成されました。
メンバーと交流して当日を楽しみにしてくださいね！

📱 チャットを開く: %s`, d.Date, d.Time, d.Area, d.MemberCount, d.ChatURL)

	case TemplateChatCreated:
		text = fmt.Sprintf(`💬 チャットルームが作成されました

合コンメンバーとの交流を始めましょう！
自己紹介や当日の話をして盛り上がってください。

📱 チャットを開く: %s`, d.ChatURL)

	case TemplateReminder:
		text = fmt.Sprintf(`⏰ 明日は合コンです！

📅 日時: %s %s
📍 場所: %s

準備はいかがですか？
素敵な出会いになりますように！`, d.Date, d.Time, d.Location)

	default:
		text = "ポチッと合コンからお知らせです"
	}

	return []Message{{Type: "text", Text: text}}
}
