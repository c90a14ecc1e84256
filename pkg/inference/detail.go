package inference

import (
	"strings"

	"github.com/tidwall/gjson"
)

// extractDetail reads the "detail" field of an error body. FastAPI style
// validation errors carry a list of objects; their "msg" entries are joined.
// Bodies without a detail fall back to the HTTP status text.
func extractDetail(body []byte, status string) string {
	if len(body) == 0 || !gjson.ValidBytes(body) {
		return status
	}
	detail := gjson.GetBytes(body, "detail")
	switch {
	case !detail.Exists() || detail.Type == gjson.Null:
		return status
	case detail.Type == gjson.String:
		return detail.String()
	case detail.IsArray():
		var messages []string
		detail.ForEach(func(_, item gjson.Result) bool {
			if msg := item.Get("msg"); msg.Exists() {
				messages = append(messages, msg.String())
			} else {
				messages = append(messages, item.String())
			}
			return true
		})
		if len(messages) == 0 {
			return status
		}
		return strings.Join(messages, "; ")
	default:
		return detail.Raw
	}
}
