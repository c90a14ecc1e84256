package inference

import "testing"

func TestExtractDetail(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{name: "string detail", body: `{"detail": "model exploded"}`, want: "model exploded"},
		{name: "fastapi list", body: `{"detail": [{"loc": ["body"], "msg": "field required"}, {"msg": "bad type"}]}`, want: "field required; bad type"},
		{name: "missing detail", body: `{"error": "x"}`, want: "500 Internal Server Error"},
		{name: "not json", body: `<html>bad gateway</html>`, want: "500 Internal Server Error"},
		{name: "object detail", body: `{"detail": {"code": 7}}`, want: `{"code": 7}`},
		{name: "empty", body: ``, want: "500 Internal Server Error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := extractDetail([]byte(tc.body), "500 Internal Server Error"); got != tc.want {
				t.Fatalf("extractDetail() = %q, want %q", got, tc.want)
			}
		})
	}
}
