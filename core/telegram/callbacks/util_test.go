package callbacks

import (
	"testing"

	tele "gopkg.in/telebot.v4"
)

func TestParseCallbackData(t *testing.T) {
	cases := []struct {
		name         string
		cb           *tele.Callback
		key, payload string
	}{
		{"nil", nil, "", ""},
		{"routed", &tele.Callback{Unique: "loc", Data: "veg_area"}, "loc", "veg_area"},
		{"raw", &tele.Callback{Data: "\floc|veg_area"}, "loc", "veg_area"},
		{"raw no payload", &tele.Callback{Data: "\fact"}, "act", ""},
		{"payload with separator", &tele.Callback{Data: "\fitem|1|x"}, "item", "1|x"},
		{"foreign", &tele.Callback{Data: "legacy"}, "", "legacy"},
	}
	for _, tc := range cases {
		key, payload := ParseCallbackData(tc.cb)
		if key != tc.key || payload != tc.payload {
			t.Fatalf("%s: got (%q, %q) want (%q, %q)", tc.name, key, payload, tc.key, tc.payload)
		}
	}
}
