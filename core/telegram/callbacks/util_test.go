package callbacks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	tele "gopkg.in/telebot.v4"
)

func TestParseCallbackData(t *testing.T) {
	cases := []struct {
		name    string
		cb      *tele.Callback
		unique  string
		payload string
	}{
		{"nil", nil, "", ""},
		{"raw with payload", &tele.Callback{Data: "\fcalc_op|add"}, "calc_op", "add"},
		{"raw without payload", &tele.Callback{Data: "\fcalc_cancel"}, "calc_cancel", ""},
		{"payload keeps separators", &tele.Callback{Data: "\fk|a|b"}, "k", "a|b"},
		{"already split", &tele.Callback{Unique: "calc_op", Data: "divide"}, "calc_op", "divide"},
		{"plain data", &tele.Callback{Data: "legacy"}, "legacy", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			u, p := ParseCallbackData(tc.cb)
			assert.Equal(t, tc.unique, u)
			assert.Equal(t, tc.payload, p)
		})
	}
}

func TestKeyRoundTrip(t *testing.T) {
	u, p := ParseCallbackData(&tele.Callback{Data: Key("calc_op", "multiply")})
	assert.Equal(t, "calc_op", u)
	assert.Equal(t, "multiply", p)
	assert.Equal(t, "\fcalc_cancel", Key("calc_cancel", ""))
}
