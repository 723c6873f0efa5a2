package telegram

import (
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/myslide/leavebot/internal/bus"
	"github.com/myslide/leavebot/internal/config"
	"github.com/myslide/leavebot/internal/keyboard"
)

func TestNew_BuildsAllowList(t *testing.T) {
	cfg := &config.TelegramConfig{Token: "t", AllowFrom: []string{"12345"}}
	c := New(cfg, bus.NewMessageBus(1))

	if !c.IsAllowed("12345") {
		t.Fatal("configured sender should be allowed")
	}
	if c.IsAllowed("99999") {
		t.Fatal("unlisted sender should be denied")
	}
}

func TestToMarkup_PreservesGridShape(t *testing.T) {
	rows := [][]keyboard.Button{
		{{Label: "✅ Approve", Data: "dec|approve|fullday|abc"}, {Label: "❌ Reject", Data: "dec|reject|fullday|abc"}},
		{{Label: "« Back", Data: "back"}},
	}
	markup := toMarkup(rows)

	if len(markup.InlineKeyboard) != 2 {
		t.Fatalf("got %d rows, want 2", len(markup.InlineKeyboard))
	}
	if len(markup.InlineKeyboard[0]) != 2 || len(markup.InlineKeyboard[1]) != 1 {
		t.Fatalf("row shapes wrong: %v", markup.InlineKeyboard)
	}
	first := markup.InlineKeyboard[0][0]
	if first.Text != "✅ Approve" || first.CallbackData == nil || *first.CallbackData != "dec|approve|fullday|abc" {
		t.Fatalf("button mapping wrong: %+v", first)
	}
}

func TestDisplayName(t *testing.T) {
	cases := []struct {
		user *tgbotapi.User
		want string
	}{
		{&tgbotapi.User{FirstName: "Dana", LastName: "K"}, "Dana K"},
		{&tgbotapi.User{FirstName: "Dana"}, "Dana"},
		{&tgbotapi.User{UserName: "dana_k"}, "dana_k"},
		{nil, ""},
	}
	for _, tc := range cases {
		if got := displayName(tc.user); got != tc.want {
			t.Errorf("displayName(%+v) = %q, want %q", tc.user, got, tc.want)
		}
	}
}
