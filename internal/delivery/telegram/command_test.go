package telegram

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		want   Command
		wantOK bool
	}{
		{name: "snapshot", text: ".btc", want: Command{Kind: CommandSnapshot, Coin: "btc"}, wantOK: true},
		{name: "snapshot upper and padded", text: "  .ETH \n", want: Command{Kind: CommandSnapshot, Coin: "eth"}, wantOK: true},
		{name: "levels", text: ".sr btc", want: Command{Kind: CommandLevels, Coin: "btc"}, wantOK: true},
		{name: "levels extra spaces", text: ".SR   Sol", want: Command{Kind: CommandLevels, Coin: "sol"}, wantOK: true},
		{name: "coin starting with sr", text: ".srm", want: Command{Kind: CommandSnapshot, Coin: "srm"}, wantOK: true},
		{name: "numeric coin", text: ".1000pepe", want: Command{Kind: CommandSnapshot, Coin: "1000pepe"}, wantOK: true},
		{name: "levels without coin", text: ".sr"},
		{name: "levels with two coins", text: ".sr btc eth"},
		{name: "bare dot", text: "."},
		{name: "sentence", text: ". hello there"},
		{name: "ellipsis", text: "..."},
		{name: "plain text", text: "btc to the moon"},
		{name: "slash command", text: "/start"},
		{name: "empty", text: ""},
		{name: "too long", text: ".abcdefghijklmnopqrstuvwxyz"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseCommand(tt.text)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCommandKind_String(t *testing.T) {
	assert.Equal(t, "snapshot", CommandSnapshot.String())
	assert.Equal(t, "levels", CommandLevels.String())
	assert.Equal(t, "unknown", CommandUnknown.String())
}
