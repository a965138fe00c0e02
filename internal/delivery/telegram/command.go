package telegram

import (
	"strings"

	"price-sr-bot/pkg/common"
)

type CommandKind int

const (
	CommandUnknown CommandKind = iota
	CommandSnapshot
	CommandLevels
)

func (k CommandKind) String() string {
	switch k {
	case CommandSnapshot:
		return "snapshot"
	case CommandLevels:
		return "levels"
	default:
		return "unknown"
	}
}

type Command struct {
	Kind CommandKind
	Coin string
}

const maxCoinLength = 20

// ParseCommand recognises ".sr <coin>" and ".<coin>". Anything else, including
// ".sr" with a missing or extra argument, is reported as not a command.
func ParseCommand(text string) (Command, bool) {
	text = strings.ToLower(strings.TrimSpace(text))
	if !strings.HasPrefix(text, common.CMD_PREFIX) {
		return Command{}, false
	}

	parts := strings.Fields(text)
	if parts[0] == common.CMD_LEVELS {
		if len(parts) != 2 || !isCoin(parts[1]) {
			return Command{}, false
		}
		return Command{Kind: CommandLevels, Coin: parts[1]}, true
	}

	coin := strings.TrimPrefix(text, common.CMD_PREFIX)
	if !isCoin(coin) {
		return Command{}, false
	}
	return Command{Kind: CommandSnapshot, Coin: coin}, true
}

func isCoin(s string) bool {
	if s == "" || len(s) > maxCoinLength {
		return false
	}
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}
