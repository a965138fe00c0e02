package common

const (
	KEY_UTC_DAY_BASELINE = "baseline:%s:%d"
	KEY_TICKER           = "ticker:%s"
)

const (
	CMD_PREFIX        = "."
	CMD_LEVELS        = ".sr"
	INTERVAL_1_MINUTE = "1"
)
