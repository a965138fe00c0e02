package telegram

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// FormatPrice renders large prices without decimals, mid-range prices with two
// and sub-dollar prices with six. Thousands are comma-grouped.
func FormatPrice(price float64) string {
	switch {
	case price >= 1000:
		return printer.Sprintf("%.0f", price)
	case price >= 1:
		return printer.Sprintf("%.2f", price)
	default:
		return printer.Sprintf("%.6f", price)
	}
}

func FormatPercentChange(percent float64) string {
	arrow := "➖"
	switch {
	case percent > 0:
		arrow = "📈"
	case percent < 0:
		arrow = "📉"
	}
	return fmt.Sprintf("%+.2f%% %s", percent, arrow)
}

func FormatFundingRate(funding float64) string {
	switch {
	case funding > 0:
		return fmt.Sprintf("+%.4f%% 🟢", funding)
	case funding < 0:
		return fmt.Sprintf("%.4f%% 🔴", funding)
	default:
		return "0.0000%"
	}
}

// FormatIntervalLabel maps a Bybit kline interval to a short human label.
func FormatIntervalLabel(interval string) string {
	switch interval {
	case "D", "W", "M":
		return "1" + interval
	}
	var minutes int
	if _, err := fmt.Sscanf(interval, "%d", &minutes); err != nil || minutes <= 0 {
		return interval
	}
	if minutes%60 == 0 {
		return fmt.Sprintf("%dH", minutes/60)
	}
	return fmt.Sprintf("%dm", minutes)
}

func FormatSnapshotMessage(symbol string, price, percent, funding float64) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🟦 %s 🟦\n", symbol))
	b.WriteString(fmt.Sprintf("Price :  %s\n", FormatPrice(price)))
	b.WriteString(fmt.Sprintf("Since 00:00 UTC :  %s\n", FormatPercentChange(percent)))
	b.WriteString(fmt.Sprintf("Funding :  %s", FormatFundingRate(funding)))
	return b.String()
}

func FormatLevelsMessage(coin, interval string, candles int, supports, resistances []float64, price float64) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📊 %s Support / Resistance (%s · %d candles)\n\n", strings.ToUpper(coin), FormatIntervalLabel(interval), candles))

	b.WriteString("🟢 Support\n")
	for _, s := range supports {
		b.WriteString(fmt.Sprintf("- %s\n", FormatPrice(s)))
	}

	b.WriteString("\n🔴 Resistance\n")
	for _, r := range resistances {
		b.WriteString(fmt.Sprintf("- %s\n", FormatPrice(r)))
	}

	b.WriteString(fmt.Sprintf("\n💰 Price : %s", FormatPrice(price)))
	return b.String()
}

const MessageDataUnavailable = "⚠️ Data unavailable for %s, please try again later."
