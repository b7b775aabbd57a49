// internal/core/domain/signals/report.go
package signals

import (
	"fmt"
	"strings"
)

const lowRiskRewardWarning = "⚠️ Рекомендуем пропустить сигнал из-за низкого соотношения риск/прибыль."

// ReportInput данные для текста сигнала
type ReportInput struct {
	Symbol         string
	CurrentPrice   float64
	SMAFast        float64
	SMASlow        float64
	Support        float64
	Resistance     float64
	Plan           TradePlan
	IncludeWarning bool
}

// Warning текст предупреждения о низком R/R или пустая строка
func Warning(plan TradePlan) string {
	if plan.HasLowRiskReward() {
		return lowRiskRewardWarning
	}
	return ""
}

// RenderReport собирает Markdown сообщение с торговым планом
func RenderReport(in ReportInput) string {
	plan := in.Plan
	stopPct, targetPct := plan.DisplayPercents()

	trend := "нисходящий тренд"
	if in.SMAFast > in.SMASlow {
		trend = "восходящий тренд"
	}

	level := "сопротивления " + FormatPrice(in.Resistance)
	if plan.Direction == Long {
		level = "поддержки " + FormatPrice(in.Support)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n%s *%s*\n\n", plan.Direction.Emoji(), in.Symbol)
	fmt.Fprintf(&b, "💲 *Текущая цена:* %s\n", FormatPrice(in.CurrentPrice))
	fmt.Fprintf(&b, "📊 *Направление:* %s\n", plan.Direction)
	fmt.Fprintf(&b, "🎯 *Точка входа:* %s (лимитный ордер)\n", FormatPrice(plan.Entry))
	fmt.Fprintf(&b, "🛑 *Стоп-лосс:* %s (%+.2f%%)\n", FormatPrice(plan.StopLoss), stopPct)
	fmt.Fprintf(&b, "💎 *Тейк-профит:* %s (%+.2f%%)\n", FormatPrice(plan.TakeProfit), targetPct)
	fmt.Fprintf(&b, "⚖️ *Риск/Прибыль:* 1:%.1f\n", plan.RiskReward)
	fmt.Fprintf(&b, "💡 *Пояснение:* %s, вход от %s\n", trend, level)
	fmt.Fprintf(&b, "❌ *Условия отмены:* Пробой %s\n", FormatPrice(plan.CancelPrice))

	if in.IncludeWarning {
		if w := Warning(plan); w != "" {
			b.WriteString("\n" + w)
		}
	}

	return b.String()
}
