// application/pipeline/progress.go
package pipeline

import (
	"fmt"
	"strings"
)

// Цвета квадратов прогресса
const (
	SquareAnalysis = "🟦"
	SquareLong     = "🟩"
	SquareShort    = "🟥"
)

const pendingMark = "⏳"

// Progress состояние индикатора выполнения одного запроса
type Progress struct {
	Labels []string // названия шагов, по индексу шага-1
	Step   int
	Total  int
	Square string
}

// NewProgress создает прогресс с заданным цветом квадратов
func NewProgress(square string) *Progress {
	if square == "" {
		square = SquareAnalysis
	}
	return &Progress{Square: square}
}

// Advance фиксирует шаг и его название
func (p *Progress) Advance(label string, step, total int) {
	if total > 0 {
		p.Total = total
	}
	if step > p.Total {
		step = p.Total
	}
	if step < 0 {
		step = 0
	}
	p.Step = step

	for len(p.Labels) < step {
		p.Labels = append(p.Labels, "")
	}
	if step > 0 {
		p.Labels[step-1] = label
	}
}

// Bar строка квадратов и процент
func (p *Progress) Bar() string {
	if p.Total <= 0 {
		return "0%"
	}
	filled := strings.Repeat(p.Square, p.Step)
	empty := strings.Repeat(pendingMark, p.Total-p.Step)
	return fmt.Sprintf("%s%s %d%%", filled, empty, p.Step*100/p.Total)
}

// Lines пройденные шаги и текущий
func (p *Progress) Lines() []string {
	lines := make([]string, 0, p.Step)
	for i := 0; i < p.Step && i < len(p.Labels); i++ {
		icon := "✅"
		if i == p.Step-1 {
			icon = "🔄"
		}
		lines = append(lines, icon+" "+p.Labels[i])
	}
	return lines
}

// Render текст сообщения с прогрессом
func (p *Progress) Render() string {
	return p.Bar() + "\n" + strings.Join(p.Lines(), "\n")
}
