// application/pipeline/progress_test.go
package pipeline

import "testing"

func TestProgressRender(t *testing.T) {
	p := NewProgress(SquareLong)
	p.Advance("Сканирование топ-50 пар...", 1, 4)
	p.Advance("Проанализировано: 3/30", 2, 4)

	want := "🟩🟩⏳⏳ 50%\n✅ Сканирование топ-50 пар...\n🔄 Проанализировано: 3/30"
	if got := p.Render(); got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestProgressBarRoundsDown(t *testing.T) {
	p := NewProgress("")
	p.Advance("a", 1, 6)
	if got := p.Bar(); got != "🟦⏳⏳⏳⏳⏳ 16%" {
		t.Errorf("Bar() = %q", got)
	}

	p.Advance("f", 6, 6)
	if got := p.Bar(); got != "🟦🟦🟦🟦🟦🟦 100%" {
		t.Errorf("Bar() = %q", got)
	}
}

func TestProgressClampsStep(t *testing.T) {
	p := NewProgress(SquareShort)
	p.Advance("x", 9, 4)
	if p.Step != 4 {
		t.Errorf("Step = %d, want 4", p.Step)
	}
	if len(p.Lines()) != 4 {
		t.Errorf("Lines() = %v", p.Lines())
	}

	empty := NewProgress(SquareShort)
	if got := empty.Bar(); got != "0%" {
		t.Errorf("empty Bar() = %q", got)
	}
}
