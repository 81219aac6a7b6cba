package statusbar

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
)

func TestNewStatusBarView(t *testing.T) {
	sb := NewStatusBarView()

	if sb == nil {
		t.Fatal("NewStatusBarView() returned nil")
	}
	if sb.width != 80 {
		t.Errorf("Expected default width 80, got %d", sb.width)
	}
}

func TestStatusBarView_Section(t *testing.T) {
	sb := NewStatusBarView()
	sb.SetWidth(100)
	sb.SetSection("热门产品")

	rendered := ansi.Strip(sb.Render())
	if !strings.Contains(rendered, "[airbutler] 热门产品") {
		t.Errorf("Expected section in rendered output, got %q", rendered)
	}
}

func TestStatusBarView_MessagePriority(t *testing.T) {
	sb := NewStatusBarView()
	sb.SetWidth(100)
	sb.SetSection("热门产品")
	sb.SetMessage("已复制对话")

	rendered := ansi.Strip(sb.Render())
	if !strings.Contains(rendered, "已复制对话") {
		t.Error("Expected message in rendered output")
	}
	if strings.Contains(rendered, "热门产品") {
		t.Error("Expected message to replace the section")
	}

	sb.SetMessage("")
	if !strings.Contains(ansi.Strip(sb.Render()), "热门产品") {
		t.Error("Expected section back after clearing the message")
	}
}

func TestStatusBarView_ButlerHint(t *testing.T) {
	tests := []struct {
		name      string
		available bool
		open      bool
		want      string
	}{
		{"unavailable", false, false, "管家不可用"},
		{"closed", true, false, "Ctrl+B 打开管家"},
		{"open", true, true, "Esc 关闭管家"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sb := NewStatusBarView()
			sb.SetWidth(100)
			sb.SetButler(tt.available, tt.open)
			if got := ansi.Strip(sb.Render()); !strings.Contains(got, tt.want) {
				t.Errorf("Expected %q in %q", tt.want, got)
			}
		})
	}
}

func TestStatusBarView_ScrollClamped(t *testing.T) {
	sb := NewStatusBarView()
	sb.SetWidth(100)
	sb.SetProvider("butler")

	sb.SetScroll(150)
	if got := ansi.Strip(sb.Render()); !strings.Contains(got, "butler | 100%") {
		t.Errorf("Expected clamped 100%%, got %q", got)
	}
	sb.SetScroll(-3)
	if got := ansi.Strip(sb.Render()); !strings.Contains(got, "butler | 0%") {
		t.Errorf("Expected clamped 0%%, got %q", got)
	}
}

func TestStatusBarView_Width(t *testing.T) {
	for _, width := range []int{0, 1, 2, 10, 40, 80, 120} {
		sb := NewStatusBarView()
		sb.SetWidth(width)
		sb.SetSection(strings.Repeat("空气净化", 30))
		sb.SetButler(true, false)

		got := ansi.StringWidth(sb.Render())
		want := width
		if width < 2 {
			want = 0
		}
		if got != want {
			t.Errorf("width %d: rendered %d cells, want %d", width, got, want)
		}
	}
}

func TestStatusBarView_LayoutAlignment(t *testing.T) {
	sb := NewStatusBarView()
	sb.SetWidth(80)
	sb.SetSection("首页")
	sb.SetProvider("openai")

	rendered := ansi.Strip(sb.Render())
	if !strings.HasPrefix(rendered, " [airbutler]") {
		t.Errorf("Expected left-aligned prefix, got %q", rendered)
	}
	if !strings.HasSuffix(rendered, "管家不可用 ") {
		t.Errorf("Expected right-aligned hint, got %q", rendered)
	}
}
