package commands

import (
	"fmt"
	"strings"
)

// HelpHandler handles the /help command
type HelpHandler struct {
	d *Dispatcher
}

func (h *HelpHandler) Name() string        { return "/help" }
func (h *HelpHandler) Description() string { return "显示帮助" }

func (h *HelpHandler) Execute(ctx *Context) *Result {
	var sb strings.Builder
	sb.WriteString("可用命令：\n")
	if h.d != nil {
		for _, handler := range h.d.Handlers() {
			sb.WriteString(fmt.Sprintf("  %-9s %s\n", handler.Name(), handler.Description()))
		}
	}
	sb.WriteString("\n快捷键：\n")
	sb.WriteString("  Ctrl+B    打开/关闭管家\n")
	sb.WriteString("  Tab       切换输入框与快捷回复\n")
	sb.WriteString("  Esc       关闭管家\n")
	sb.WriteString("  Ctrl+C    退出")

	return &Result{
		Title:   "帮助",
		Content: sb.String(),
	}
}

// CopyHandler handles the /copy command
type CopyHandler struct{}

func (h *CopyHandler) Name() string        { return "/copy" }
func (h *CopyHandler) Description() string { return "复制对话记录" }

func (h *CopyHandler) Execute(ctx *Context) *Result {
	transcript := ctx.Transcript()
	if transcript == "" {
		return &Result{
			Title:   "复制",
			Content: "暂无对话可复制",
		}
	}
	return &Result{
		Title:   "复制",
		Content: transcript,
		Action:  ActionCopy,
	}
}

// CloseHandler handles the /close command
type CloseHandler struct{}

func (h *CloseHandler) Name() string        { return "/close" }
func (h *CloseHandler) Description() string { return "关闭管家" }

func (h *CloseHandler) Execute(ctx *Context) *Result {
	return &Result{
		Title:  "关闭",
		Action: ActionClose,
	}
}

// VersionHandler handles the /version command
type VersionHandler struct{}

func (h *VersionHandler) Name() string        { return "/version" }
func (h *VersionHandler) Description() string { return "显示版本" }

func (h *VersionHandler) Execute(ctx *Context) *Result {
	v := ctx.Version
	if v == "" {
		v = "dev"
	}
	return &Result{
		Title:   "版本",
		Content: "airbutler " + v,
	}
}
