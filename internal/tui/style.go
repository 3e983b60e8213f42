package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Palette. The two stacked lists (today/upcoming) and the single-column
// create form need little chrome, so this only defines the colors those
// widgets actually render with. The accent is amber, warm enough to read
// as "a notification is coming".
var (
	ColorFg        = lipgloss.Color("#EAEAEA")
	ColorBg        = lipgloss.Color("#1B1F2A")
	ColorSubtle    = lipgloss.Color("#6B7685")
	ColorAccent    = lipgloss.Color("#FFB454")
	ColorGood      = lipgloss.Color("#8EE4AF")
	ColorWarn      = lipgloss.Color("#FFD166")
	ColorError     = lipgloss.Color("#EF6461")
	ColorBorder    = lipgloss.Color("#333947")
	ColorSectionBg = lipgloss.Color("#20242F")
	ColorInverseBg = lipgloss.Color("#F4E8D0")
)

// Shared styles, one per widget RenderHeader/RenderFooter/RenderSection/
// RenderList/RenderStatus actually render.
var (
	HeaderBarStyle = lipgloss.NewStyle().
			Foreground(ColorFg).
			Background(ColorBg).
			Bold(true).
			Padding(0, 1)

	HeaderTitleStyle = lipgloss.NewStyle().
				Foreground(ColorFg).
				Bold(true)

	HeaderInfoStyle = lipgloss.NewStyle().
			Foreground(ColorSubtle)

	FooterBarStyle = lipgloss.NewStyle().
			Foreground(ColorFg).
			Background(ColorBg).
			Padding(0, 1)

	FooterHintKeyStyle = lipgloss.NewStyle().
				Foreground(ColorAccent).
				Bold(true)

	FooterHintTextStyle = lipgloss.NewStyle().
				Foreground(ColorSubtle)

	SectionTitleStyle = lipgloss.NewStyle().
				Foreground(ColorAccent).
				Bold(true)

	SectionBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Foreground(ColorFg).
			Background(ColorSectionBg).
			Padding(0, 1)

	MutedStyle = lipgloss.NewStyle().Foreground(ColorSubtle)

	EmphStyle = lipgloss.NewStyle().Foreground(ColorAccent).Bold(true)

	ListItemStyle = lipgloss.NewStyle().
			Foreground(ColorFg).
			PaddingLeft(2)

	ListSelectedStyle = lipgloss.NewStyle().
				Foreground(ColorInverseBg).
				Background(ColorAccent).
				Bold(true).
				PaddingLeft(2)

	StatusOKStyle   = lipgloss.NewStyle().Foreground(ColorGood).Bold(true)
	StatusWarnStyle = lipgloss.NewStyle().Foreground(ColorWarn).Bold(true)
	StatusErrStyle  = lipgloss.NewStyle().Foreground(ColorError).Bold(true)
)

// RenderHeader renders a left title and a right-aligned info segment within
// width. Background spans the full width.
func RenderHeader(left, right string, width int) string {
	leftR := HeaderTitleStyle.Render(left)
	rightR := HeaderInfoStyle.Render(right)
	fill := max(1, width-lipgloss.Width(leftR)-lipgloss.Width(rightR))
	line := leftR + strings.Repeat(" ", fill) + rightR
	return HeaderBarStyle.Width(width).Render(line)
}

// RenderFooter renders a left-aligned hint segment and a right-aligned
// status/info, used for the appModel's key-hint bar.
func RenderFooter(hints []Hint, right string, width int) string {
	leftText := JoinHints(hints, "  ")
	rightR := MutedStyle.Render(right)
	fill := max(1, width-lipgloss.Width(leftText)-lipgloss.Width(rightR))
	line := leftText + strings.Repeat(" ", fill) + rightR
	return FooterBarStyle.Width(width).Render(line)
}

// Hint is a single keybinding hint for the footer: "k Do thing".
type Hint struct {
	Key  string
	Text string
}

func (h Hint) String() string {
	return FooterHintKeyStyle.Render(h.Key) + " " + FooterHintTextStyle.Render(h.Text)
}

func JoinHints(h []Hint, sep string) string {
	if len(h) == 0 {
		return ""
	}
	parts := make([]string, len(h))
	for i := range h {
		parts[i] = h[i].String()
	}
	return strings.Join(parts, sep)
}

// RenderSection wraps content in a bordered box with a styled title, used
// for the main screen, the Today/Upcoming lists, and the create form.
func RenderSection(title string, content string, width int) string {
	titleR := SectionTitleStyle.Render(title)
	box := SectionBoxStyle
	if width > 0 {
		box = box.Width(width)
	}
	titleLine := titleR
	if width > 0 && lipgloss.Width(titleLine) > width {
		titleLine = lipgloss.NewStyle().Width(width).Render(titleR)
	}
	return titleLine + "\n" + box.Render(content)
}

// RenderList renders a vertical list with an optional selected index, used
// for the two stacked Today/Upcoming reminder lists.
func RenderList(items []string, selected int, width int) string {
	var (
		out    []string
		itemSt = ListItemStyle
		selSt  = ListSelectedStyle
	)
	if width > 0 {
		itemSt = itemSt.Width(width)
		selSt = selSt.Width(width)
	}
	for i, it := range items {
		if i == selected {
			out = append(out, selSt.Render(it))
		} else {
			out = append(out, itemSt.Render(it))
		}
	}
	return strings.Join(out, "\n")
}

// RenderKeyValueList renders k: v pairs with aligned colons, used by
// viewSelectedDetail's selected-reminder panel (id/note/remind-at/created-at).
func RenderKeyValueList(kv [][2]string, width int) string {
	maxKey := 0
	for _, p := range kv {
		if w := lipgloss.Width(p[0]); w > maxKey {
			maxKey = w
		}
	}
	lines := make([]string, 0, len(kv))
	for _, p := range kv {
		key := EmphStyle.Render(p[0])
		pad := maxKey - lipgloss.Width(p[0])
		line := key + strings.Repeat(" ", pad) + ": " + MutedStyle.Render(p[1])
		lines = append(lines, line)
	}
	joined := strings.Join(lines, "\n")
	if width > 0 {
		return lipgloss.NewStyle().Width(width).Render(joined)
	}
	return joined
}

// RenderStatus composes a colored status label and a message, e.g.
// "[OK] Saved", used for the footer's transient status and the create
// form's validation error.
func RenderStatus(kind string, msg string) string {
	var tag string
	switch strings.ToLower(kind) {
	case "ok", "success", "good":
		tag = StatusOKStyle.Render("[OK]")
	case "warn", "warning":
		tag = StatusWarnStyle.Render("[WARN]")
	case "err", "error", "fail":
		tag = StatusErrStyle.Render("[ERR]")
	default:
		tag = MutedStyle.Render("[INFO]")
	}
	return fmt.Sprintf("%s %s", tag, msg)
}
