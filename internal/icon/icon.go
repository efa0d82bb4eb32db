// Package icon is the closed set of icons a skill group can display.
package icon

import "strings"

// Icon identifies one of the supported skill icons.
type Icon int

const (
	Code Icon = iota
	Database
	Server
	Globe
	Smartphone
	Layout
	Palette
	Terminal
	Cloud
	Cpu
	GitBranch
	Wrench
	BookOpen
)

// Default is used for unknown or empty icon names.
const Default = Code

// All lists every icon in declaration order.
var All = []Icon{
	Code, Database, Server, Globe, Smartphone, Layout, Palette,
	Terminal, Cloud, Cpu, GitBranch, Wrench, BookOpen,
}

// Parse maps an icon name to an Icon. Matching ignores case, dashes and
// underscores, and a trailing version digit ("Code2"). Unknown names map to
// Default and report false.
func Parse(name string) (Icon, bool) {
	key := strings.ToLower(strings.NewReplacer("-", "", "_", "", " ", "").Replace(name))
	switch key {
	case "code", "code2", "codexml":
		return Code, true
	case "database", "db":
		return Database, true
	case "server":
		return Server, true
	case "globe", "globe2", "web":
		return Globe, true
	case "smartphone", "mobile":
		return Smartphone, true
	case "layout", "layoutdashboard", "layoutgrid":
		return Layout, true
	case "palette", "design":
		return Palette, true
	case "terminal", "terminalsquare":
		return Terminal, true
	case "cloud":
		return Cloud, true
	case "cpu":
		return Cpu, true
	case "gitbranch", "git":
		return GitBranch, true
	case "wrench", "tool", "tools":
		return Wrench, true
	case "bookopen", "book":
		return BookOpen, true
	}
	return Default, false
}

// String returns the canonical icon name as stored by the API.
func (i Icon) String() string {
	switch i {
	case Code:
		return "Code2"
	case Database:
		return "Database"
	case Server:
		return "Server"
	case Globe:
		return "Globe"
	case Smartphone:
		return "Smartphone"
	case Layout:
		return "Layout"
	case Palette:
		return "Palette"
	case Terminal:
		return "Terminal"
	case Cloud:
		return "Cloud"
	case Cpu:
		return "Cpu"
	case GitBranch:
		return "GitBranch"
	case Wrench:
		return "Wrench"
	case BookOpen:
		return "BookOpen"
	}
	return Default.String()
}

// Glyph returns a single-cell terminal rendering of the icon.
func (i Icon) Glyph() string {
	switch i {
	case Code:
		return "⌘"
	case Database:
		return "⛁"
	case Server:
		return "▤"
	case Globe:
		return "◍"
	case Smartphone:
		return "▯"
	case Layout:
		return "▦"
	case Palette:
		return "✎"
	case Terminal:
		return "❯"
	case Cloud:
		return "☁"
	case Cpu:
		return "▣"
	case GitBranch:
		return "⑂"
	case Wrench:
		return "⚒"
	case BookOpen:
		return "▭"
	}
	return Default.Glyph()
}
