package intent

import (
	"errors"
	"path/filepath"
	"regexp"
	"strings"
)

// ErrUnparsed indicates the instruction matched none of the known forms.
var ErrUnparsed = errors.New(`无法解析指令。可试试：整理桌面 / 把 XXX 移动到 YYY 并重命名为 ZZZ / 打开软件 AppName / 打开路径 /path (or: organize desktop / move X to Y as Z / open app N / open PATH)`)

var (
	movePattern = regexp.MustCompile(
		`^(?:把|将)\s*(.+?)\s*(?:放到|放入|放进|移动到|移到|移动至|移至)\s*(.+?)(?:\s*(?:并)?(?:重命名为|重命名成|改名为|改名成)\s*(.+))?\s*$`)
	openPathPattern = regexp.MustCompile(`^(?:打开路径|打开文件夹|打开目录)\s*(.+?)\s*$`)
	openAppPattern  = regexp.MustCompile(`^(?:打开软件|打开应用|打开)\s*(.+?)\s*$`)

	moveEnPattern     = regexp.MustCompile(`(?i)^move\s+(.+?)\s+to\s+(.+?)(?:\s+as\s+(\S+))?\s*$`)
	openAppEnPattern  = regexp.MustCompile(`(?i)^open\s+app\s+(.+?)\s*$`)
	openPathEnPattern = regexp.MustCompile(`(?i)^open\s+(.+?)\s*$`)
	organizeEnPattern = regexp.MustCompile(`(?i)^(?:organize|tidy(?:\s+up)?)\s*(.*?)\s*$`)

	locationPrefixPattern = regexp.MustCompile(
		`^(桌面|文稿|文档|下载目录|下载文件夹|下载)(?:下的|里的|中的|下面的|上面的|上的|上面|下面|上|下|里|中)?\s*(.*)$`)
	folderSuffixPattern = regexp.MustCompile(`(文件夹)?(下面|下|里|中)?$`)
)

var organizeKeywords = []string{
	"整理桌面", "整理一下桌面", "整理桌面文件", "整理桌面并分类",
	"整理桌面文件并分类", "分类桌面", "分类桌面文件",
}

// appAliases maps common spoken names to application names.
var appAliases = map[string]string{
	"音乐":     "Music",
	"音乐app":  "Music",
	"apple music": "Music",
	"日历":     "Calendar",
	"日程":     "Calendar",
	"备忘录":    "Notes",
	"提醒事项":   "Reminders",
	"通讯录":    "Contacts",
	"邮件":     "Mail",
	"计算器":    "Calculator",
	"终端":     "Terminal",
	"系统设置":   "System Settings",
	"系统偏好设置": "System Settings",
	"相册":     "Photos",
}

// locationDirs maps Chinese location shorthand to home-relative directories.
var locationDirs = map[string]string{
	"桌面":    "Desktop",
	"文稿":    "Documents",
	"文档":    "Documents",
	"下载":    "Downloads",
	"下载目录":  "Downloads",
	"下载文件夹": "Downloads",
}

// Parse turns a free-form instruction into an Intent. home anchors relative
// locations (桌面/文稿/下载 and bare file names, which default to the desktop).
//
// Pattern order matters: explicit open-path forms are tried before the
// generic 打开/open forms, and move forms before both generic opens.
func Parse(text, home string) (Intent, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Intent{}, ErrUnparsed
	}

	if m := openPathPattern.FindStringSubmatch(text); m != nil {
		return Intent{Kind: KindOpenPath, TargetPath: resolveFolder(m[1], home)}, nil
	}

	if m := movePattern.FindStringSubmatch(text); m != nil {
		in := Intent{
			Kind:       KindMoveAndRename,
			SourceFile: resolveFile(strings.Trim(m[1], `"'`), home),
			DestDir:    resolveFolder(strings.Trim(m[2], `"'`), home),
		}
		if m[3] != "" {
			in.NewName = strings.TrimSpace(m[3])
		}
		return in, nil
	}

	for _, kw := range organizeKeywords {
		if strings.Contains(text, kw) {
			return Intent{Kind: KindOrganizeAll, SourceDir: filepath.Join(home, "Desktop")}, nil
		}
	}

	if m := openAppPattern.FindStringSubmatch(text); m != nil && !strings.HasPrefix(text, "打开路径") {
		// 打开 followed by something path-shaped means open-path, not open-app.
		if isExplicitPath(m[1]) {
			return Intent{Kind: KindOpenPath, TargetPath: expandHome(m[1], home)}, nil
		}
		return Intent{Kind: KindOpenApp, AppName: resolveAppName(m[1])}, nil
	}

	if m := moveEnPattern.FindStringSubmatch(text); m != nil {
		in := Intent{
			Kind:       KindMoveAndRename,
			SourceFile: resolveFile(strings.Trim(m[1], `"'`), home),
			DestDir:    resolveFolder(strings.Trim(m[2], `"'`), home),
		}
		if m[3] != "" {
			in.NewName = strings.TrimSpace(m[3])
		}
		return in, nil
	}

	if m := openAppEnPattern.FindStringSubmatch(text); m != nil {
		return Intent{Kind: KindOpenApp, AppName: resolveAppName(m[1])}, nil
	}

	if m := organizeEnPattern.FindStringSubmatch(text); m != nil {
		dir := strings.TrimSpace(m[1])
		if dir == "" || strings.EqualFold(dir, "desktop") || strings.EqualFold(dir, "my desktop") {
			return Intent{Kind: KindOrganizeAll, SourceDir: filepath.Join(home, "Desktop")}, nil
		}
		return Intent{Kind: KindOrganizeAll, SourceDir: resolveFolder(dir, home)}, nil
	}

	if m := openPathEnPattern.FindStringSubmatch(text); m != nil {
		return Intent{Kind: KindOpenPath, TargetPath: resolveFolder(m[1], home)}, nil
	}

	return Intent{}, ErrUnparsed
}

// resolveFile turns a spoken file reference into a path. Explicit paths pass
// through (with ~ expansion); bare names default to the desktop unless a
// location prefix (桌面/文稿/下载) says otherwise.
func resolveFile(name, home string) string {
	if isExplicitPath(name) {
		return expandHome(name, home)
	}
	if base, rest, ok := splitLocationPrefix(name); ok && rest != "" {
		return filepath.Join(home, base, rest)
	}
	return filepath.Join(home, "Desktop", name)
}

// resolveFolder turns a spoken folder reference into a path. Bare folder
// names default to ~/Documents/<name>, matching how users phrase "放到 XX".
func resolveFolder(folder, home string) string {
	if isExplicitPath(folder) {
		return expandHome(folder, home)
	}
	folder = strings.TrimSpace(folderSuffixPattern.ReplaceAllString(strings.TrimSpace(folder), ""))
	if base, rest, ok := splitLocationPrefix(folder); ok {
		if rest == "" {
			return filepath.Join(home, base)
		}
		return filepath.Join(home, base, rest)
	}
	if strings.EqualFold(folder, "desktop") {
		return filepath.Join(home, "Desktop")
	}
	if strings.EqualFold(folder, "documents") {
		return filepath.Join(home, "Documents")
	}
	if strings.EqualFold(folder, "downloads") {
		return filepath.Join(home, "Downloads")
	}
	return filepath.Join(home, "Documents", folder)
}

func isExplicitPath(s string) bool {
	return strings.Contains(s, "/") || strings.HasPrefix(s, "~")
}

func expandHome(path, home string) string {
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}

// splitLocationPrefix splits a leading 桌面/文稿/下载 shorthand (with optional
// connective like 上的/里的) off a spoken name.
func splitLocationPrefix(text string) (dir, rest string, ok bool) {
	m := locationPrefixPattern.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return "", "", false
	}
	base, known := locationDirs[m[1]]
	if !known {
		return "", "", false
	}
	return base, strings.TrimSpace(m[2]), true
}

func resolveAppName(name string) string {
	key := strings.ToLower(strings.TrimSpace(name))
	if app, ok := appAliases[key]; ok {
		return app
	}
	return strings.TrimSpace(name)
}
