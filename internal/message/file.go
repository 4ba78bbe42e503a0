package message

import (
	"fmt"
	"path"
	"strings"
)

// FileIcon is the closed set of file-type icons.
type FileIcon int

const (
	IconGeneric FileIcon = iota
	IconPDF
	IconWord
	IconExcel
	IconPowerPoint
	IconText
	IconImage
	IconArchive
	IconCode
	IconVideo
	IconAudio
)

// iconByExtension is the explicit extension table. Anything absent is generic.
var iconByExtension = map[string]FileIcon{
	"pdf": IconPDF,

	"doc": IconWord, "docx": IconWord, "odt": IconWord, "rtf": IconWord,

	"xls": IconExcel, "xlsx": IconExcel, "csv": IconExcel, "ods": IconExcel,

	"ppt": IconPowerPoint, "pptx": IconPowerPoint, "odp": IconPowerPoint, "key": IconPowerPoint,

	"txt": IconText, "md": IconText, "log": IconText,

	"png": IconImage, "jpg": IconImage, "jpeg": IconImage, "gif": IconImage,
	"webp": IconImage, "svg": IconImage, "bmp": IconImage,

	"zip": IconArchive, "rar": IconArchive, "7z": IconArchive, "tar": IconArchive,
	"gz": IconArchive, "bz2": IconArchive, "xz": IconArchive,

	"go": IconCode, "js": IconCode, "ts": IconCode, "py": IconCode, "java": IconCode,
	"c": IconCode, "cpp": IconCode, "h": IconCode, "rs": IconCode, "rb": IconCode,
	"php": IconCode, "html": IconCode, "css": IconCode, "json": IconCode,
	"xml": IconCode, "yaml": IconCode, "yml": IconCode, "sh": IconCode, "sql": IconCode,

	"mp4": IconVideo, "mov": IconVideo, "avi": IconVideo, "mkv": IconVideo, "webm": IconVideo,

	"mp3": IconAudio, "wav": IconAudio, "flac": IconAudio, "aac": IconAudio,
	"ogg": IconAudio, "m4a": IconAudio,
}

// FileIconFor resolves the icon for a file name by its extension.
func FileIconFor(name string) FileIcon {
	ext := strings.TrimPrefix(strings.ToLower(path.Ext(name)), ".")
	if icon, ok := iconByExtension[ext]; ok {
		return icon
	}
	return IconGeneric
}

// Valid reports whether i is one of the declared icons.
func (i FileIcon) Valid() bool {
	return i >= IconGeneric && i <= IconAudio
}

func (i FileIcon) String() string {
	switch i {
	case IconGeneric:
		return "generic"
	case IconPDF:
		return "pdf"
	case IconWord:
		return "word"
	case IconExcel:
		return "excel"
	case IconPowerPoint:
		return "powerpoint"
	case IconText:
		return "text"
	case IconImage:
		return "image"
	case IconArchive:
		return "archive"
	case IconCode:
		return "code"
	case IconVideo:
		return "video"
	case IconAudio:
		return "audio"
	default:
		return "invalid"
	}
}

// Glyph returns the single-character symbol drawn for the icon.
func (i FileIcon) Glyph() string {
	switch i {
	case IconPDF:
		return "📕"
	case IconWord:
		return "📘"
	case IconExcel:
		return "📗"
	case IconPowerPoint:
		return "📙"
	case IconText:
		return "📝"
	case IconImage:
		return "🖼"
	case IconArchive:
		return "🗜"
	case IconCode:
		return "💻"
	case IconVideo:
		return "🎬"
	case IconAudio:
		return "🎵"
	default:
		return "📄"
	}
}

// UnknownSizeText is shown when a file size is missing or not positive.
const UnknownSizeText = "未知大小"

var sizeUnits = []string{"B", "KB", "MB", "GB", "TB"}

// FormatFileSize formats a byte count with 1024-based units and one decimal.
func FormatFileSize(bytes int64) string {
	if bytes <= 0 {
		return UnknownSizeText
	}

	size := float64(bytes)
	unit := 0
	for size >= 1024 && unit < len(sizeUnits)-1 {
		size /= 1024
		unit++
	}
	return fmt.Sprintf("%.1f %s", size, sizeUnits[unit])
}

// FileInfo is the derived view of a file attachment.
type FileInfo struct {
	Name string   `json:"name"`
	URL  string   `json:"url"`
	Icon FileIcon `json:"-"`
	Size string   `json:"size"`
}

// DescribeFile derives the display name, icon and size text for an attachment.
// The display name falls back to the last URL path segment.
func DescribeFile(m Media) FileInfo {
	name := m.Name
	if name == "" {
		name = path.Base(strings.SplitN(m.URL, "?", 2)[0])
	}
	return FileInfo{
		Name: name,
		URL:  m.URL,
		Icon: FileIconFor(name),
		Size: FormatFileSize(m.Size),
	}
}
