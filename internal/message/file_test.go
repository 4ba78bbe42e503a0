package message

import "testing"

func TestFormatFileSize(t *testing.T) {
	tests := []struct {
		bytes int64
		want  string
	}{
		{0, "未知大小"},
		{-1, "未知大小"},
		{1, "1.0 B"},
		{512, "512.0 B"},
		{1023, "1023.0 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{2048, "2.0 KB"},
		{1048576, "1.0 MB"},
		{5 * 1024 * 1024 * 1024, "5.0 GB"},
		{3 * 1024 * 1024 * 1024 * 1024, "3.0 TB"},
		{1024 * 1024 * 1024 * 1024 * 1024, "1024.0 TB"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := FormatFileSize(tt.bytes); got != tt.want {
				t.Errorf("FormatFileSize(%d) = %q, want %q", tt.bytes, got, tt.want)
			}
		})
	}
}

func TestFileIconFor(t *testing.T) {
	tests := []struct {
		name string
		want FileIcon
	}{
		{"report.pdf", IconPDF},
		{"REPORT.PDF", IconPDF},
		{"letter.docx", IconWord},
		{"budget.xlsx", IconExcel},
		{"data.csv", IconExcel},
		{"deck.pptx", IconPowerPoint},
		{"notes.txt", IconText},
		{"photo.JPEG", IconImage},
		{"backup.tar.gz", IconArchive},
		{"main.go", IconCode},
		{"clip.mp4", IconVideo},
		{"song.mp3", IconAudio},
		{"README", IconGeneric},
		{"weird.xyz", IconGeneric},
		{"", IconGeneric},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FileIconFor(tt.name); got != tt.want {
				t.Errorf("FileIconFor(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestFileIcon_ExhaustiveMapping(t *testing.T) {
	seen := map[string]bool{}
	for i := IconGeneric; i <= IconAudio; i++ {
		if !i.Valid() {
			t.Errorf("%d should be valid", i)
		}
		name := i.String()
		if name == "invalid" {
			t.Errorf("icon %d has no name", i)
		}
		if seen[name] {
			t.Errorf("duplicate icon name %q", name)
		}
		seen[name] = true
		if i.Glyph() == "" {
			t.Errorf("icon %s has no glyph", name)
		}
	}
	if FileIcon(99).Valid() {
		t.Error("FileIcon(99) should be invalid")
	}
	if FileIcon(99).String() != "invalid" {
		t.Errorf("FileIcon(99).String() = %q", FileIcon(99).String())
	}
}

func TestIconTableOnlyUsesDeclaredIcons(t *testing.T) {
	for ext, icon := range iconByExtension {
		if !icon.Valid() || icon == IconGeneric {
			t.Errorf("extension %q maps to %v", ext, icon)
		}
	}
}

func TestDescribeFile(t *testing.T) {
	info := DescribeFile(Media{URL: "https://cdn.example.com/files/q3.pdf?sig=abc", Size: 2048})
	if info.Name != "q3.pdf" {
		t.Errorf("Name = %q, want q3.pdf", info.Name)
	}
	if info.Icon != IconPDF {
		t.Errorf("Icon = %v, want pdf", info.Icon)
	}
	if info.Size != "2.0 KB" {
		t.Errorf("Size = %q", info.Size)
	}

	named := DescribeFile(Media{URL: "https://x/1", Name: "clip.mov"})
	if named.Name != "clip.mov" || named.Icon != IconVideo {
		t.Errorf("named = %+v", named)
	}
	if named.Size != UnknownSizeText {
		t.Errorf("missing size = %q, want %q", named.Size, UnknownSizeText)
	}
}
