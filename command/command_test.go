package command

import (
	"strings"
	"testing"

	"m3u8cmd/models"
)

func mustPath(t *testing.T, dir []string, filename string) *models.OutputPath {
	t.Helper()
	p, err := models.NewOutputPath(dir, filename)
	if err != nil {
		t.Fatalf("NewOutputPath() error = %v", err)
	}
	return p
}

func TestDownloadBuilder_DryRun(t *testing.T) {
	tests := []struct {
		name     string
		tool     string
		url      string
		dir      []string
		filename string
		sep      string
		want     string
	}{
		{
			name:     "title and subtitle",
			tool:     "dlm3u8.bat",
			url:      "https://cdn.example.com/hls/master.m3u8",
			dir:      []string{"Course", "Intro"},
			filename: "Intro-page-03.mp4",
			want:     `dlm3u8.bat "https://cdn.example.com/hls/master.m3u8" "Course\Intro\Intro-page-03.mp4"`,
		},
		{
			name:     "title only",
			tool:     "dlm3u8.bat",
			url:      "https://x.com/a.m3u8",
			dir:      []string{"Video"},
			filename: "Video-page-07.mp4",
			want:     `dlm3u8.bat "https://x.com/a.m3u8" "Video\Video-page-07.mp4"`,
		},
		{
			name:     "custom separator",
			tool:     "dlm3u8.sh",
			url:      "https://x.com/a.m3u8",
			dir:      []string{"Course", "Intro"},
			filename: "Intro page 3.mp4",
			sep:      "/",
			want:     `dlm3u8.sh "https://x.com/a.m3u8" "Course/Intro/Intro page 3.mp4"`,
		},
		{
			name:     "nbsp replaced in whole command",
			tool:     "dlm3u8.bat",
			url:      "https://x.com/a.m3u8",
			dir:      []string{"Course\u00A0One"},
			filename: "Course\u00A0One page 1.mp4",
			want:     `dlm3u8.bat "https://x.com/a.m3u8" "Course-One\Course-One page 1.mp4"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewDownloadBuilder(tt.tool).
				SetURL(tt.url).
				SetOutput(mustPath(t, tt.dir, tt.filename)).
				SetSeparator(tt.sep)

			got, err := b.DryRun()
			if err != nil {
				t.Fatalf("DryRun() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("DryRun() = %q; want %q", got, tt.want)
			}
			if strings.ContainsRune(got, '\u00A0') {
				t.Errorf("DryRun() = %q still contains a non-breaking space", got)
			}
		})
	}
}

func TestDownloadBuilder_Errors(t *testing.T) {
	path := mustPath(t, []string{"Video"}, "Video-page-01.mp4")

	tests := []struct {
		name    string
		builder *DownloadBuilder
		wantErr string
	}{
		{"missing url", NewDownloadBuilder("").SetOutput(path), "playlist url"},
		{"missing path", NewDownloadBuilder("").SetURL("https://x.com/a.m3u8"), "output path"},
		{"invalid path", NewDownloadBuilder("").SetURL("https://x.com/a.m3u8").SetOutput(&models.OutputPath{Filename: "a.mp4"}), "output path"},
		{"blank tool", &DownloadBuilder{tool: " ", url: "https://x.com/a.m3u8", output: path, separator: DefaultSeparator}, "tool"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.builder.DryRun()
			if err == nil {
				t.Fatal("DryRun() expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("DryRun() error = %v; want it to mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestDownloadBuilder_Defaults(t *testing.T) {
	b := NewDownloadBuilder("")
	if b.GetToolName() != DefaultTool {
		t.Errorf("GetToolName() = %q; want %q", b.GetToolName(), DefaultTool)
	}
	if b.GetOutputPath() != "" {
		t.Errorf("GetOutputPath() = %q; want empty", b.GetOutputPath())
	}
}

func TestDownloadBuilder_Candidate(t *testing.T) {
	c, err := models.NewMediaCandidate("https://x.com/a.m3u8?sig=1", "declarative-media", 0)
	if err != nil {
		t.Fatalf("NewMediaCandidate() error = %v", err)
	}

	b := NewDownloadBuilder("dlm3u8.bat").
		SetCandidate(c).
		SetOutput(mustPath(t, []string{"Video"}, "Video-page-01.mp4"))

	if b.GetURL() != "https://x.com/a.m3u8" {
		t.Errorf("GetURL() = %q", b.GetURL())
	}

	args := b.BuildArgs()
	want := []string{"https://x.com/a.m3u8", `Video\Video-page-01.mp4`}
	if len(args) != len(want) {
		t.Fatalf("BuildArgs() = %v; want %v", args, want)
	}
	for i := range want {
		if args[i] != want[i] {
			t.Errorf("BuildArgs()[%d] = %q; want %q", i, args[i], want[i])
		}
	}
}

func TestDownloadBuilder_ExtraArgs(t *testing.T) {
	b := NewDownloadBuilder("dlm3u8.bat").
		SetURL("https://x.com/a.m3u8").
		SetOutput(mustPath(t, []string{"Video"}, "Video-page-01.mp4")).
		AddExtraArgs(`"--retries=3"`, "--quiet")

	got, err := b.DryRun()
	if err != nil {
		t.Fatalf("DryRun() error = %v", err)
	}
	want := `dlm3u8.bat "https://x.com/a.m3u8" "Video\Video-page-01.mp4" "--retries=3" "--quiet"`
	if got != want {
		t.Errorf("DryRun() = %q; want %q", got, want)
	}
}

func TestDownloadBuilder_ImplementsCommand(t *testing.T) {
	var _ Command = NewDownloadBuilder("")
}
