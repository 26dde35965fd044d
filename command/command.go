// Package command provides the Command interface and the builder that
// composes the downloader invocation handed to the user.
//
// A Command is never executed by this program. It is rendered with DryRun and
// delivered as text (clipboard or terminal) for the user to run.
package command

// DefaultTool is the downloader invoked by the composed command.
const DefaultTool = "dlm3u8.bat"

// DefaultSeparator joins output path segments.
const DefaultSeparator = `\`

// Command represents a downloader invocation that can be built or previewed.
//
// Example usage:
//
//	cmd := command.NewDownloadBuilder(command.DefaultTool).
//		SetURL("https://cdn.example.com/hls/master.m3u8").
//		SetOutput(path)
//
//	line, err := cmd.DryRun()
//	// dlm3u8.bat "https://cdn.example.com/hls/master.m3u8" "Course\Intro\Intro-page-03.mp4"
type Command interface {
	// BuildArgs returns the tool arguments in order: playlist URL, output path.
	BuildArgs() []string

	// DryRun renders the full command line as a single string.
	//
	// Returns an error if the tool, URL or output path is missing.
	DryRun() (string, error)

	// GetToolName returns the downloader executable name.
	GetToolName() string

	// GetURL returns the playlist URL passed to the tool.
	GetURL() string

	// GetOutputPath returns the rendered output path passed to the tool.
	GetOutputPath() string
}
