package dom

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"m3u8cmd/internal/logger"
)

func writeSnapshot(t *testing.T, dir, rel, content string) {
	t.Helper()
	full := filepath.Join(dir, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0644))
}

func TestSrcdocResolver(t *testing.T) {
	parent, err := ParseString(`<iframe srcdoc="<video id=v></video>"></iframe><iframe src="x.html"></iframe>`, mustURL(t, "https://x.com/"))
	require.NoError(t, err)
	frames := parent.Frames()

	doc, err := SrcdocResolver{}.Resolve(parent, frames[0])
	require.NoError(t, err)
	assert.Equal(t, 1, doc.Find("video#v").Length())
	assert.Equal(t, "https://x.com/", doc.URL().String())

	_, err = SrcdocResolver{}.Resolve(parent, frames[1])
	assert.ErrorIs(t, err, ErrNoContent)
}

func TestSnapshotResolver_HostPath(t *testing.T) {
	dir := t.TempDir()
	writeSnapshot(t, dir, "x.com/player/embed.html", `<video id="nested"></video>`)

	parent, err := ParseString(`<iframe src="/player/embed.html"></iframe>`, mustURL(t, "https://x.com/course/"))
	require.NoError(t, err)

	r := &SnapshotResolver{Dir: dir}
	doc, err := r.Resolve(parent, parent.Frames()[0])
	require.NoError(t, err)
	assert.Equal(t, 1, doc.Find("video#nested").Length())
	assert.Equal(t, "https://x.com/player/embed.html", doc.URL().String())
}

func TestSnapshotResolver_BasenameFallback(t *testing.T) {
	dir := t.TempDir()
	writeSnapshot(t, dir, "embed.html", `<p id="flat"></p>`)

	parent, err := ParseString(`<iframe src="deep/path/embed.html?x=1"></iframe>`, mustURL(t, "https://x.com/"))
	require.NoError(t, err)

	doc, err := (&SnapshotResolver{Dir: dir}).Resolve(parent, parent.Frames()[0])
	require.NoError(t, err)
	assert.Equal(t, 1, doc.Find("p#flat").Length())
}

func TestSnapshotResolver_RelativeWithoutPageURL(t *testing.T) {
	dir := t.TempDir()
	writeSnapshot(t, dir, "frames/inner.html", `<p id="inner"></p>`)

	parent, err := ParseString(`<iframe src="frames/inner.html"></iframe>`, nil)
	require.NoError(t, err)

	doc, err := (&SnapshotResolver{Dir: dir}).Resolve(parent, parent.Frames()[0])
	require.NoError(t, err)
	assert.Equal(t, 1, doc.Find("p#inner").Length())
	assert.Nil(t, doc.URL())
}

func TestSnapshotResolver_CrossOrigin(t *testing.T) {
	dir := t.TempDir()
	writeSnapshot(t, dir, "player.vendor.com/embed.html", `<video></video>`)

	parent, err := ParseString(`<iframe src="https://player.vendor.com/embed.html"></iframe>`, mustURL(t, "https://x.com/"))
	require.NoError(t, err)
	frame := parent.Frames()[0]

	_, err = (&SnapshotResolver{Dir: dir}).Resolve(parent, frame)
	assert.ErrorIs(t, err, ErrCrossOrigin)

	doc, err := (&SnapshotResolver{Dir: dir, AllowCrossOrigin: true}).Resolve(parent, frame)
	require.NoError(t, err)
	assert.Equal(t, 1, doc.Find("video").Length())
}

func TestSnapshotResolver_AbsoluteSrcWithUnknownPageIsCrossOrigin(t *testing.T) {
	parent, err := ParseString(`<iframe src="https://x.com/a.html"></iframe>`, nil)
	require.NoError(t, err)

	var out bytes.Buffer
	logger.Log.SetOutput(&out)
	t.Cleanup(func() { logger.Log.SetOutput(os.Stderr) })

	resolver := &SnapshotResolver{Dir: t.TempDir()}
	_, err = resolver.Resolve(parent, parent.Frames()[0])
	assert.ErrorIs(t, err, ErrCrossOrigin)
	assert.Contains(t, err.Error(), "page address unknown")
	assert.Contains(t, out.String(), "-page-url")

	out.Reset()
	_, err = resolver.Resolve(parent, parent.Frames()[0])
	assert.ErrorIs(t, err, ErrCrossOrigin)
	assert.NotContains(t, out.String(), "-page-url", "hint is logged once per resolver")
}

func TestSnapshotResolver_NoContent(t *testing.T) {
	parent, err := ParseString(`<iframe></iframe><iframe src="about:blank"></iframe><iframe src="missing.html"></iframe>`, mustURL(t, "https://x.com/"))
	require.NoError(t, err)

	r := &SnapshotResolver{Dir: t.TempDir()}
	for _, f := range parent.Frames() {
		_, err := r.Resolve(parent, f)
		assert.ErrorIs(t, err, ErrNoContent, f.Label())
	}
}

func TestSnapshotResolver_CannotEscapeDir(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "snap")
	require.NoError(t, os.MkdirAll(dir, 0755))
	writeSnapshot(t, root, "secret.html", `<p id="secret"></p>`)

	parent, err := ParseString(`<iframe src="../secret.html"></iframe>`, nil)
	require.NoError(t, err)

	_, err = (&SnapshotResolver{Dir: dir}).Resolve(parent, parent.Frames()[0])
	assert.ErrorIs(t, err, ErrNoContent)
}

func TestChain(t *testing.T) {
	crossOrigin := ResolverFunc(func(*Document, Frame) (*Document, error) { return nil, ErrCrossOrigin })
	missing := ResolverFunc(func(*Document, Frame) (*Document, error) { return nil, ErrNoContent })
	found := ResolverFunc(func(parent *Document, _ Frame) (*Document, error) { return parent, nil })

	parent, err := ParseString(`<p></p>`, nil)
	require.NoError(t, err)

	doc, err := Chain{missing, found}.Resolve(parent, Frame{})
	require.NoError(t, err)
	assert.Same(t, parent, doc)

	_, err = Chain{crossOrigin, missing}.Resolve(parent, Frame{})
	assert.True(t, errors.Is(err, ErrCrossOrigin), "cross-origin should win over missing content, got %v", err)

	_, err = Chain{}.Resolve(parent, Frame{})
	assert.ErrorIs(t, err, ErrNoContent)
}
