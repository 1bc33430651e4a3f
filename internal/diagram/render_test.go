// SPDX-FileCopyrightText: 2026 The NexGen-AI Authors
// SPDX-License-Identifier: Apache-2.0

package diagram

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// fakeMMDC copies the -i input to the -o output, like a renderer that
// emits the mermaid source unchanged
const fakeMMDC = `#!/bin/sh
if [ "$1" = "--version" ]; then
  echo "11.4.2"
  exit 0
fi
while [ $# -gt 0 ]; do
  case "$1" in
    -i) in="$2"; shift 2 ;;
    -o) out="$2"; shift 2 ;;
    -e) fmt="$2"; shift 2 ;;
    *) shift ;;
  esac
done
cp "$in" "$out"
`

const failingMMDC = `#!/bin/sh
if [ "$1" = "--version" ]; then
  exit 1
fi
echo "Parse error on line 1" >&2
exit 3
`

func writeScript(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not executable on windows")
	}
	path := filepath.Join(t.TempDir(), "mmdc")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o755))
	return path
}

func TestParseFormat(t *testing.T) {
	for _, f := range Formats() {
		got, err := ParseFormat(string(f))
		require.NoError(t, err)
		assert.Equal(t, f, got)
	}

	got, err := ParseFormat(" SVG ")
	require.NoError(t, err)
	assert.Equal(t, SVG, got)

	_, err = ParseFormat("jpeg")
	assert.Error(t, err)
}

func TestNewRenderer(t *testing.T) {
	assert.Equal(t, DefaultBinary, NewRenderer().Binary)
	assert.Equal(t, "/opt/mmdc", NewRenderer(WithBinary("/opt/mmdc")).Binary)
}

func TestRenderer_Available(t *testing.T) {
	ctx := context.Background()

	t.Run("working binary", func(t *testing.T) {
		r := NewRenderer(WithBinary(writeScript(t, fakeMMDC)))
		assert.NoError(t, r.Available(ctx))
	})

	t.Run("binary fails", func(t *testing.T) {
		r := NewRenderer(WithBinary(writeScript(t, failingMMDC)))
		assert.ErrorIs(t, r.Available(ctx), ErrToolNotFound)
	})

	t.Run("missing binary", func(t *testing.T) {
		r := NewRenderer(WithBinary(filepath.Join(t.TempDir(), "does-not-exist")))
		assert.ErrorIs(t, r.Available(ctx), ErrToolNotFound)
	})
}

func TestRenderer_Render(t *testing.T) {
	ctx := context.Background()
	d := Diagram{Name: "system_architecture", Code: "graph TD\n  A --> B"}

	t.Run("success", func(t *testing.T) {
		outDir := t.TempDir()
		r := NewRenderer(WithBinary(writeScript(t, fakeMMDC)))

		path, err := r.Render(ctx, d, outDir, SVG)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(outDir, "system_architecture.svg"), path)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, d.Code, string(data))

		leftovers, err := filepath.Glob(filepath.Join(outDir, "*.mmd"))
		require.NoError(t, err)
		assert.Empty(t, leftovers, "temporary source must be removed")
	})

	t.Run("non-zero exit", func(t *testing.T) {
		outDir := t.TempDir()
		r := NewRenderer(WithBinary(writeScript(t, failingMMDC)))

		_, err := r.Render(ctx, d, outDir, PNG)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to render system_architecture")
		assert.Contains(t, err.Error(), "Parse error on line 1")

		leftovers, err := filepath.Glob(filepath.Join(outDir, "*.mmd"))
		require.NoError(t, err)
		assert.Empty(t, leftovers)
	})

	t.Run("missing binary", func(t *testing.T) {
		r := NewRenderer(WithBinary("socmodel-no-such-mmdc"))
		_, err := r.Render(ctx, d, t.TempDir(), PNG)
		assert.ErrorIs(t, err, ErrToolNotFound)
	})

	t.Run("missing output dir", func(t *testing.T) {
		r := NewRenderer(WithBinary(writeScript(t, fakeMMDC)))
		_, err := r.Render(ctx, d, filepath.Join(t.TempDir(), "missing"), PNG)
		assert.Error(t, err)
	})
}

type mockRunner struct {
	mock.Mock
}

func (m *mockRunner) LookPath(name string) (string, error) {
	args := m.Called(name)
	return args.String(0), args.Error(1)
}

func (m *mockRunner) Run(ctx context.Context, name string, args ...string) error {
	return m.Called(name, args).Error(0)
}

func TestDisplay(t *testing.T) {
	ctx := context.Background()
	notFound := errors.New("not found")

	t.Run("imgcat first", func(t *testing.T) {
		r := new(mockRunner)
		r.On("LookPath", "imgcat").Return("/usr/bin/imgcat", nil)
		r.On("Run", "imgcat", []string{"a.png"}).Return(nil)

		require.NoError(t, display(ctx, r, "linux", "a.png"))
		r.AssertExpectations(t)
		r.AssertNotCalled(t, "LookPath", "chafa")
	})

	t.Run("chafa fallback", func(t *testing.T) {
		r := new(mockRunner)
		r.On("LookPath", "imgcat").Return("", notFound)
		r.On("LookPath", "chafa").Return("/usr/bin/chafa", nil)
		r.On("Run", "chafa", []string{"a.png"}).Return(nil)

		require.NoError(t, display(ctx, r, "linux", "a.png"))
		r.AssertExpectations(t)
	})

	t.Run("platform opener", func(t *testing.T) {
		tests := []struct {
			goos string
			name string
			args []string
		}{
			{"linux", "xdg-open", []string{"a.png"}},
			{"darwin", "open", []string{"a.png"}},
			{"windows", "cmd", []string{"/c", "start", "", "a.png"}},
		}
		for _, tc := range tests {
			t.Run(tc.goos, func(t *testing.T) {
				r := new(mockRunner)
				r.On("LookPath", "imgcat").Return("", notFound)
				r.On("LookPath", "chafa").Return("", notFound)
				r.On("LookPath", tc.name).Return(tc.name, nil)
				r.On("Run", tc.name, tc.args).Return(nil)

				require.NoError(t, display(ctx, r, tc.goos, "a.png"))
				r.AssertExpectations(t)
			})
		}
	})

	t.Run("no viewer", func(t *testing.T) {
		r := new(mockRunner)
		r.On("LookPath", mock.Anything).Return("", notFound)

		assert.ErrorIs(t, display(ctx, r, "linux", "a.png"), ErrToolNotFound)
		r.AssertNotCalled(t, "Run", mock.Anything, mock.Anything)
	})
}
